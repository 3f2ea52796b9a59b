package middleware

import (
	"sync"
	"time"
)

type Response struct {
	Data    any
	Message string
	Code    int
	Error   error
}

type ResponseAPIDebug struct {
	Version   string    `json:"version"`
	Error     *string   `json:"error"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	RuntimeMs int64     `json:"runtimeMs"`
}

type ResponseAPI struct {
	RequestID string            `json:"requestId"`
	Data      any               `json:"data"`
	Message   string            `json:"message"`
	Debug     *ResponseAPIDebug `json:"debug,omitempty"`
}

// StreamChunk carries one encoded slice of a streamed JSON array. JSONBuf
// comes from jsonBufferPool and is returned to it once written.
type StreamChunk struct {
	JSONBuf *[]byte
	Error   error
}

// StreamResponse represents a streaming response configuration
type StreamResponse struct {
	TotalCount int64              // sent as X-Total-Count, -1 when unknown
	ChunkChan  <-chan StreamChunk // closed by the producer when done
	Error      error              // set when streaming fails before starting
	Code       int                // HTTP status code (default 200)
}

// Keys under which the per-request helpers and identity are stored on the
// gin context.
const (
	KeySend       = "send"
	KeySendStream = "sendStream"
	KeyRequestID  = "requestId"
	KeyPrincipal  = "principal"
)

var jsonBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, 4096)
		return &buf
	},
}

// GetBuffer hands out a pooled buffer for stream producers.
func GetBuffer() *[]byte {
	buf := jsonBufferPool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

// PutBuffer returns a buffer obtained from GetBuffer.
func PutBuffer(buf *[]byte) {
	if buf != nil {
		jsonBufferPool.Put(buf)
	}
}
