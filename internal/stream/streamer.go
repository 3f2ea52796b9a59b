package stream

import (
	"context"
	"fmt"
	"net/http"

	"boleteria/middleware"

	json "github.com/json-iterator/go"
)

// streamer packs encoded items into buffers borrowed from the middleware
// pool. Each Stream call runs in its own goroutine, so one streamer can be
// shared between requests.
type streamer[T any] struct {
	config ChunkConfig
}

// NewStreamer creates a Streamer with config, filling in defaults
func NewStreamer[T any](config ChunkConfig) Streamer[T] {
	config.applyDefaults()
	return &streamer[T]{config: config}
}

// NewDefaultStreamer creates a Streamer with DefaultChunkConfig
func NewDefaultStreamer[T any]() Streamer[T] {
	return NewStreamer[T](DefaultChunkConfig())
}

// GetConfig returns the effective chunk configuration
func (s *streamer[T]) GetConfig() ChunkConfig {
	return s.config
}

// arrayWriter accumulates a JSON array across chunk boundaries.
type arrayWriter struct {
	ctx       context.Context
	out       chan<- middleware.StreamChunk
	buf       *[]byte
	threshold int
	first     bool
}

func newArrayWriter(ctx context.Context, out chan<- middleware.StreamChunk, threshold int) *arrayWriter {
	buf := middleware.GetBuffer()
	*buf = append(*buf, '[')
	return &arrayWriter{ctx: ctx, out: out, buf: buf, threshold: threshold, first: true}
}

// emit hands a chunk to the consumer unless the request is gone.
func (w *arrayWriter) emit(chunk middleware.StreamChunk) bool {
	select {
	case <-w.ctx.Done():
		middleware.PutBuffer(chunk.JSONBuf)
		return false
	case w.out <- chunk:
		return true
	}
}

func (w *arrayWriter) write(item any) bool {
	data, err := json.Marshal(item)
	if err != nil {
		return w.fail(fmt.Errorf("JSON marshal error: %w", err))
	}

	if !w.first {
		*w.buf = append(*w.buf, ',')
	}
	w.first = false
	*w.buf = append(*w.buf, data...)

	if len(*w.buf) > w.threshold {
		full := w.buf
		w.buf = middleware.GetBuffer()
		return w.emit(middleware.StreamChunk{JSONBuf: full})
	}
	return true
}

func (w *arrayWriter) close() {
	*w.buf = append(*w.buf, ']')
	w.emit(middleware.StreamChunk{JSONBuf: w.buf})
	w.buf = nil
}

func (w *arrayWriter) fail(err error) bool {
	middleware.PutBuffer(w.buf)
	w.buf = nil
	w.emit(middleware.StreamChunk{Error: err})
	return false
}

// release returns the working buffer when the stream stops early.
func (w *arrayWriter) release() {
	if w.buf != nil {
		middleware.PutBuffer(w.buf)
		w.buf = nil
	}
}

// Stream transforms and encodes items one by one. The response's TotalCount
// is -1; callers that know the count should overwrite it.
func (s *streamer[T]) Stream(ctx context.Context, fetcher DataFetcher[T], transformer Transformer[T]) middleware.StreamResponse {
	chunkChan := make(chan middleware.StreamChunk, s.config.ChannelBuffer)

	go func() {
		defer close(chunkChan)

		w := newArrayWriter(ctx, chunkChan, s.config.ChunkThreshold)
		defer w.release()

		dataChan, errChan := fetcher(ctx)
		for {
			select {
			case <-ctx.Done():
				return

			case err, ok := <-errChan:
				if !ok {
					errChan = nil
					continue
				}
				if err != nil {
					w.fail(fmt.Errorf("fetcher error: %w", err))
					return
				}

			case item, ok := <-dataChan:
				if !ok {
					if err := pendingError(errChan); err != nil {
						w.fail(fmt.Errorf("fetcher error: %w", err))
						return
					}
					w.close()
					return
				}

				transformed, err := transformer(item)
				if err != nil {
					w.fail(fmt.Errorf("transformer error: %w", err))
					return
				}
				if !w.write(transformed) {
					return
				}
			}
		}
	}()

	return middleware.StreamResponse{
		TotalCount: -1,
		ChunkChan:  chunkChan,
		Code:       http.StatusOK,
	}
}

// StreamBatch is Stream for batch fetchers.
func (s *streamer[T]) StreamBatch(ctx context.Context, fetcher BatchFetcher[T], transformer BatchTransformer[T]) middleware.StreamResponse {
	chunkChan := make(chan middleware.StreamChunk, s.config.ChannelBuffer)

	go func() {
		defer close(chunkChan)

		w := newArrayWriter(ctx, chunkChan, s.config.ChunkThreshold)
		defer w.release()

		batchChan, errChan := fetcher(ctx)
		for {
			select {
			case <-ctx.Done():
				return

			case err, ok := <-errChan:
				if !ok {
					errChan = nil
					continue
				}
				if err != nil {
					w.fail(fmt.Errorf("batch fetcher error: %w", err))
					return
				}

			case batch, ok := <-batchChan:
				if !ok {
					if err := pendingError(errChan); err != nil {
						w.fail(fmt.Errorf("batch fetcher error: %w", err))
						return
					}
					w.close()
					return
				}

				transformed, err := transformer(batch)
				if err != nil {
					w.fail(fmt.Errorf("batch transformer error: %w", err))
					return
				}
				for _, item := range transformed {
					if !w.write(item) {
						return
					}
				}
			}
		}
	}()

	return middleware.StreamResponse{
		TotalCount: -1,
		ChunkChan:  chunkChan,
		Code:       http.StatusOK,
	}
}

// pendingError reads a trailing error once the data channel has closed.
// Fetchers close errChan first, so this never blocks on a well-behaved one.
func pendingError(errChan <-chan error) error {
	if errChan == nil {
		return nil
	}
	return <-errChan
}
