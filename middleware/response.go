package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func setResponseDefaults(r *Response) {
	if r.Message == "" {
		r.Message = "Success"
	}
	if r.Code == 0 {
		r.Code = http.StatusOK
	}
}

func logResponseError(c *gin.Context, z *zap.Logger, r Response) {
	if r.Error == nil {
		return
	}

	fields := []zap.Field{
		zap.String("requestId", c.GetString(KeyRequestID)),
		zap.String("path", c.Request.URL.Path),
		zap.Int("code", r.Code),
		zap.Error(r.Error),
	}
	if r.Code >= http.StatusInternalServerError {
		z.Error("request failed", fields...)
		return
	}
	z.Info("request rejected", fields...)
}

func getStartTime(c *gin.Context) time.Time {
	if value, exists := c.Get("start-time"); exists {
		if t, ok := value.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}

func buildDebugInfo(c *gin.Context, r Response) *ResponseAPIDebug {
	startTime := getStartTime(c)
	endTime := time.Now()

	var errMsg *string
	if r.Error != nil {
		msg := r.Error.Error()
		errMsg = &msg
	}

	return &ResponseAPIDebug{
		Version:   c.GetString("version"),
		StartTime: startTime,
		EndTime:   endTime,
		RuntimeMs: endTime.Sub(startTime).Milliseconds(),
		Error:     errMsg,
	}
}

func buildResponseAPI(c *gin.Context, r Response, shouldDebug bool) ResponseAPI {
	response := ResponseAPI{
		RequestID: c.GetString(KeyRequestID),
		Message:   r.Message,
		Data:      r.Data,
	}

	if shouldDebug {
		response.Debug = buildDebugInfo(c, r)
	}

	return response
}

func send(c *gin.Context, z *zap.Logger, shouldDebug bool) func(r Response) {
	return func(r Response) {
		setResponseDefaults(&r)
		logResponseError(c, z, r)
		response := buildResponseAPI(c, r, shouldDebug)

		c.Abort()
		c.JSON(r.Code, response)
	}
}

// RequestInit assigns the request id, version and start time
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(KeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)

		version := c.Request.Header.Get("version")
		if version == "" {
			version = "1.0.0"
		}
		c.Set("version", version)
		c.Set("start-time", time.Now())
		c.Next()
	}
}

// sendStream writes the chunks of r as they arrive, flushing after each one.
// Errors before the first chunk fall back to a regular error envelope; later
// errors can only end the response early.
func sendStream(c *gin.Context, z *zap.Logger, shouldDebug bool) func(r StreamResponse) {
	return func(r StreamResponse) {
		if r.Code == 0 {
			r.Code = http.StatusOK
		}

		if r.Error != nil {
			send(c, z, shouldDebug)(Response{
				Code:    StatusFromError(r.Error),
				Message: "Stream failed",
				Error:   r.Error,
			})
			return
		}

		requestID := c.GetString(KeyRequestID)
		c.Header("Content-Type", "application/json")
		c.Header("X-Total-Count", fmt.Sprintf("%d", r.TotalCount))

		writer := c.Writer
		firstChunk := true

		for chunk := range r.ChunkChan {
			select {
			case <-c.Request.Context().Done():
				z.Info("stream canceled", zap.String("requestId", requestID), zap.Error(c.Request.Context().Err()))
				drain(r.ChunkChan)
				c.Abort()
				return
			default:
			}

			if chunk.Error != nil {
				if firstChunk {
					send(c, z, shouldDebug)(Response{
						Code:    http.StatusInternalServerError,
						Message: "Stream failed",
						Error:   chunk.Error,
					})
				} else {
					z.Error("stream aborted", zap.String("requestId", requestID), zap.Error(chunk.Error))
				}
				drain(r.ChunkChan)
				c.Abort()
				return
			}

			if chunk.JSONBuf == nil || len(*chunk.JSONBuf) == 0 {
				continue
			}
			if firstChunk {
				c.Status(r.Code)
				firstChunk = false
			}
			writer.Write(*chunk.JSONBuf)
			PutBuffer(chunk.JSONBuf)
			writer.Flush()
		}

		if shouldDebug {
			z.Debug("stream completed",
				zap.String("requestId", requestID),
				zap.Int64("runtimeMs", time.Since(getStartTime(c)).Milliseconds()),
				zap.Int64("totalCount", r.TotalCount),
			)
		}

		c.Abort()
	}
}

// drain consumes the rest of a stream so its producer goroutine can exit.
func drain(ch <-chan StreamChunk) {
	for chunk := range ch {
		PutBuffer(chunk.JSONBuf)
	}
}

// ResponseInit injects the send and sendStream closures
func ResponseInit(z *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shouldDebug := gin.Mode() == gin.DebugMode
		c.Set(KeySend, send(c, z, shouldDebug))
		c.Set(KeySendStream, sendStream(c, z, shouldDebug))
		c.Next()
	}
}

// Send fetches the response helper installed by ResponseInit.
func Send(c *gin.Context) func(Response) {
	return c.MustGet(KeySend).(func(Response))
}

// SendStream fetches the streaming helper installed by ResponseInit.
func SendStream(c *gin.Context) func(StreamResponse) {
	return c.MustGet(KeySendStream).(func(StreamResponse))
}
