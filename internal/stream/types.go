// Package stream encodes large result sets as a chunked JSON array without
// holding the whole array in memory.
//
// A fetcher produces items (or batches of items) on a channel, a transformer
// turns each one into something JSON-encodable, and the streamer packs the
// encoded items into pooled buffers that middleware.sendStream writes and
// flushes one at a time.
//
//	streamer := stream.NewDefaultStreamer[common.Ticket]()
//	resp := streamer.StreamBatch(ctx, stream.GormBatchFetcher[common.Ticket](db, 500), toExport)
//	sendStream(resp)
package stream

import (
	"context"

	"boleteria/middleware"
)

// DataFetcher produces items one at a time.
//
// Implementations MUST send at most one error, and MUST close the error
// channel before the data channel so the streamer can pick up a trailing
// error once data runs out.
type DataFetcher[T any] func(ctx context.Context) (<-chan T, <-chan error)

// BatchFetcher is DataFetcher for sources that naturally return pages, such
// as gorm's FindInBatches. The same channel ordering rules apply.
type BatchFetcher[T any] func(ctx context.Context) (<-chan []T, <-chan error)

// Transformer maps one item to its JSON-encodable output. An error stops
// the stream.
type Transformer[T any] func(item T) (any, error)

// BatchTransformer maps a whole batch. The output should have one element
// per input item.
type BatchTransformer[T any] func(items []T) ([]any, error)

type Streamer[T any] interface {
	Stream(ctx context.Context, fetcher DataFetcher[T], transformer Transformer[T]) middleware.StreamResponse
	StreamBatch(ctx context.Context, fetcher BatchFetcher[T], transformer BatchTransformer[T]) middleware.StreamResponse
	GetConfig() ChunkConfig
}

// ChunkConfig controls chunking. Zero values take the defaults.
type ChunkConfig struct {
	// ChunkThreshold is the buffered size in bytes past which a chunk is
	// handed to the writer. Default 32KB.
	ChunkThreshold int

	// BatchSize is the page size used by batch fetchers. Default 500.
	BatchSize int

	// ChannelBuffer is the capacity of the chunk channel. Default 4.
	ChannelBuffer int
}

// DefaultChunkConfig returns the default chunking parameters
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkThreshold: 32 * 1024,
		BatchSize:      500,
		ChannelBuffer:  4,
	}
}

// applyDefaults fills zero or negative fields with the defaults.
func (c *ChunkConfig) applyDefaults() {
	defaults := DefaultChunkConfig()
	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = defaults.ChunkThreshold
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.ChannelBuffer <= 0 {
		c.ChannelBuffer = defaults.ChannelBuffer
	}
}
