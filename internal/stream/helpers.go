package stream

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GormBatchFetcher pages through query with FindInBatches, ordered by
// primary key. query should already carry its filters, preloads and
// context; the fetcher adds its own ctx on top so cancellation stops the
// scan between pages.
func GormBatchFetcher[T any](query *gorm.DB, batchSize int) BatchFetcher[T] {
	if batchSize <= 0 {
		batchSize = DefaultChunkConfig().BatchSize
	}
	return func(ctx context.Context) (<-chan []T, <-chan error) {
		batchChan := make(chan []T, 2)
		errChan := make(chan error, 1)

		go func() {
			defer close(batchChan)
			defer close(errChan)

			var page []T
			result := query.WithContext(ctx).FindInBatches(&page, batchSize, func(tx *gorm.DB, _ int) error {
				batch := make([]T, len(page))
				copy(batch, page)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case batchChan <- batch:
					return nil
				}
			})
			if result.Error != nil && !errors.Is(result.Error, context.Canceled) {
				errChan <- fmt.Errorf("failed to fetch batch: %w", result.Error)
			}
		}()

		return batchChan, errChan
	}
}

// SliceFetcher streams an in-memory slice.
func SliceFetcher[T any](items []T) DataFetcher[T] {
	return func(ctx context.Context) (<-chan T, <-chan error) {
		dataChan := make(chan T, 10)
		errChan := make(chan error, 1)

		go func() {
			defer close(dataChan)
			defer close(errChan)

			for _, item := range items {
				select {
				case <-ctx.Done():
					return
				case dataChan <- item:
				}
			}
		}()

		return dataChan, errChan
	}
}

// SliceBatchFetcher streams an in-memory slice in pages of batchSize.
func SliceBatchFetcher[T any](items []T, batchSize int) BatchFetcher[T] {
	if batchSize <= 0 {
		batchSize = DefaultChunkConfig().BatchSize
	}
	return func(ctx context.Context) (<-chan []T, <-chan error) {
		batchChan := make(chan []T, 2)
		errChan := make(chan error, 1)

		go func() {
			defer close(batchChan)
			defer close(errChan)

			for start := 0; start < len(items); start += batchSize {
				end := min(start+batchSize, len(items))
				select {
				case <-ctx.Done():
					return
				case batchChan <- items[start:end]:
				}
			}
		}()

		return batchChan, errChan
	}
}

// PassThroughTransformer returns items unchanged
func PassThroughTransformer[T any]() Transformer[T] {
	return func(item T) (any, error) {
		return item, nil
	}
}

// MapBatch lifts a per-item transformer to a BatchTransformer.
func MapBatch[T any](transformer Transformer[T]) BatchTransformer[T] {
	return func(items []T) ([]any, error) {
		out := make([]any, 0, len(items))
		for i, item := range items {
			transformed, err := transformer(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, transformed)
		}
		return out, nil
	}
}
