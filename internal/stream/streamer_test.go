package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"boleteria/common"
	"boleteria/internal/testutil"
	"boleteria/middleware"

	json "github.com/json-iterator/go"
)

// collect drains a stream response into one byte slice, failing on chunk errors.
func collect(t *testing.T, resp middleware.StreamResponse) []byte {
	t.Helper()
	var all []byte
	for chunk := range resp.ChunkChan {
		if chunk.Error != nil {
			t.Fatalf("Chunk error: %v", chunk.Error)
		}
		if chunk.JSONBuf != nil {
			all = append(all, *chunk.JSONBuf...)
		}
	}
	return all
}

func collectError(resp middleware.StreamResponse) error {
	var last error
	for chunk := range resp.ChunkChan {
		if chunk.Error != nil {
			last = chunk.Error
		}
	}
	return last
}

func TestStreamer_Stream(t *testing.T) {
	ctx := context.Background()
	config := DefaultChunkConfig()
	config.ChunkThreshold = 100
	streamer := NewStreamer[int](config)

	t.Run("streams items across several chunks", func(t *testing.T) {
		items := make([]int, 50)
		for i := range items {
			items[i] = i + 1
		}

		transformer := func(item int) (any, error) {
			return map[string]int{"value": item}, nil
		}

		resp := streamer.Stream(ctx, SliceFetcher(items), transformer)
		if resp.Code != 200 {
			t.Errorf("Expected code 200, got %d", resp.Code)
		}
		if resp.TotalCount != -1 {
			t.Errorf("Expected unknown total count, got %d", resp.TotalCount)
		}

		chunks := 0
		var all []byte
		for chunk := range resp.ChunkChan {
			if chunk.Error != nil {
				t.Fatalf("Chunk error: %v", chunk.Error)
			}
			chunks++
			all = append(all, *chunk.JSONBuf...)
		}
		if chunks < 2 {
			t.Errorf("Expected the threshold to split output, got %d chunk(s)", chunks)
		}

		var result []map[string]int
		if err := json.Unmarshal(all, &result); err != nil {
			t.Fatalf("Failed to parse JSON: %v\nData: %s", err, string(all))
		}
		if len(result) != 50 {
			t.Fatalf("Expected 50 items, got %d", len(result))
		}
		for i, item := range result {
			if item["value"] != i+1 {
				t.Errorf("Item %d: expected value %d, got %d", i, i+1, item["value"])
			}
		}
	})

	t.Run("handles empty data", func(t *testing.T) {
		resp := streamer.Stream(ctx, SliceFetcher([]int{}), PassThroughTransformer[int]())
		if got := string(collect(t, resp)); got != "[]" {
			t.Errorf("Expected empty array [], got %s", got)
		}
	})

	t.Run("handles fetcher error", func(t *testing.T) {
		fetcher := func(ctx context.Context) (<-chan int, <-chan error) {
			dataChan := make(chan int, 1)
			errChan := make(chan error, 1)
			go func() {
				defer close(dataChan)
				defer close(errChan)
				errChan <- fmt.Errorf("test error")
			}()
			return dataChan, errChan
		}

		err := collectError(streamer.Stream(ctx, fetcher, PassThroughTransformer[int]()))
		if err == nil || !strings.Contains(err.Error(), "test error") {
			t.Errorf("Expected fetcher error, got %v", err)
		}
	})

	t.Run("handles transformer error", func(t *testing.T) {
		transformer := func(item int) (any, error) {
			if item == 3 {
				return nil, errors.New("bad item")
			}
			return item, nil
		}

		err := collectError(streamer.Stream(ctx, SliceFetcher([]int{1, 2, 3, 4}), transformer))
		if err == nil || !strings.Contains(err.Error(), "bad item") {
			t.Errorf("Expected transformer error, got %v", err)
		}
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		fetcher := func(ctx context.Context) (<-chan int, <-chan error) {
			dataChan := make(chan int)
			errChan := make(chan error, 1)
			go func() {
				defer close(dataChan)
				defer close(errChan)
				for i := 0; ; i++ {
					select {
					case <-ctx.Done():
						return
					case dataChan <- i:
					}
				}
			}()
			return dataChan, errChan
		}

		resp := streamer.Stream(cctx, fetcher, PassThroughTransformer[int]())
		<-resp.ChunkChan
		cancel()

		done := make(chan struct{})
		go func() {
			for range resp.ChunkChan {
			}
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("stream did not stop after cancellation")
		}
	})
}

func TestStreamer_StreamBatch(t *testing.T) {
	ctx := context.Background()
	streamer := NewStreamer[string](ChunkConfig{ChunkThreshold: 16})

	items := []string{"a", "b", "c", "d", "e"}
	resp := streamer.StreamBatch(ctx, SliceBatchFetcher(items, 2), MapBatch(func(s string) (any, error) {
		return strings.ToUpper(s), nil
	}))

	var result []string
	if err := json.Unmarshal(collect(t, resp), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if strings.Join(result, "") != "ABCDE" {
		t.Errorf("Expected ABCDE, got %v", result)
	}
}

func TestChunkConfig(t *testing.T) {
	s := NewStreamer[int](ChunkConfig{ChunkThreshold: -1})
	got := s.GetConfig()
	want := DefaultChunkConfig()
	if got != want {
		t.Errorf("Expected defaults %+v, got %+v", want, got)
	}
}

func TestMapBatch_PropagatesError(t *testing.T) {
	transform := MapBatch(func(i int) (any, error) {
		if i < 0 {
			return nil, errors.New("negative")
		}
		return i, nil
	})

	if _, err := transform([]int{1, -1}); err == nil || !strings.Contains(err.Error(), "item 1") {
		t.Errorf("Expected error naming item 1, got %v", err)
	}
}

func TestGormBatchFetcher(t *testing.T) {
	db := testutil.OpenDB(t)

	for i := 1; i <= 7; i++ {
		event := common.Event{
			Name:     fmt.Sprintf("Concierto %d", i),
			Date:     time.Date(2026, 1, i, 20, 0, 0, 0, time.UTC),
			Venue:    "Coliseo",
			Capacity: 100,
		}
		if err := db.Create(&event).Error; err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}

	streamer := NewDefaultStreamer[common.Event]()
	fetcher := GormBatchFetcher[common.Event](db.Model(&common.Event{}), 3)
	resp := streamer.StreamBatch(context.Background(), fetcher, MapBatch(PassThroughTransformer[common.Event]()))

	var events []common.Event
	if err := json.Unmarshal(collect(t, resp), &events); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(events) != 7 {
		t.Fatalf("Expected 7 events, got %d", len(events))
	}
	for i, e := range events {
		if e.ID != uint(i+1) {
			t.Errorf("Expected events in id order, position %d has id %d", i, e.ID)
		}
	}
}
