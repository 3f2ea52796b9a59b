package health

import (
	"context"
	"errors"
	"sort"
	"time"

	"boleteria/middleware"

	json "github.com/json-iterator/go"
)

var ErrUnhealthy = errors.New("one or more dependencies are unreachable")

const pingTimeout = 2 * time.Second

type Service struct {
	checks map[string]Pinger
}

// NewService reports on the database and, when redis is non-nil, the
// revocation store.
func NewService(database Pinger, redis Pinger) *Service {
	checks := map[string]Pinger{"database": database}
	if redis != nil {
		checks["redis"] = redis
	}
	return &Service{checks: checks}
}

func (s *Service) check(ctx context.Context) (map[string]string, bool) {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		if err := s.checks[name].Ping(pingCtx); err != nil {
			result[name] = "error"
			healthy = false
		} else {
			result[name] = "ok"
		}
		cancel()
	}
	return result, healthy
}

// CheckHealth pings every dependency and returns ErrUnhealthy if any failed
func (s *Service) CheckHealth(ctx context.Context) (map[string]string, error) {
	result, healthy := s.check(ctx)
	if !healthy {
		return result, ErrUnhealthy
	}
	return result, nil
}

// CheckHealthStream streams the same report as a one-element array
func (s *Service) CheckHealthStream(ctx context.Context) <-chan middleware.StreamChunk {
	chunkChan := make(chan middleware.StreamChunk, 1)
	go func() {
		defer close(chunkChan)

		result, _ := s.check(ctx)
		jsonData, err := json.Marshal([]map[string]string{result})
		if err != nil {
			chunkChan <- middleware.StreamChunk{Error: err}
			return
		}
		buf := middleware.GetBuffer()
		*buf = append(*buf, jsonData...)
		chunkChan <- middleware.StreamChunk{JSONBuf: buf}
	}()
	return chunkChan
}
