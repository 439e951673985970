package store

import (
	"Snack-Tracker/pkg/metrics"
	"context"
	"time"
)

type instrumentedStore struct {
	next Store
}

// Instrument wraps s so every call is counted and timed.
func Instrument(s Store) Store {
	return &instrumentedStore{next: s}
}

func (s *instrumentedStore) Get(ctx context.Context, path string) (snap *Snapshot, err error) {
	defer func(start time.Time) { metrics.Observe(metrics.ServiceStore, "get", start, err) }(time.Now())
	return s.next.Get(ctx, path)
}

func (s *instrumentedStore) Set(ctx context.Context, path string, fields Fields) (err error) {
	defer func(start time.Time) { metrics.Observe(metrics.ServiceStore, "set", start, err) }(time.Now())
	return s.next.Set(ctx, path, fields)
}

func (s *instrumentedStore) Push(ctx context.Context, parent string) (key string, err error) {
	defer func(start time.Time) { metrics.Observe(metrics.ServiceStore, "push", start, err) }(time.Now())
	return s.next.Push(ctx, parent)
}
