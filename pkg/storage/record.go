package storage

import (
	"context"
	"encoding/json"

	"github.com/powercore-shop/storefront/pkg/logger"
)

type loadStatus int

const (
	loadOK loadStatus = iota
	loadMissing
	loadCorrupted
)

type loadResult[T any] struct {
	value  T
	status loadStatus
	reason error
}

// Record is a typed view over one namespaced key. Load never fails: a missing
// key, malformed payload, or wrong container shape yields the default and, for
// corruption, removes the offending key. Save persists synchronously and
// swallows storage failures after logging them.
type Record[T any] struct {
	kv     KV
	key    string
	logg   *logger.Logger
	defval func() T
}

func NewRecord[T any](kv KV, namespace, name string, logg *logger.Logger, defval func() T) *Record[T] {
	return &Record[T]{
		kv:     kv,
		key:    Key(namespace, name),
		logg:   logg,
		defval: defval,
	}
}

func (r *Record[T]) Key() string {
	return r.key
}

func (r *Record[T]) Load(ctx context.Context) T {
	res := r.load(ctx)
	switch res.status {
	case loadOK:
		return res.value
	case loadCorrupted:
		if r.logg != nil {
			ctx := r.logg.WithField(ctx, "key", r.key)
			r.logg.Warn(ctx, "discarding corrupted persisted record")
		}
		if err := r.kv.Delete(ctx, r.key); err != nil && r.logg != nil {
			r.logg.Error(r.logg.WithField(ctx, "key", r.key), "failed to clear corrupted record", err)
		}
	}
	return r.defval()
}

func (r *Record[T]) load(ctx context.Context) loadResult[T] {
	raw, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return loadResult[T]{status: loadCorrupted, reason: err}
	}
	if !found || len(raw) == 0 {
		return loadResult[T]{status: loadMissing}
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return loadResult[T]{status: loadCorrupted, reason: err}
	}
	return loadResult[T]{value: value, status: loadOK}
}

func (r *Record[T]) Save(ctx context.Context, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		if r.logg != nil {
			r.logg.Error(r.logg.WithField(ctx, "key", r.key), "failed to serialize record", err)
		}
		return
	}
	if err := r.kv.Set(ctx, r.key, raw); err != nil && r.logg != nil {
		r.logg.Error(r.logg.WithField(ctx, "key", r.key), "failed to persist record", err)
	}
}

// Clear removes the record entirely.
func (r *Record[T]) Clear(ctx context.Context) {
	if err := r.kv.Delete(ctx, r.key); err != nil && r.logg != nil {
		r.logg.Error(r.logg.WithField(ctx, "key", r.key), "failed to clear record", err)
	}
}
