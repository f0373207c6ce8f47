package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// Value is a JSON document stored under one key. The first Load reads the
// backend; afterwards the cached value is authoritative and Set writes
// through. A Value is not safe for concurrent use.
type Value[T any] struct {
	kv       KV
	key      string
	fallback T
	reviver  Reviver
	logger   *zap.Logger

	value   T
	mounted bool
}

func NewValue[T any](kv KV, key string, fallback T, reviver Reviver, logger *zap.Logger) *Value[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Value[T]{
		kv:       kv,
		key:      key,
		fallback: fallback,
		reviver:  reviver,
		logger:   logger,
		value:    fallback,
	}
}

// Load returns the stored value, reading the backend on the first call.
// A missing key or a document that fails to decode yields the fallback;
// the failure is logged, never returned. mounted reports whether the
// initial read has happened; without a backend it stays false and the
// value lives in memory only.
func (v *Value[T]) Load() (value T, mounted bool) {
	if v.mounted || v.kv == nil {
		return v.value, v.mounted
	}
	v.mounted = true

	decoded, err := v.read()
	switch {
	case errors.Is(err, ErrNotFound):
		v.logger.Debug("storage key absent, using fallback", zap.String("key", v.key))
		v.value = v.fallback
	case err != nil:
		v.logger.Warn("error reading storage key", zap.String("key", v.key), zap.Error(err))
		v.value = v.fallback
	default:
		v.value = decoded
	}
	return v.value, true
}

// Current returns the cached value without touching the backend. Before
// the initial read it is the fallback.
func (v *Value[T]) Current() (T, bool) {
	return v.value, v.mounted
}

// Set replaces the cached value and writes it through. A write fault is
// logged and returned for the caller to report; the cached value keeps the
// new state either way.
func (v *Value[T]) Set(value T) error {
	v.value = value
	if v.kv == nil {
		return ErrUnavailable
	}
	data, err := json.Marshal(value)
	if err != nil {
		v.logger.Warn("error encoding storage key", zap.String("key", v.key), zap.Error(err))
		return fmt.Errorf("encode %s: %w", v.key, err)
	}
	if err := v.kv.Put(v.key, data); err != nil {
		v.logger.Warn("error setting storage key", zap.String("key", v.key), zap.Error(err))
		return fmt.Errorf("write %s: %w", v.key, err)
	}
	return nil
}

func (v *Value[T]) read() (T, error) {
	var out T
	raw, err := v.kv.Get(v.key)
	if err != nil {
		return out, err
	}
	if v.reviver != nil {
		raw, err = Revive(raw, v.reviver)
		if err != nil {
			return out, err
		}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", v.key, err)
	}
	return out, nil
}

// Revive decodes raw, passes every node bottom-up through r, and re-encodes
// the result. Array elements are visited with their index as the key; the
// root is visited with the empty key.
func Revive(raw []byte, r Reviver) ([]byte, error) {
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	revived, err := walk("", tree, r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(revived)
}

func walk(key string, node any, r Reviver) (any, error) {
	switch n := node.(type) {
	case map[string]any:
		for k, child := range n {
			nv, err := walk(k, child, r)
			if err != nil {
				return nil, err
			}
			n[k] = nv
		}
	case []any:
		for i, child := range n {
			nv, err := walk(strconv.Itoa(i), child, r)
			if err != nil {
				return nil, err
			}
			n[i] = nv
		}
	}
	return r(key, node)
}
