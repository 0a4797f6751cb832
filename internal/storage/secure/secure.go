// Package secure persists named numeric values behind a keyed checksum and a
// retention window. Values that fail either check are discarded, never trusted.
package secure

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/cory-johannsen/neonsurge/internal/clock"
	"github.com/cory-johannsen/neonsurge/internal/config"
	"github.com/cory-johannsen/neonsurge/internal/observability"
	"github.com/cory-johannsen/neonsurge/internal/storage"
)

var (
	// ErrNotFound is returned by Read when nothing is stored under the key.
	ErrNotFound = errors.New("secure: value not found")
	// ErrIntegrity is returned by Read when the stored payload is malformed or its checksum does not match.
	ErrIntegrity = errors.New("secure: integrity check failed")
	// ErrStale is returned by Read when the stored payload is older than the retention window.
	ErrStale = errors.New("secure: value is stale")
	// ErrInvalidValue is returned by Write for negative or non-finite values.
	ErrInvalidValue = errors.New("secure: value must be finite and >= 0")
)

// envelope is the stored JSON form of a value.
type envelope struct {
	Value     string `json:"value"`
	Checksum  string `json:"checksum"`
	Timestamp int64  `json:"timestamp"`
}

// Store wraps a storage.KV with integrity and staleness checks.
type Store struct {
	kv        storage.KV
	secret    []byte
	retention time.Duration
	clock     clock.Clock
	logger    *zap.Logger
}

// New creates a Store over kv.
//
// Precondition: kv must be non-nil; cfg.Secret must be non-empty and at most 64 bytes;
// cfg.Retention must be > 0.
// Postcondition: Returns a usable Store or a non-nil error.
func New(kv storage.KV, cfg config.PersistenceConfig, clk clock.Clock, logger *zap.Logger) (*Store, error) {
	if kv == nil {
		return nil, errors.New("secure: kv must not be nil")
	}
	if cfg.Secret == "" || len(cfg.Secret) > blake2b.Size {
		return nil, fmt.Errorf("secure: secret must be 1-%d bytes", blake2b.Size)
	}
	if cfg.Retention <= 0 {
		return nil, errors.New("secure: retention must be > 0")
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Store{
		kv:        kv,
		secret:    []byte(cfg.Secret),
		retention: cfg.Retention,
		clock:     clk,
		logger:    observability.OrNop(logger),
	}, nil
}

// checksum hashes value and timestamp in that order under the store secret.
func (s *Store) checksum(value string, timestamp int64) string {
	h, err := blake2b.New256(s.secret)
	if err != nil {
		// Only possible for an oversized key, which New rejects.
		panic(err)
	}
	h.Write([]byte(value))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(timestamp, 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// Write stores value under key with a fresh timestamp and checksum.
//
// Postcondition: Returns ErrInvalidValue for negative, NaN, or infinite values
// without touching the backend.
func (s *Store) Write(ctx context.Context, key string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("write %q (%v): %w", key, value, ErrInvalidValue)
	}
	text := strconv.FormatFloat(value, 'g', -1, 64)
	ts := s.clock.Now().UnixMilli()
	payload, err := json.Marshal(envelope{Value: text, Checksum: s.checksum(text, ts), Timestamp: ts})
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Read returns the verified value stored under key.
//
// Postcondition: Returns ErrNotFound, ErrIntegrity, or ErrStale (wrapped) when no
// trustworthy value exists. Other errors come from the backend.
func (s *Store) Read(ctx context.Context, key string) (float64, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("read %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("read %q: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return 0, fmt.Errorf("read %q: decoding: %v: %w", key, err, ErrIntegrity)
	}
	if env.Value == "" || env.Checksum == "" || env.Timestamp == 0 {
		return 0, fmt.Errorf("read %q: incomplete payload: %w", key, ErrIntegrity)
	}
	want := s.checksum(env.Value, env.Timestamp)
	if subtle.ConstantTimeCompare([]byte(want), []byte(env.Checksum)) != 1 {
		return 0, fmt.Errorf("read %q: checksum mismatch: %w", key, ErrIntegrity)
	}
	age := s.clock.Now().Sub(time.UnixMilli(env.Timestamp))
	if age > s.retention {
		return 0, fmt.Errorf("read %q: age %s exceeds %s: %w", key, age, s.retention, ErrStale)
	}
	v, err := strconv.ParseFloat(env.Value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("read %q: value %q out of range: %w", key, env.Value, ErrIntegrity)
	}
	return v, nil
}

// LoadNumber returns the verified value under key, or def when nothing
// trustworthy is stored. Tampered and stale values are deleted.
//
// Postcondition: Never fails; every failure degrades to def.
func (s *Store) LoadNumber(ctx context.Context, key string, def float64) float64 {
	v, err := s.Read(ctx, key)
	switch {
	case err == nil:
		return v
	case errors.Is(err, ErrNotFound):
		return def
	case errors.Is(err, ErrIntegrity), errors.Is(err, ErrStale):
		s.logger.Warn("discarding persisted value",
			zap.String("key", key),
			zap.Error(err),
		)
		if derr := s.kv.Delete(ctx, key); derr != nil {
			s.logger.Warn("deleting discarded value", zap.String("key", key), zap.Error(derr))
		}
		return def
	default:
		s.logger.Warn("loading persisted value", zap.String("key", key), zap.Error(err))
		return def
	}
}

// SaveNumber stores value under key and reports whether it was written.
func (s *Store) SaveNumber(ctx context.Context, key string, value float64) bool {
	if err := s.Write(ctx, key, value); err != nil {
		s.logger.Warn("saving persisted value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
