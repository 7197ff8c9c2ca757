// Package keyspace holds a collection of named ScoreSets in one map
// guarded by a single mutex — the host-level glue the core leaves out.
// The mutex covers map access only; calls on a ScoreSet returned by
// GetOrCreate or Get are not serialized here. Structured logging on create/flush/unload
// follows edirooss-zmux-server/redis/client.go's zap.Logger.Named +
// With(...) field style.
package keyspace

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vitarb/gzset-go/scoreset"
)

// Keyspace owns every live ScoreSet, keyed by name.
type Keyspace struct {
	mu         sync.Mutex
	sets       map[string]*scoreset.ScoreSet
	arenaPages int
	log        *zap.Logger
}

// New creates an empty keyspace. arenaPages sizes the initial arena for
// every ScoreSet it creates. log may be nil, in which case a no-op
// logger is used.
func New(arenaPages int, log *zap.Logger) *Keyspace {
	if log == nil {
		log = zap.NewNop()
	}
	return &Keyspace{
		sets:       make(map[string]*scoreset.ScoreSet),
		arenaPages: arenaPages,
		log:        log.Named("keyspace"),
	}
}

// GetOrCreate returns the ScoreSet for key, creating and logging a fresh
// one if it does not yet exist. ctx is checked once, before the
// keyspace-wide lock is taken; a cancellation that arrives while waiting
// on the lock is not observed. Once acquired, the operation is O(1) and
// never blocks further.
func (ks *Keyspace) GetOrCreate(ctx context.Context, key string) (*scoreset.ScoreSet, error) {
	return ks.GetOrCreateBounded(ctx, key, 0)
}

// Get returns the ScoreSet for key without creating one.
func (ks *Keyspace) Get(key string) (*scoreset.ScoreSet, bool) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	s, ok := ks.sets[key]
	return s, ok
}

// Delete removes key's ScoreSet, releasing its arena. It reports whether
// key was present.
func (ks *Keyspace) Delete(key string) bool {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	s, ok := ks.sets[key]
	if !ok {
		return false
	}
	s.Close()
	delete(ks.sets, key)
	ks.log.Info("key unloaded", zap.String("key", key))
	return true
}

// Len returns the number of live keys.
func (ks *Keyspace) Len() int {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	return len(ks.sets)
}

// Flush closes and removes every key, returning the number removed. It
// logs one "key unloaded" entry per key, the same event Delete logs for a
// single key, plus a final summary line.
func (ks *Keyspace) Flush() int {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	n := len(ks.sets)
	for key, s := range ks.sets {
		s.Close()
		delete(ks.sets, key)
		ks.log.Info("key unloaded", zap.String("key", key))
	}
	ks.log.Info("keyspace flushed", zap.Int("keys_removed", n))
	return n
}

// MemBytes sums MemBytes() across every live ScoreSet.
func (ks *Keyspace) MemBytes() int64 {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	var total int64
	for _, s := range ks.sets {
		total += s.MemBytes()
	}
	return total
}

// ArenaBytes sums ArenaBytes() across every live ScoreSet: the chunk
// capacity of each set's shared arena, which holds its interned strings
// as well as structures MemBytes() also prices.
func (ks *Keyspace) ArenaBytes() int64 {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	var total int64
	for _, s := range ks.sets {
		total += s.ArenaBytes()
	}
	return total
}

// ErrKeyLimitReached is returned by GetOrCreateBounded when MaxKeys would
// be exceeded by creating a new key.
var ErrKeyLimitReached = fmt.Errorf("keyspace: key limit reached")

// GetOrCreateBounded behaves like GetOrCreate but refuses to create a new
// key once the keyspace already holds maxKeys keys (0 means unbounded).
func (ks *Keyspace) GetOrCreateBounded(ctx context.Context, key string, maxKeys int) (*scoreset.ScoreSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if s, ok := ks.sets[key]; ok {
		return s, nil
	}
	if maxKeys > 0 && len(ks.sets) >= maxKeys {
		return nil, ErrKeyLimitReached
	}

	s := scoreset.New(ks.arenaPages)
	ks.sets[key] = s
	ks.log.Info("key created",
		zap.String("key", key),
		zap.Int("arena_pages", ks.arenaPages),
	)
	return s, nil
}
