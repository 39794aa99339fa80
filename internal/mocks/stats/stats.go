// Package stats provides hand-written test doubles for the stats ports.
package stats

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	domainstats "github.com/corderos/corderos-go/internal/domain/stats"
	"github.com/corderos/corderos-go/internal/ports"
)

var (
	_ ports.StatsSource = (*FakeSource)(nil)
	_ ports.StatsCache  = (*MemoryCache)(nil)
)

// FakeSource is a canned StatsSource with per-method error injection and call
// counters.
type FakeSource struct {
	Teams     []domainstats.TeamForm
	Players   []domainstats.PlayerLine
	Rookies   []domainstats.PlayerLine
	WinPcts   map[int64]float64
	TeamErr   error
	PlayerErr error
	StandErr  error

	TeamCalls   int
	PlayerCalls int
	StandCalls  int
}

func (f *FakeSource) TeamAdvanced(_ context.Context, _ string) ([]domainstats.TeamForm, error) {
	f.TeamCalls++
	if f.TeamErr != nil {
		return nil, f.TeamErr
	}
	out := make([]domainstats.TeamForm, len(f.Teams))
	copy(out, f.Teams)
	return out, nil
}

func (f *FakeSource) PlayerAdvanced(_ context.Context, _ string, rookiesOnly bool) ([]domainstats.PlayerLine, error) {
	f.PlayerCalls++
	if f.PlayerErr != nil {
		return nil, f.PlayerErr
	}
	src := f.Players
	if rookiesOnly {
		src = f.Rookies
	}
	out := make([]domainstats.PlayerLine, len(src))
	copy(out, src)
	return out, nil
}

func (f *FakeSource) Standings(_ context.Context, _ string) (map[int64]float64, error) {
	f.StandCalls++
	if f.StandErr != nil {
		return nil, f.StandErr
	}
	return f.WinPcts, nil
}

// MemoryCache is an in-memory StatsCache with a controllable clock.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	Now     func() time.Time
	GetErr  error
	SetErr  error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		Now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.GetErr != nil {
		return false, c.GetErr
	}
	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if !ok || !entry.expiresAt.After(c.Now()) {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, v any, ttl time.Duration) error {
	if c.SetErr != nil {
		return c.SetErr
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, expiresAt: c.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
