package logger

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// Entry is a single log record kept in a Ring
type Entry struct {
	Timestamp time.Time
	Level     zapcore.Level
	Message   string
	Fields    map[string]interface{}
}

// Ring is a thread-safe fixed-size buffer of the latest log entries. The TUI
// renders it instead of letting zap write to the terminal.
type Ring struct {
	mu           sync.Mutex
	entries      []Entry
	currentIndex int
	wrapped      bool

	// Stats
	total uint64
}

// NewRing creates a ring keeping the last size entries.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = 1
	}
	return &Ring{entries: make([]Entry, size)}
}

// Add stores entry, overwriting the oldest one when full.
func (r *Ring) Add(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.currentIndex] = entry
	r.currentIndex = (r.currentIndex + 1) % len(r.entries)
	if r.currentIndex == 0 {
		r.wrapped = true
	}
	r.total++
}

// Recent returns up to limit entries, oldest first. limit <= 0 returns all.
func (r *Ring) Recent(limit int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	count, start := r.currentIndex, 0
	if r.wrapped {
		count, start = len(r.entries), r.currentIndex
	}
	if limit > 0 && limit < count {
		start += count - limit
		count = limit
	}

	out := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, r.entries[(start+i)%len(r.entries)])
	}
	return out
}

// Total returns how many entries were ever added.
func (r *Ring) Total() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// ringCore is a zapcore.Core writing into a Ring
type ringCore struct {
	zapcore.LevelEnabler
	ring   *Ring
	fields []zapcore.Field
}

// NewRingCore returns a core for New that records entries at or above level into ring.
func NewRingCore(ring *Ring, level zapcore.LevelEnabler) zapcore.Core {
	return &ringCore{LevelEnabler: level, ring: ring}
}

func (c *ringCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &ringCore{LevelEnabler: c.LevelEnabler, ring: c.ring, fields: merged}
}

func (c *ringCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *ringCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	c.ring.Add(Entry{
		Timestamp: entry.Time,
		Level:     entry.Level,
		Message:   entry.Message,
		Fields:    enc.Fields,
	})
	return nil
}

func (c *ringCore) Sync() error {
	return nil
}
