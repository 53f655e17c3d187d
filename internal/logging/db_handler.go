package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/artconnect/marketplace/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const batchSize = 50

// DBHandler is an slog.Handler that batches ERROR+ records into system_logs.
type DBHandler struct {
	sink  *sink
	attrs []slog.Attr
}

type sink struct {
	db      *gorm.DB
	mu      sync.Mutex
	buffer  []models.SystemLog
	closed  bool
	ticker  *time.Ticker
	done    chan struct{}
	stopped chan struct{}
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	s := &sink{
		db:      db,
		buffer:  make([]models.SystemLog, 0, batchSize),
		ticker:  time.NewTicker(5 * time.Second),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.flushLoop()
	return &DBHandler{sink: s}
}

func (s *sink) flushLoop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *sink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, batchSize)
	s.mu.Unlock()

	// Warn stays below this handler's level so the failure is not re-buffered.
	if err := s.db.CreateInBatches(batch, batchSize).Error; err != nil {
		slog.Warn("failed to flush system logs to DB", "error", err, "count", len(batch))
	}
}

// Stop flushes what is buffered and ends the flush loop. Records handled
// afterwards are written straight through.
func (h *DBHandler) Stop() {
	s := h.sink
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.ticker.Stop()
	close(s.done)
	<-s.stopped
}

// Enabled only handles ERROR and above.
func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "phone":
			s := a.Value.String()
			entry.Phone = &s
		case "art_id":
			if id, ok := uintValue(a.Value); ok {
				entry.ArtworkID = &id
			}
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			if f, ok := a.Value.Any().(float64); ok {
				entry.LatencyMs = int(math.Round(f))
			} else if n, ok := a.Value.Any().(int64); ok {
				entry.LatencyMs = int(n)
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	s := h.sink
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if err := s.db.Create(&entry).Error; err != nil {
			slog.Warn("failed to write system log to DB", "error", err)
		}
		return nil
	}
	s.buffer = append(s.buffer, entry)
	needFlush := len(s.buffer) >= batchSize
	s.mu.Unlock()

	if needFlush {
		go s.flush()
	}
	return nil
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{sink: h.sink, attrs: merged}
}

// WithGroup is a no-op; system_logs has no notion of groups.
func (h *DBHandler) WithGroup(string) slog.Handler {
	return h
}

func uintValue(v slog.Value) (uint, bool) {
	switch v.Kind() {
	case slog.KindUint64:
		return uint(v.Uint64()), true
	case slog.KindInt64:
		if n := v.Int64(); n >= 0 {
			return uint(n), true
		}
	}
	return 0, false
}
