package db

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"topup/kit/broker"
	"topup/kit/observability"
)

// Entry is one journaled event. StreamID groups the events of one batch.
type Entry struct {
	StreamID   string          `json:"stream_id"`
	EventName  string          `json:"event_name"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Store is an append-only event journal, optionally mirrored to a JSONL file
// and replayed from it on open.
type Store struct {
	mu      sync.RWMutex
	streams map[string][]Entry
	log     []Entry

	fileMu sync.Mutex
	f      *os.File
}

func New() *Store {
	return &Store{streams: make(map[string][]Entry)}
}

func NewWithFile(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		observability.L().Error("journal open failed", "layer", "store", "component", "db", "method", "NewWithFile", "path", path, "err", err)
		return nil, errors.Join(ErrInternal, err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		observability.L().Error("journal open failed", "layer", "store", "component", "db", "method", "NewWithFile", "path", path, "err", err)
		return nil, errors.Join(ErrInternal, err)
	}

	s := &Store{streams: make(map[string][]Entry), f: f}
	if err := s.replay(f); err != nil {
		_ = f.Close()
		observability.L().Error("journal replay failed", "layer", "store", "component", "db", "method", "NewWithFile", "path", path, "err", err)
		return nil, errors.Join(ErrInternal, err)
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		_ = f.Close()
		return nil, errors.Join(ErrInternal, err)
	}
	return s, nil
}

func (s *Store) replay(f *os.File) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return err
		}
		s.streams[e.StreamID] = append(s.streams[e.StreamID], e)
		s.log = append(s.log, e)
	}
	return scanner.Err()
}

func (s *Store) Close() error {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// Append journals evt under streamID. The in-memory copy is kept even when
// the file write fails; the write error is returned to the caller.
func (s *Store) Append(ctx context.Context, streamID string, evt broker.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		observability.L().Error("journal append failed", "layer", "store", "component", "db", "method", "Append", "stream_id", streamID, "event", evt.Name(), "err", err)
		return errors.Join(ErrInvalid, err)
	}

	e := Entry{
		StreamID:   streamID,
		EventName:  evt.Name(),
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.streams[streamID] = append(s.streams[streamID], e)
	s.log = append(s.log, e)
	s.mu.Unlock()

	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	if _, err := s.f.Write(append(b, '\n')); err != nil {
		observability.L().Error("journal write failed", "layer", "store", "component", "db", "method", "Append", "stream_id", streamID, "event", evt.Name(), "err", err)
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, streamID string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.streams[streamID]...)
}

func (s *Store) All(ctx context.Context) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.log...)
}
