package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"topup/kit/observability"
)

// Line is one audit trail entry as written to the JSONL file.
type Line struct {
	At      time.Time      `json:"at"`
	Event   string         `json:"event"`
	BatchID string         `json:"batch_id,omitempty"`
	Fields  map[string]any `json:"fields"`
}

type Service struct {
	logger *observability.Logger
	now    func() time.Time

	fileMu sync.Mutex
	f      *os.File
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// NewServiceWithFile appends every entry to path as well as to the log.
func NewServiceWithFile(logger *observability.Logger, path string) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Error("audit error", "layer", "service", "component", "audit", "method", "NewServiceWithFile", "path", path, "err", err)
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Error("audit error", "layer", "service", "component", "audit", "method", "NewServiceWithFile", "path", path, "err", err)
		return nil, err
	}
	s := NewService(logger)
	s.f = f
	return s, nil
}

func (s *Service) Close() error {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	if err != nil {
		s.logger.Error("audit error", "layer", "service", "component", "audit", "method", "Close", "err", err)
	}
	s.f = nil
	return err
}

func (s *Service) Record(ctx context.Context, eventName, batchID string, fields map[string]any) {
	if s.logger == nil {
		return
	}
	s.logger.Info("audit", "event", eventName, "batch_id", batchID, "fields", fields)

	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	if s.f == nil {
		return
	}
	b, err := json.Marshal(Line{At: s.now(), Event: eventName, BatchID: batchID, Fields: fields})
	if err != nil {
		s.logger.Error("audit error", "layer", "service", "component", "audit", "method", "Record", "event", eventName, "err", err)
		return
	}
	if _, err := s.f.Write(append(b, '\n')); err != nil {
		s.logger.Error("audit error", "layer", "service", "component", "audit", "method", "Record", "event", eventName, "err", err)
	}
}
