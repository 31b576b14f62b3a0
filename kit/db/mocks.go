package db

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ClientMock struct {
	mock.Mock
	Client
}

func (m *ClientMock) Exec(ctx context.Context, query string, args ...any) error {
	ret := m.Called(ctx, query, args)
	return ret.Error(0)
}

func (m *ClientMock) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	ret := m.Called(ctx, query, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(Row), ret.Error(1)
}

func (m *ClientMock) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	ret := m.Called(ctx, query, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(Rows), ret.Error(1)
}

type RowMock struct {
	mock.Mock
	Row
}

func (m *RowMock) Scan(dest ...any) error {
	ret := m.Called(dest)
	return ret.Error(0)
}

// StaticRows replays fixed rows; handy where a RowsMock would need one
// expectation per Next call.
type StaticRows struct {
	Values  [][]any
	ScanErr error
	idx     int
	started bool
}

func (r *StaticRows) Next() bool {
	if !r.started {
		r.started = true
		r.idx = 0
	} else {
		r.idx++
	}
	return r.idx < len(r.Values)
}

func (r *StaticRows) Scan(dest ...any) error {
	if r.ScanErr != nil {
		return r.ScanErr
	}
	return assign(dest, r.Values[r.idx])
}

func (r *StaticRows) Err() error   { return nil }
func (r *StaticRows) Close() error { return nil }
