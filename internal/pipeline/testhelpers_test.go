package pipeline

import (
	"context"
	"sync"

	"github.com/latspace/mapping-agent/internal/ingest"
	"github.com/latspace/mapping-agent/internal/mapping"
	"github.com/latspace/mapping-agent/internal/model"
)

// stubLoader serves a fixed grid for any path.
type stubLoader struct {
	grid     model.RawGrid
	gridErr  error
	tableErr error
}

func (s *stubLoader) ReadGrid(string) (model.RawGrid, error) {
	if s.gridErr != nil {
		return nil, s.gridErr
	}
	return s.grid, nil
}

func (s *stubLoader) ReadTable(_ string, headerRow int) (*model.Table, error) {
	if s.tableErr != nil {
		return nil, s.tableErr
	}
	return ingest.BuildTable(s.grid, headerRow), nil
}

// stubMapper returns canned records keyed by header and remembers the
// last request.
type stubMapper struct {
	mu      sync.Mutex
	records map[string]model.MappingRecord
	extra   []model.MappingRecord
	err     error
	last    mapping.Request
}

func (s *stubMapper) MapHeaders(_ context.Context, req mapping.Request) ([]model.MappingRecord, error) {
	s.mu.Lock()
	s.last = req
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.MappingRecord, 0, len(req.Headers))
	for _, h := range req.Headers {
		if r, ok := s.records[h]; ok {
			r.OriginalHeader = h
			out = append(out, r)
		}
	}
	return append(out, s.extra...), nil
}

func mapped(param string, confidence float64, asset string) model.MappingRecord {
	r := model.MappingRecord{MappedParameter: param, Confidence: confidence}
	if asset != "" {
		r.DetectedAsset = &asset
	}
	return r
}

func unknown() model.MappingRecord {
	return model.MappingRecord{MappedParameter: model.UnknownParameter}
}

func testRegistry() *model.Registry {
	return model.NewRegistry(map[string]model.Parameter{
		"power_generation": {Unit: "MW"},
		"coal_consumption": {Unit: "MT"},
		"temperature":      {Unit: "C"},
		"steam_generation": {Unit: "TPH"},
		"pressure":         {Unit: "bar"},
	})
}

func str(v string) model.Cell  { return model.StringCell(v) }
func num(v float64) model.Cell { return model.NumberCell(v) }
func blank() model.Cell        { return model.EmptyCell() }

func newTestEngine(loader ingest.Loader, mapper mapping.Mapper) *Engine {
	eng, err := New(loader, mapper, testRegistry(), Options{})
	if err != nil {
		panic(err)
	}
	return eng
}
