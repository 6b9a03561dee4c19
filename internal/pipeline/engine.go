// Package pipeline turns one tabular source file into a ParseResult.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/latspace/mapping-agent/internal/header"
	"github.com/latspace/mapping-agent/internal/ingest"
	"github.com/latspace/mapping-agent/internal/mapping"
	"github.com/latspace/mapping-agent/internal/model"
	"github.com/latspace/mapping-agent/internal/normalize"
)

// DefaultSampleRows is the number of leading data rows sent to the mapper.
const DefaultSampleRows = 3

// Options tunes header detection and mapping context.
type Options struct {
	ScanLimit  int
	SampleRows int
}

// Engine runs the load, locate, dedupe, map and assemble sequence. It holds
// no per-file state and is safe for concurrent use.
type Engine struct {
	loader   ingest.Loader
	mapper   mapping.Mapper
	registry *model.Registry
	opts     Options
}

// New creates an Engine. Non-positive options fall back to defaults.
func New(loader ingest.Loader, mapper mapping.Mapper, registry *model.Registry, opts Options) (*Engine, error) {
	if loader == nil {
		return nil, eris.New("pipeline: loader is required")
	}
	if mapper == nil {
		return nil, eris.New("pipeline: mapper is required")
	}
	if registry == nil {
		return nil, eris.New("pipeline: registry is required")
	}
	if opts.ScanLimit <= 0 {
		opts.ScanLimit = header.DefaultScanLimit
	}
	if opts.SampleRows <= 0 {
		opts.SampleRows = DefaultSampleRows
	}
	return &Engine{
		loader:   loader,
		mapper:   mapper,
		registry: registry,
		opts:     opts,
	}, nil
}

// Registry returns the canonical registry the engine maps against.
func (e *Engine) Registry() *model.Registry {
	return e.registry
}

// Process reads path and returns its observations. Read failures yield a
// *ReadError and mapping failures a *MappingError; no partial result is
// returned in either case.
func (e *Engine) Process(ctx context.Context, path string) (*model.ParseResult, error) {
	log := zap.L().With(zap.String("path", path))

	grid, err := e.loader.ReadGrid(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	headerRow := header.Locate(grid, e.opts.ScanLimit)
	result := &model.ParseResult{
		Status:          model.StatusSuccess,
		HeaderRow:       headerRow + 1,
		Observations:    []model.Observation{},
		UnmappedColumns: []model.UnmappedColumn{},
		Warnings:        []string{},
	}
	if w := header.SkipWarning(headerRow); w != "" {
		result.Warnings = append(result.Warnings, w)
	}
	log.Debug("pipeline: header located", zap.Int("header_row", headerRow), zap.Int("grid_rows", len(grid)))

	table, err := e.loader.ReadTable(path, headerRow)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	table.Headers = header.Dedupe(table.Headers)

	records, err := e.mapper.MapHeaders(ctx, mapping.Request{
		Registry: e.registry,
		Headers:  table.Headers,
		Samples:  mapping.BuildSamples(table, e.opts.SampleRows),
	})
	if err != nil {
		return nil, &MappingError{Err: err}
	}

	active := e.resolve(table.Headers, records, result, log)
	assemble(table, result.HeaderRow, active, result)

	log.Info("pipeline: file processed",
		zap.Int("header_row", result.HeaderRow),
		zap.Int("headers", len(table.Headers)),
		zap.Int("observations", len(result.Observations)),
		zap.Int("unmapped", len(result.UnmappedColumns)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// resolve pairs each column with its mapping and records the columns that
// have none. The returned slice is indexed by column; nil means unmapped.
func (e *Engine) resolve(headers []string, records []model.MappingRecord, result *model.ParseResult, log *zap.Logger) []*model.MappingRecord {
	submitted := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		submitted[h] = struct{}{}
	}

	// Later records for the same header replace earlier ones.
	lookup := make(map[string]model.MappingRecord, len(records))
	for _, r := range records {
		if _, ok := submitted[r.OriginalHeader]; !ok {
			log.Warn("pipeline: ignoring mapping for unknown header", zap.String("header", r.OriginalHeader))
			continue
		}
		lookup[r.OriginalHeader] = r
	}

	active := make([]*model.MappingRecord, len(headers))
	for col, h := range headers {
		rec, ok := lookup[h]
		switch {
		case !ok || rec.IsUnknown():
		case !e.registry.Has(rec.MappedParameter):
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Column %q was mapped to unrecognized parameter %q and was ignored.", h, rec.MappedParameter))
		default:
			active[col] = &rec
			continue
		}
		result.UnmappedColumns = append(result.UnmappedColumns, model.UnmappedColumn{
			Col:    col,
			Header: h,
			Reason: model.UnmappedReason,
		})
	}
	return active
}

// assemble emits one Observation per non-blank cell in a mapped column.
// Rows are numbered headerLine + 2 + offset, where headerLine is 1-indexed
// and offset counts every data row, so skipped blank rows still advance
// the numbering.
func assemble(table *model.Table, headerLine int, active []*model.MappingRecord, result *model.ParseResult) {
	for offset, row := range table.Rows {
		if model.RowIsEmpty(row) {
			continue
		}
		realRow := headerLine + 2 + offset

		for col, rec := range active {
			if rec == nil || col >= len(row) {
				continue
			}
			cell := row[col]
			if cell.IsMissing() || (cell.IsString() && isBlank(cell.Text)) {
				continue
			}
			result.Observations = append(result.Observations, model.Observation{
				Row:            realRow,
				Col:            col,
				ParamName:      rec.MappedParameter,
				AssetName:      rec.DetectedAsset,
				RawValue:       cell.String(),
				ParsedValue:    normalize.Ptr(cell),
				ConfidenceTier: model.TierFor(rec.Confidence),
			})
		}
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
