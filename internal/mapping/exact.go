package mapping

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/latspace/mapping-agent/internal/model"
)

var (
	dedupeSuffix = regexp.MustCompile(`\.\d+$`)
	unitSuffix   = regexp.MustCompile(`\s*\([^)]*\)`)
)

// Confidence levels assigned by ExactMapper.
const (
	exactIDConfidence     = 1.0
	exactAliasConfidence  = 0.9
	exactPrefixConfidence = 0.6
)

// ExactMapper is a deterministic, offline Mapper. It matches headers against
// registry ids and aliases, ignoring case, unit annotations in parentheses
// and dedupe suffixes. "Boiler 1 - Temp" yields asset "Boiler 1"; a trailing
// word match such as "Turbine Temp" yields asset "Turbine" at lower
// confidence.
type ExactMapper struct{}

// NewExactMapper creates an offline mapper.
func NewExactMapper() *ExactMapper { return &ExactMapper{} }

type termMatch struct {
	param      string
	confidence float64
}

// MapHeaders returns one record per header; unmatched headers map to Unknown.
func (m *ExactMapper) MapHeaders(ctx context.Context, req Request) ([]model.MappingRecord, error) {
	if req.Registry == nil {
		return nil, eris.New("mapping: registry is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "mapping: context")
	}

	terms := buildTerms(req.Registry)
	records := make([]model.MappingRecord, 0, len(req.Headers))
	for _, h := range req.Headers {
		records = append(records, matchHeader(h, terms))
	}
	return records, nil
}

// buildTerms indexes lowercase ids, their spaced forms and aliases. Ids are
// visited in sorted order so the first registration of a term wins.
func buildTerms(reg *model.Registry) map[string]termMatch {
	terms := make(map[string]termMatch)
	add := func(term, param string, conf float64) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			return
		}
		if existing, ok := terms[term]; ok && existing.confidence >= conf {
			return
		}
		terms[term] = termMatch{param: param, confidence: conf}
	}
	for _, id := range reg.Keys() {
		add(id, id, exactIDConfidence)
		add(strings.ReplaceAll(id, "_", " "), id, exactIDConfidence)
	}
	for _, id := range reg.Keys() {
		p, _ := reg.Get(id)
		for _, a := range p.Aliases {
			add(a, id, exactAliasConfidence)
		}
	}
	return terms
}

func matchHeader(header string, terms map[string]termMatch) model.MappingRecord {
	unknown := model.MappingRecord{
		OriginalHeader:  header,
		MappedParameter: model.UnknownParameter,
	}

	label := dedupeSuffix.ReplaceAllString(strings.TrimSpace(header), "")
	label = strings.TrimSpace(unitSuffix.ReplaceAllString(label, ""))
	if label == "" {
		return unknown
	}

	// Explicit "<asset> - <parameter>" form.
	if i := strings.LastIndex(label, " - "); i > 0 {
		asset := strings.TrimSpace(label[:i])
		if tm, ok := terms[strings.ToLower(strings.TrimSpace(label[i+3:]))]; ok {
			return record(header, tm.param, tm.confidence, asset)
		}
	}

	if tm, ok := terms[strings.ToLower(label)]; ok {
		return record(header, tm.param, tm.confidence, "")
	}

	// Longest trailing word run that names a parameter; the rest is the asset.
	words := strings.Fields(label)
	for start := 1; start < len(words); start++ {
		if tm, ok := terms[strings.ToLower(strings.Join(words[start:], " "))]; ok {
			return record(header, tm.param, exactPrefixConfidence, strings.Join(words[:start], " "))
		}
	}
	return unknown
}

func record(header, param string, confidence float64, asset string) model.MappingRecord {
	rec := model.MappingRecord{
		OriginalHeader:  header,
		MappedParameter: param,
		Confidence:      confidence,
	}
	if asset != "" {
		rec.DetectedAsset = &asset
	}
	return rec
}
