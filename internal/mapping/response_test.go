package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latspace/mapping-agent/internal/model"
)

func TestParseResponse_Valid(t *testing.T) {
	text := `{"mappings": [
		{"original_header": "Gen", "mapped_parameter": "power_generation", "confidence": 0.95, "detected_asset": null},
		{"original_header": "Boiler 1 - Temp", "mapped_parameter": "temperature", "confidence": 0.9, "detected_asset": "Boiler 1"},
		{"original_header": "Random Column", "mapped_parameter": "Unknown", "confidence": 0}
	]}`

	records, err := ParseResponse(text)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, model.MappingRecord{
		OriginalHeader:  "Gen",
		MappedParameter: "power_generation",
		Confidence:      0.95,
	}, records[0])
	assert.Equal(t, strPtr("Boiler 1"), records[1].DetectedAsset)
	assert.True(t, records[2].IsUnknown())
	assert.Zero(t, records[2].Confidence)
	assert.Nil(t, records[2].DetectedAsset)
}

func TestParseResponse_FencedOutput(t *testing.T) {
	text := "Here you go:\n```json\n{\"mappings\": [{\"original_header\": \"Press\", \"mapped_parameter\": \"pressure\", \"confidence\": 0.85}]}\n```"

	records, err := ParseResponse(text)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "pressure", records[0].MappedParameter)
}

func TestParseResponse_EmptyAssetIsNull(t *testing.T) {
	records, err := ParseResponse(`{"mappings": [{"original_header": "Eff", "mapped_parameter": "efficiency", "confidence": 0.7, "detected_asset": "  "}]}`)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].DetectedAsset)
}

func TestParseResponse_EmptyMappingsList(t *testing.T) {
	records, err := ParseResponse(`{"mappings": []}`)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestParseResponse_ContractViolations(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "not json",
			input:   "I could not map these headers.",
			wantErr: "decode response",
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: "empty response",
		},
		{
			name:    "missing mappings key",
			input:   `{"results": []}`,
			wantErr: "mappings is required",
		},
		{
			name:    "missing confidence",
			input:   `{"mappings": [{"original_header": "Gen", "mapped_parameter": "power_generation"}]}`,
			wantErr: "mappings[0].confidence is required",
		},
		{
			name:    "confidence above one",
			input:   `{"mappings": [{"original_header": "Gen", "mapped_parameter": "power_generation", "confidence": 1.5}]}`,
			wantErr: "must be between 0 and 1",
		},
		{
			name:    "negative confidence",
			input:   `{"mappings": [{"original_header": "Gen", "mapped_parameter": "power_generation", "confidence": -0.1}]}`,
			wantErr: "must be between 0 and 1",
		},
		{
			name:    "missing original header",
			input:   `{"mappings": [{"mapped_parameter": "power_generation", "confidence": 0.9}]}`,
			wantErr: "original_header is required",
		},
		{
			name:    "empty mapped parameter",
			input:   `{"mappings": [{"original_header": "Gen", "mapped_parameter": "", "confidence": 0.9}]}`,
			wantErr: "mapped_parameter must not be empty",
		},
		{
			name:    "confidence wrong type",
			input:   `{"mappings": [{"original_header": "Gen", "mapped_parameter": "power_generation", "confidence": "high"}]}`,
			wantErr: "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseResponse(tt.input)
			require.Error(t, err)
			assert.Nil(t, records)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Sure! {\"a\":1} Hope that helps.", `{"a":1}`},
		{"no object", "no json here", "no json here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.input))
		})
	}
}
