package model

// UnknownParameter is the sentinel a mapping uses when no canonical
// parameter clearly matches a header.
const UnknownParameter = "Unknown"

// UnmappedReason is recorded for every column without a usable mapping.
const UnmappedReason = "No matching parameter found in canonical registry."

// MappingRecord is the mapping service's verdict for one header.
type MappingRecord struct {
	OriginalHeader  string  `json:"original_header"`
	MappedParameter string  `json:"mapped_parameter"`
	Confidence      float64 `json:"confidence"`
	DetectedAsset   *string `json:"detected_asset"`
}

// IsUnknown reports whether the record carries the Unknown sentinel.
func (m MappingRecord) IsUnknown() bool {
	return m.MappedParameter == UnknownParameter
}

// ConfidenceTier is the coarse bucket derived from a mapping confidence.
type ConfidenceTier string

// Confidence tiers.
const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// TierFor buckets a confidence score: >=0.8 high, >=0.5 medium, else low.
func TierFor(confidence float64) ConfidenceTier {
	switch {
	case confidence >= 0.8:
		return TierHigh
	case confidence >= 0.5:
		return TierMedium
	default:
		return TierLow
	}
}
