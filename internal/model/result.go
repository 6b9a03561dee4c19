package model

// StatusSuccess is the status of every returned ParseResult.
const StatusSuccess = "success"

// Observation is one normalized, attributed data point from a single cell.
type Observation struct {
	// Row is the 1-indexed row in the source file.
	Row int `json:"row"`
	// Col is the 0-indexed column.
	Col            int            `json:"col"`
	ParamName      string         `json:"param_name"`
	AssetName      *string        `json:"asset_name"`
	RawValue       string         `json:"raw_value"`
	ParsedValue    *float64       `json:"parsed_value"`
	ConfidenceTier ConfidenceTier `json:"confidence"`
}

// UnmappedColumn records a header without a usable mapping.
type UnmappedColumn struct {
	Col    int    `json:"col"`
	Header string `json:"header"`
	Reason string `json:"reason"`
}

// ParseResult is the terminal artifact of one file-processing run.
type ParseResult struct {
	Status string `json:"status"`
	// HeaderRow is 1-indexed.
	HeaderRow       int              `json:"header_row"`
	Observations    []Observation    `json:"parsed_data"`
	UnmappedColumns []UnmappedColumn `json:"unmapped_columns"`
	Warnings        []string         `json:"warnings"`
}
