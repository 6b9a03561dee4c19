package mapping

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

const systemInstructions = `You are the LatSpace Data Mapping Agent. Your task is to map 'Messy Headers' from a factory Excel sheet to a 'Canonical Parameter Registry'.

Rules:
1. Strict Mapping: Only map a header if it clearly matches a parameter in the registry. If no match, return a mapped_parameter of "Unknown".
2. Contextual Clues: Look at the unit or sample data to decide between parameters (e.g., 'power_generation' or 'steam_generation').
3. Asset Extraction: If the header is 'Boiler 1 - Temp', extract 'Boiler 1' as the Asset and 'temperature' as the Parameter.
4. Completeness: Return exactly one mapping per header, copying original_header verbatim.
5. Confidence: Report a confidence between 0 and 1 for every mapping.

Return EXACTLY and ONLY a JSON object with a single key "mappings", containing a list of objects with the specified requirements.
Example Output Format:
{
  "mappings": [
    {
      "original_header": "Gen",
      "mapped_parameter": "power_generation",
      "confidence": 0.95,
      "detected_asset": null
    }
  ]
}`

// buildSystemPrompt renders the instructions plus the registry. It is
// identical for every file against the same registry, so it is sent as a
// cached block.
func buildSystemPrompt(req Request) (string, error) {
	reg, err := json.MarshalIndent(req.Registry, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "mapping: encode registry")
	}

	var b strings.Builder
	b.WriteString(systemInstructions)
	b.WriteString("\n\nCanonical Registry:\n")
	b.Write(reg)
	return b.String(), nil
}

// buildUserPrompt renders the per-file headers and sample rows.
func buildUserPrompt(req Request) (string, error) {
	headers, err := json.MarshalIndent(req.Headers, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "mapping: encode headers")
	}
	samples := req.Samples
	if samples == nil {
		samples = []SampleRow{}
	}
	sample, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "mapping: encode samples")
	}

	var b strings.Builder
	b.WriteString("Messy Headers to Map:\n")
	b.Write(headers)
	b.WriteString("\n\nSample Data (first rows for context):\n")
	b.Write(sample)
	return b.String(), nil
}
