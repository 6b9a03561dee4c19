package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"github.com/latspace/mapping-agent/internal/model"
)

// wireResponse is the JSON contract the mapping service must honor.
// Pointer fields distinguish an absent key from a zero value.
type wireResponse struct {
	Mappings []wireMapping `json:"mappings" validate:"required,dive"`
}

type wireMapping struct {
	OriginalHeader  *string  `json:"original_header" validate:"required"`
	MappedParameter *string  `json:"mapped_parameter" validate:"required,min=1"`
	Confidence      *float64 `json:"confidence" validate:"required,gte=0,lte=1"`
	DetectedAsset   *string  `json:"detected_asset"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseResponse decodes and validates the raw text of a mapping response.
// Any structural violation is an error; no partial result is returned.
func ParseResponse(text string) ([]model.MappingRecord, error) {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil, eris.New("mapping: empty response")
	}

	var wire wireResponse
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, eris.Wrap(err, "mapping: decode response")
	}
	if err := validate.Struct(wire); err != nil {
		return nil, eris.Wrap(describeValidation(err), "mapping: invalid response")
	}

	records := make([]model.MappingRecord, 0, len(wire.Mappings))
	for _, m := range wire.Mappings {
		rec := model.MappingRecord{
			OriginalHeader:  *m.OriginalHeader,
			MappedParameter: strings.TrimSpace(*m.MappedParameter),
			Confidence:      *m.Confidence,
		}
		if m.DetectedAsset != nil {
			if asset := strings.TrimSpace(*m.DetectedAsset); asset != "" {
				rec.DetectedAsset = &asset
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// describeValidation flattens validator output into one readable error.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must not be empty", field))
		case "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be between 0 and 1", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first { and last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
