package roadmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	fencedJSON = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	braceSpan  = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ExtractJSON locates the JSON payload in raw model output. A ```json fence
// wins over a bare brace span so fence markers never leak into the result.
func ExtractJSON(text string) (string, error) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			return inner, nil
		}
	}
	if span := braceSpan.FindString(text); span != "" {
		return strings.TrimSpace(span), nil
	}
	return "", ErrNoJSON
}

// ParseRoadmap decodes and shape-checks an extracted JSON string.
func ParseRoadmap(payload string) (*Roadmap, error) {
	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T", ErrInvalidStructure, doc)
	}
	years, ok := obj["years"].([]any)
	if !ok || len(years) == 0 {
		return nil, fmt.Errorf("%w: years missing or empty", ErrInvalidStructure)
	}
	for i, y := range years {
		entry, ok := y.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: years[%d] is %T", ErrInvalidYear, i, y)
		}
		n, ok := entry["year"].(float64)
		if !ok {
			return nil, fmt.Errorf("%w: years[%d].year is %T", ErrInvalidYear, i, entry["year"])
		}
		if n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
			return nil, fmt.Errorf("%w: years[%d].year is %v", ErrInvalidYear, i, n)
		}
		years[i] = onlyKeys(entry, yearFields)
	}

	// The typed decode folds key case and lets the last duplicate win, so it
	// only gets to see the exact keys checked above.
	checked, err := json.Marshal(map[string]any{
		"years":          years,
		"overall_advice": obj["overall_advice"],
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	var rm Roadmap
	if err := json.Unmarshal(checked, &rm); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidStructure, typeErr.Field, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return &rm, nil
}

var yearFields = []string{
	"year", "focus", "skills", "projects", "courses", "books",
	"networking", "internships", "routine", "advice",
}

func onlyKeys(m map[string]any, keys []string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Process runs extraction and validation over raw model output and returns
// a pipeline *Error on failure.
func Process(raw string) (*Roadmap, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, newError(KindFormat, MsgNoJSON, err)
	}

	rm, err := ParseRoadmap(payload)
	switch {
	case err == nil:
		return rm, nil
	case errors.Is(err, ErrMalformedJSON):
		return nil, newError(KindFormat, MsgMalformedJSON, err)
	case errors.Is(err, ErrInvalidYear):
		return nil, newError(KindSchema, MsgInvalidYear, err)
	default:
		return nil, newError(KindSchema, MsgInvalidStructure, err)
	}
}
