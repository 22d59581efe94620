package roadmap

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ProfileInput is the career profile submitted by the user.
type ProfileInput struct {
	Discipline string `json:"discipline"`
	Goals      string `json:"goals"`
	Interests  string `json:"interests"`
	Strengths  string `json:"strengths,omitempty"`
	Weaknesses string `json:"weaknesses,omitempty"`
}

// MissingFields returns the names of the required fields that are blank.
func (p ProfileInput) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(p.Discipline) == "" {
		missing = append(missing, "discipline")
	}
	if strings.TrimSpace(p.Goals) == "" {
		missing = append(missing, "goals")
	}
	if strings.TrimSpace(p.Interests) == "" {
		missing = append(missing, "interests")
	}
	return missing
}

type RoadmapYear struct {
	Year        int        `json:"year"`
	Focus       string     `json:"focus"`
	Skills      StringList `json:"skills"`
	Projects    StringList `json:"projects"`
	Courses     StringList `json:"courses"`
	Books       StringList `json:"books"`
	Networking  StringList `json:"networking,omitempty"`
	Internships StringList `json:"internships,omitempty"`
	Routine     string     `json:"routine,omitempty"`
	Advice      string     `json:"advice,omitempty"`
}

type Roadmap struct {
	Years         []RoadmapYear `json:"years"`
	OverallAdvice string        `json:"overall_advice,omitempty"`
}

// StringList is a list of strings that tolerates sloppy model output.
// A bare string decodes to a single element, non-string array elements are
// dropped and every other JSON kind decodes to an empty list.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*l = nil
		return nil
	}

	switch data[0] {
	case '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(StringList, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		*l = out
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringList{s}
	default:
		*l = nil
	}
	return nil
}

// MarshalJSON always writes an array, never null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
