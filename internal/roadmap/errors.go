package roadmap

import "errors"

// Kind classifies a pipeline failure.
type Kind string

const (
	KindInput      Kind = "input"
	KindCredential Kind = "credential"
	KindPolicy     Kind = "policy"
	KindGeneration Kind = "generation"
	KindFormat     Kind = "format"
	KindSchema     Kind = "schema"
)

var (
	ErrMissingFields    = errors.New("required fields missing")
	ErrNoJSON           = errors.New("no JSON found in model output")
	ErrMalformedJSON    = errors.New("malformed JSON after extraction")
	ErrInvalidStructure = errors.New("invalid roadmap structure")
	ErrInvalidYear      = errors.New("invalid year structure")
)

// User-facing messages.
const (
	MsgMissingFields    = "Discipline, Goals, and Interests are required."
	MsgInvalidKey       = "Invalid Gemini API Key. Please check your .env file."
	MsgBlocked          = "The AI response was blocked due to safety settings. Try adjusting your input or the safety thresholds."
	MsgGeneration       = "An error occurred while generating the roadmap with the AI."
	MsgNoJSON           = "Failed to process the roadmap generated by the AI. The format was invalid or JSON could not be extracted."
	MsgMalformedJSON    = "Failed to process the roadmap generated by the AI. The format was invalid after extraction."
	MsgInvalidStructure = "Failed to process the roadmap generated by the AI. The AI returned an invalid roadmap structure."
	MsgInvalidYear      = "Failed to process the roadmap generated by the AI. The AI returned a roadmap with an invalid year structure."
)

// Error is a terminal pipeline failure. Message is safe to show to users;
// Err keeps the underlying cause for logs and errors.Is.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// AsError converts any error into a pipeline *Error. Errors that did not come
// from the pipeline are treated as generation failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newError(KindGeneration, MsgGeneration, err)
}
