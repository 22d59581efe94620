package roadmap

import "net/http"

// Result is what callers hand back to users: either a roadmap or an error
// message, never both.
type Result struct {
	Roadmap *Roadmap `json:"roadmap,omitempty"`
	Error   string   `json:"error,omitempty"`

	// Kind is empty on success.
	Kind Kind  `json:"-"`
	Err  error `json:"-"`
}

func NewResult(rm *Roadmap, err error) Result {
	if err != nil {
		e := AsError(err)
		return Result{Error: e.Message, Kind: e.Kind, Err: e}
	}
	return Result{Roadmap: rm}
}

func (r Result) OK() bool { return r.Error == "" && r.Roadmap != nil }

// Status is the HTTP status code a caller should present the result with.
func (r Result) Status() int {
	if r.OK() {
		return http.StatusOK
	}
	if r.Kind == KindInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
