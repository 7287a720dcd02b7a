package tui

import "github.com/goliatone/go-splitjson/pkg/model"

// State tracks the answers collected during a session, keyed by composite
// path, and the server-provided errors shown before each prompt.
type State struct {
	answers model.Form
	errors  map[string][]string
}

// NewState seeds the state with errors keyed by composite path.
func NewState(errs map[string][]string) *State {
	return &State{errors: cloneErrors(errs)}
}

// Form returns a copy of the answers in prompt order.
func (s *State) Form() model.Form {
	if s == nil {
		return model.Form{}
	}
	return s.answers.Clone()
}

// ErrorsFor returns the errors attached to a composite path.
func (s *State) ErrorsFor(path string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[path]
}

// Set records the answer for path.
func (s *State) Set(path, value string) {
	s.answers.Set(path, value)
}

func cloneErrors(src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}
