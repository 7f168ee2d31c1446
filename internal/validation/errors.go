package validation

import (
	"errors"
	"sort"
	"strings"
)

// ErrValidation matches any *Errors through errors.Is.
var ErrValidation = errors.New("validation failed")

// Errors maps a field's JSON name to a user-facing message. It is returned
// instead of nil when at least one field fails.
type Errors struct {
	Fields map[string]string `json:"fields"`
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Errors) Is(target error) bool {
	return target == ErrValidation
}

// Add records the first message for field.
func (e *Errors) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

// Err returns nil when nothing was recorded.
func (e *Errors) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Field wraps a single-field failure, such as a password rule, as *Errors.
func Field(field string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	errs := &Errors{}
	errs.Add(field, strings.ToUpper(msg[:1])+msg[1:])
	return errs
}
