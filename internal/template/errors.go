package template

import (
	"errors"
	"fmt"
)

var (
	ErrNilSchema           = errors.New("nil schema")
	ErrReferenceLoop       = errors.New("reference loop")
	ErrMissingName         = errors.New("parameter has no name")
	ErrMissingType         = errors.New("parameter has no type")
	ErrInvalidResponseCode = errors.New("invalid response code")
)

// Skip records a construct that could not be templated. Skips are not
// errors: the construct is left out and templating continues.
type Skip struct {
	Path     string
	Verb     Verb
	Location string
	Reason   string
}

func (s Skip) String() string {
	prefix := ""
	if s.Verb != "" || s.Path != "" {
		prefix = fmt.Sprintf("%s %s ", s.Verb, s.Path)
	}
	if s.Location == "" {
		return prefix + s.Reason
	}
	return fmt.Sprintf("%s%s: %s", prefix, s.Location, s.Reason)
}
