package dataset

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrDataUnavailable matches failures to open or read the input file.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrDataMalformed matches input that was read but does not fit the schema.
	ErrDataMalformed = errors.New("data malformed")
)

type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDataUnavailable, e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrDataUnavailable, e.Err}
}

func (e *UnavailableError) NotFound() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}

// UserMessage is the text shown in place of the dashboard.
func (e *UnavailableError) UserMessage() string {
	if e.NotFound() {
		return fmt.Sprintf("Error: The file '%s' was not found. Please make sure it's in the same folder.", e.Path)
	}
	return fmt.Sprintf("Error: The file '%s' could not be read.", e.Path)
}

// MalformedError locates a schema or parse failure. Line is 1-based and
// counts the header row; it is 0 when the problem concerns the file as a whole.
type MalformedError struct {
	Path   string
	Line   int
	Column string
	Value  string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrDataMalformed, e.Path, e.location())
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrDataMalformed
}

func (e *MalformedError) UserMessage() string {
	return fmt.Sprintf("Error: The file '%s' could not be parsed (%s).", e.Path, e.location())
}

func (e *MalformedError) location() string {
	var msg string
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: ", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf("column %q: ", e.Column)
	}
	if e.Value != "" {
		msg += fmt.Sprintf("value %q: ", e.Value)
	}
	return msg + e.Reason
}

// UserMessage returns the user-facing text for a load error, or "" when err
// is not one of this package's errors.
func UserMessage(err error) string {
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return unavailable.UserMessage()
	}
	var malformed *MalformedError
	if errors.As(err, &malformed) {
		return malformed.UserMessage()
	}
	return ""
}
