package errors

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryFixture    Category = "fixture"
	CategoryPlayground Category = "playground"
	CategoryCLI        Category = "cli"
)

// Location is a position in a source document.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// SyringeError is a structured error with an optional source location and
// a hint on how to fix it.
type SyringeError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	Category Category
	Message  string
	Detail   string

	// Location points into the document that caused the error.
	Location *Location

	// Context holds the lines surrounding Location.
	Context []string

	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *SyringeError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SyringeError) Unwrap() error {
	return e.Wrapped
}

// Is matches another SyringeError by code.
func (e *SyringeError) Is(target error) bool {
	t, ok := target.(*SyringeError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithLocation records a position and reads the surrounding lines from
// file when it exists on disk.
func (e *SyringeError) WithLocation(file string, line, column int) *SyringeError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *SyringeError) WithSuggestion(s string) *SyringeError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *SyringeError) WithDetail(d string) *SyringeError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *SyringeError) WithDetailf(format string, args ...any) *SyringeError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// Wrap wraps another error.
func (e *SyringeError) Wrap(err error) *SyringeError {
	e.Wrapped = err
	return e
}

func readContextLines(filename string, targetLine, contextSize int) []string {
	if filename == "" || targetLine <= 0 {
		return nil
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	first := targetLine - contextSize/2
	last := targetLine + contextSize/2
	for n := 1; scanner.Scan() && n <= last; n++ {
		if n >= first {
			lines = append(lines, scanner.Text())
		}
	}
	return lines
}

// New creates a SyringeError from a registered error code.
func New(code string) *SyringeError {
	template, ok := registry[code]
	if !ok {
		return &SyringeError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &SyringeError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *SyringeError {
	return &SyringeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err under code unless it already is a SyringeError.
func FromError(err error, code string) *SyringeError {
	if err == nil {
		return nil
	}
	var se *SyringeError
	if errors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, a SyringeError with code.
func HasCode(err error, code string) bool {
	var se *SyringeError
	for err != nil {
		if !errors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Wrapped
	}
	return false
}
