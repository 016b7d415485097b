package errors

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryRoutes     Category = "routes"
	CategoryNavigation Category = "navigation"
	CategoryCLI        Category = "cli"
)

// contextSize is the number of file lines shown around a location.
const contextSize = 5

// Location represents a position in a route or config file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Line == 0 {
		return l.File
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// WaypointError is a coded error with location, suggestion and documentation.
type WaypointError struct {
	// Code is a unique error identifier (e.g., "W201").
	Code string

	// Category is the error type (config, routes, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position where the error occurred.
	Location *Location

	// Context contains the surrounding file lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct form.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *WaypointError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *WaypointError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location to the error.
func (e *WaypointError) WithLocation(file string, line, column int) *WaypointError {
	e.Location = &Location{File: file, Line: line, Column: column}
	if line > 0 {
		e.Context = readContextLines(file, line, contextSize)
	}
	return e
}

// yamlLine matches the line reported by YAML and JSON syntax errors.
var yamlLine = regexp.MustCompile(`(?:yaml: line|line) (\d+)`)

// WithLocationFromError points the error at file, using the line reported
// by a YAML decoding error when there is one.
func (e *WaypointError) WithLocationFromError(file string, err error) *WaypointError {
	line := 0
	if err != nil {
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
	}
	return e.WithLocation(file, line, 0)
}

// WithSuggestion adds a fix suggestion to the error.
func (e *WaypointError) WithSuggestion(s string) *WaypointError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *WaypointError) WithExample(ex string) *WaypointError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *WaypointError) WithDetail(d string) *WaypointError {
	e.Detail = d
	return e
}

// WithContext adds custom context lines to the error.
func (e *WaypointError) WithContext(lines []string) *WaypointError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *WaypointError) Wrap(err error) *WaypointError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a WaypointError from a registered error code.
func New(code string) *WaypointError {
	template, ok := registry[code]
	if !ok {
		return &WaypointError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &WaypointError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new WaypointError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *WaypointError {
	return &WaypointError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a WaypointError.
func FromError(err error, code string) *WaypointError {
	if err == nil {
		return nil
	}
	if we, ok := err.(*WaypointError); ok {
		return we
	}
	return New(code).Wrap(err)
}
