package sddraft

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/gisops/webtool/pkg/webtool"
)

// DraftError is a structured error raised while parsing or patching a
// service definition draft. It includes the file path, a line number when
// the XML parser reported one, and an actionable hint.
type DraftError struct {
	Path    string // Path to the draft with the error
	Line    int    // Line number (0 if unknown)
	Message string // Primary error message
	Hint    string // Actionable suggestion for fixing

	err error // wrapped sentinel for errors.Is
}

// Error implements the error interface with rich formatting.
func (e *DraftError) Error() string {
	location := e.Path
	if e.Line > 0 {
		location = fmt.Sprintf("%s (line %d)", e.Path, e.Line)
	}

	msg := fmt.Sprintf("service definition draft error in %s: %s", location, e.Message)
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	return msg
}

// Unwrap exposes the wrapped sentinel so callers can use errors.Is.
func (e *DraftError) Unwrap() error {
	return e.err
}

const structureHint = "The draft must contain Definition > ConfigurationProperties > a property\n" +
	"array of PropertySetProperty nodes, each with a key and a value element.\n" +
	"Drafts produced by the packaging step always have this shape; regenerate\n" +
	"the draft instead of editing it by hand."

// wrapParseError converts an XML parse failure to a DraftError with a line
// number when the underlying decoder reported one.
func wrapParseError(err error, path string) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DraftError{
			Path:    path,
			Line:    syntaxErr.Line,
			Message: syntaxErr.Msg,
			Hint:    "Check that all XML tags are properly closed and attributes are quoted.",
			err:     webtool.ErrMalformedDraft,
		}
	}

	return &DraftError{
		Path:    path,
		Message: err.Error(),
		Hint:    structureHint,
		err:     webtool.ErrMalformedDraft,
	}
}

// structureError reports a well-formed document that is missing the
// expected draft structure. The caller guarantees the document was produced
// by the known packaging step, so this is a precondition violation.
func structureError(path, message string) error {
	return &DraftError{
		Path:    path,
		Message: message,
		Hint:    structureHint,
		err:     webtool.ErrMalformedDraft,
	}
}

// noTemplateError reports an empty property sequence: with no existing
// property to clone, the patcher cannot synthesize a new node without
// guessing schema details.
func noTemplateError(path, name string) error {
	return &DraftError{
		Path:    path,
		Message: fmt.Sprintf("property %q is absent and the property sequence is empty", name),
		Hint:    "Drafts from the packaging step always carry at least one baseline property.\nRegenerate the draft; the patcher does not invent property structure.",
		err:     webtool.ErrNoTemplateProperty,
	}
}
