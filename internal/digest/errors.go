package digest

import (
	"errors"
	"fmt"
)

// Structural error kinds. A *ParseError wraps exactly one of them.
var (
	ErrMalformedIssueID  = errors.New("malformed issue id")
	ErrMissingIssueURL   = errors.New("missing issue url")
	ErrParagraphNotFound = errors.New("paragraph not found")
	ErrLinkNotFound      = errors.New("link not found")
	ErrStructureNotFound = errors.New("structure not found")
	ErrTimeNotFound      = errors.New("time not found")
	ErrNextNotFound      = errors.New("next element not found")
	ErrHrefNotFound      = errors.New("href not found")
)

// ParseError names the element that was missing or malformed.
type ParseError struct {
	Kind    error
	Element string
}

func (e *ParseError) Error() string {
	if e.Element == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Element)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

func parseError(kind error, element string) error {
	return &ParseError{Kind: kind, Element: element}
}
