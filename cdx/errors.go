package cdx

import (
	"errors"
	"fmt"
)

// ErrLegacyDocument flags a binary document with a pre-release header.
// Such files can be read by enabling the AllowLegacy decode option.
var ErrLegacyDocument = errors.New("legacy pre-release document header")

// ErrorSeverity represents the severity level of a decoding error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the document unusable or unreliable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a significant error that may affect functionality but doesn't prevent usage.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// DecodeError represents an error encountered while decoding a document.
// Errors are accumulated during decoding and can be inspected afterwards.
type DecodeError struct {
	Tag      Tag           // The record where the error occurred
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   int           // Byte offset in the data stream where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e DecodeError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s at offset %d: %s", e.Severity, e.Tag, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Tag, e.Issue)
}

// DecodeWarning represents a non-critical issue encountered while decoding.
// Warnings indicate potential problems but do not prevent using the document.
type DecodeWarning struct {
	Tag    Tag    // The record where the warning occurred
	Issue  string // Human-readable description of the warning
	Offset int    // Byte offset in the data stream where the warning occurred (0 if unknown)
}

// String returns a human-readable representation of the warning.
func (w DecodeWarning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("[WARNING] %s at offset %d: %s", w.Tag, w.Offset, w.Issue)
	}
	return fmt.Sprintf("[WARNING] %s: %s", w.Tag, w.Issue)
}

// ReferenceError reports an index into one of the shared document tables
// which does not resolve, or a dangling object ID reference. Documents
// with dangling references are never encoded; the error surfaces before
// any output is produced.
type ReferenceError struct {
	Kind  string // "font", "color" or "object"
	Ref   int    // the offending index or ID
	Limit int    // table size (or 0 for ID references)
}

func (e ReferenceError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("%s reference %d outside table of size %d", e.Kind, e.Ref, e.Limit)
	}
	return fmt.Sprintf("%s reference %d does not resolve", e.Kind, e.Ref)
}

// UnsupportedError reports a structurally valid input which the requested
// operation cannot represent.
type UnsupportedError struct {
	Op     string
	Reason string
}

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("%s: unsupported structure: %s", e.Op, e.Reason)
}

// errorCollector accumulates errors and warnings during decoding.
// This is an internal helper used by the decoder to collect issues as they are discovered.
type errorCollector struct {
	errors   []DecodeError
	warnings []DecodeWarning
}

// addError records a decoding error.
func (ec *errorCollector) addError(tag Tag, issue string, severity ErrorSeverity, offset int) {
	ec.errors = append(ec.errors, DecodeError{
		Tag:      tag,
		Issue:    issue,
		Severity: severity,
		Offset:   offset,
	})
}

// addWarning records a decoding warning.
func (ec *errorCollector) addWarning(tag Tag, issue string, offset int) {
	ec.warnings = append(ec.warnings, DecodeWarning{
		Tag:    tag,
		Issue:  issue,
		Offset: offset,
	})
}

// hasErrors returns true if any errors have been recorded.
func (ec *errorCollector) hasErrors() bool {
	return len(ec.errors) > 0
}
