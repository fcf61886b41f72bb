// Package presentation writes machine-readable command output.
package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatChanges formats a change list as JSON
func (f *Formatter) FormatChanges(changes []ChangeDTO) error {
	return f.encode(changes)
}

// FormatAnnotation formats a buffer's annotations as JSON
func (f *Formatter) FormatAnnotation(annotation AnnotationDTO) error {
	return f.encode(annotation)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
