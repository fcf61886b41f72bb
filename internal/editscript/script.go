// Package editscript loads scripted buffer edits from YAML.
//
// A script is a list of steps. Each step either applies a batch of edits
// (one ApplyEdit call) or re-blames the buffer, or both, in that order:
//
//	steps:
//	  - name: insert header
//	    edits:
//	      - {start_line: 0, start_char: 0, end_line: 0, end_char: 0, text: "// new\n"}
//	  - name: resync
//	    refresh: true
package editscript

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/gutterblame/internal/annotation"
)

// ErrEmptyScript is returned when a script has no steps.
var ErrEmptyScript = errors.New("script has no steps")

// Script is the root structure of an edit script file.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one scripted host event.
type Step struct {
	Name    string            `yaml:"name"`    // Optional label printed by the replay command
	Edits   []annotation.Edit `yaml:"edits"`   // Applied as a single batch
	Refresh bool              `yaml:"refresh"` // Re-blame after the edits
}

// Label returns the step name, or a positional fallback.
func (s Step) Label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step %d", i+1)
}

// Load reads and parses the script at path within fsys.
func Load(fsys fs.FS, path string) (*Script, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script. Unknown keys are rejected.
func Parse(content []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScript
		}
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every step for shape errors. Range checks against buffer
// contents happen when the edits are applied.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmptyScript
	}
	for i, step := range s.Steps {
		if len(step.Edits) == 0 && !step.Refresh {
			return fmt.Errorf("%s: needs edits or refresh", step.Label(i))
		}
		for j, e := range step.Edits {
			if err := validateEdit(e); err != nil {
				return fmt.Errorf("%s: edit %d: %w", step.Label(i), j, err)
			}
		}
	}
	return nil
}

func validateEdit(e annotation.Edit) error {
	if e.StartLine < 0 || e.StartChar < 0 || e.EndLine < 0 || e.EndChar < 0 {
		return errors.New("positions must be non-negative")
	}
	if e.EndLine < e.StartLine || (e.EndLine == e.StartLine && e.EndChar < e.StartChar) {
		return errors.New("end precedes start")
	}
	return nil
}
