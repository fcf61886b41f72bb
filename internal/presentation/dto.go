package presentation

import (
	"time"

	"github.com/zjrosen/gutterblame/internal/annotator"
	"github.com/zjrosen/gutterblame/internal/changelist"
)

// ChangeDTO represents one entry of a commit's change list for presentation
type ChangeDTO struct {
	Status    string `json:"status"`
	Code      string `json:"code"`
	Path      string `json:"path"`
	RenamedTo string `json:"renamed_to,omitempty"`
}

// FromChanges converts parsed change list entries to DTOs.
func FromChanges(changes []changelist.Change) []ChangeDTO {
	dtos := make([]ChangeDTO, len(changes))
	for i, c := range changes {
		dtos[i] = ChangeDTO{
			Status:    c.Status.String(),
			Code:      c.Status.Code(),
			Path:      c.OriginalPath,
			RenamedTo: c.RenamedToPath,
		}
	}
	return dtos
}

// AnnotationDTO represents a buffer's annotations for presentation
type AnnotationDTO struct {
	Path            string    `json:"path"`
	Width           int       `json:"width"`
	Distinguishable bool      `json:"distinguishable"`
	Lines           []LineDTO `json:"lines"`
}

// LineDTO represents one gutter row. Uncommitted lines carry only their
// number.
type LineDTO struct {
	Line      int        `json:"line"` // 1-based position in the buffer
	Committed bool       `json:"committed"`
	Commit    string     `json:"commit,omitempty"`
	Author    string     `json:"author,omitempty"`
	Mail      string     `json:"mail,omitempty"`
	Summary   string     `json:"summary,omitempty"`
	Time      *time.Time `json:"time,omitempty"`
	Title     string     `json:"title,omitempty"`
	Light     string     `json:"light,omitempty"`
	Dark      string     `json:"dark,omitempty"`
}

// FromView converts an annotator view to a DTO. A nil view yields no lines.
func FromView(path string, view *annotator.View) AnnotationDTO {
	dto := AnnotationDTO{Path: path, Lines: []LineDTO{}}
	if view == nil {
		return dto
	}
	dto.Width = view.Width
	dto.Distinguishable = view.Distinguishable

	for i, l := range view.Lines {
		line := LineDTO{Line: i + 1}
		if r := l.Record; r.Committed {
			t := time.Unix(r.Timestamp, 0).UTC()
			line.Committed = true
			line.Commit = r.CommitID
			line.Author = r.Author
			line.Mail = r.AuthorMail
			line.Summary = r.Summary
			line.Time = &t
			line.Title = r.Title
			line.Light = l.Color.Light
			line.Dark = l.Color.Dark
		}
		dto.Lines = append(dto.Lines, line)
	}
	return dto
}
