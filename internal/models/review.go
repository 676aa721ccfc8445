package models

import (
	"fmt"
	"time"
)

type ReviewType string

const (
	ReviewNew    ReviewType = "NEW"
	Review24H    ReviewType = "24H"
	Review7Day   ReviewType = "7DAY"
	Review8Day   ReviewType = "8DAY"
	Review30Day  ReviewType = "30DAY"
	Review31Day  ReviewType = "31DAY"
	ReviewLegacy ReviewType = ""
)

// Stage returns the position of the review type inside a train: 0 for the
// acquisition card, then 1..3 for the projected reviews.
func (t ReviewType) Stage() int {
	switch t {
	case ReviewNew:
		return 0
	case Review24H:
		return 1
	case Review7Day, Review8Day:
		return 2
	case Review30Day, Review31Day:
		return 3
	default:
		return -1
	}
}

type ReviewStatus string

const (
	StatusPending ReviewStatus = "PENDING"
	StatusDone    ReviewStatus = "DONE"
)

type Complexity string

const (
	ComplexityNormal Complexity = "NORMAL"
	ComplexityHigh   Complexity = "HIGH"
)

type Subtask struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Done        bool   `json:"done"`
	IsRecurrent bool   `json:"is_recurrent"`
}

// Review is a single scheduled study or review card. The acquisition card
// (type NEW) and its projected reviews share a BatchID.
type Review struct {
	ID           string       `json:"id"`
	SubjectID    string       `json:"subject_id"`
	SubjectName  string       `json:"subject_name"`
	Color        string       `json:"color"`
	Topic        string       `json:"topic"`
	TimeMin      int          `json:"time"` // minutes
	Date         string       `json:"date"` // YYYY-MM-DD format
	Type         ReviewType   `json:"type"`
	Status       ReviewStatus `json:"status"`
	CycleIndex   int          `json:"cycle_index,omitempty"` // 0 = undefined
	BatchID      string       `json:"batch_id,omitempty"`
	Complexity   Complexity   `json:"complexity"`
	IsTemporary  bool         `json:"is_temporary,omitempty"`
	OriginalDate string       `json:"original_date,omitempty"` // YYYY-MM-DD format
	Subtasks     []Subtask    `json:"subtasks,omitempty"`
	Link         string       `json:"link,omitempty"`
	HTMLSummary  string       `json:"html_summary,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

func (r *Review) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("review id cannot be empty")
	}
	if r.TimeMin <= 0 {
		return fmt.Errorf("review time must be greater than zero")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if r.OriginalDate != "" {
		if _, err := time.Parse("2006-01-02", r.OriginalDate); err != nil {
			return fmt.Errorf("invalid original date format (expected YYYY-MM-DD): %w", err)
		}
	}
	if r.CycleIndex < 0 {
		return fmt.Errorf("cycle index cannot be negative")
	}
	switch r.Status {
	case StatusPending, StatusDone:
	default:
		return fmt.Errorf("invalid status: %q", r.Status)
	}
	return nil
}

func (r *Review) IsDone() bool {
	return r.Status == StatusDone
}

// IsAcquisition reports whether the card anchors its batch.
func (r *Review) IsAcquisition() bool {
	return r.Type == ReviewNew
}

// PendingSubtasks returns the subtasks that are not yet done.
func (r *Review) PendingSubtasks() []Subtask {
	var pending []Subtask
	for _, st := range r.Subtasks {
		if !st.Done {
			pending = append(pending, st)
		}
	}
	return pending
}

// Clone returns a deep copy so callers can mutate the result freely.
func (r Review) Clone() Review {
	if r.Subtasks != nil {
		r.Subtasks = append([]Subtask(nil), r.Subtasks...)
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		r.CompletedAt = &t
	}
	return r
}

// CloneReviews deep-copies a slice of reviews.
func CloneReviews(reviews []Review) []Review {
	out := make([]Review, len(reviews))
	for i, r := range reviews {
		out[i] = r.Clone()
	}
	return out
}
