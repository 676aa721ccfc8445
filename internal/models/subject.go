package models

import (
	"fmt"
	"regexp"
	"time"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Subject groups study topics. Archived subjects are hidden from selection
// but kept so existing reviews stay meaningful.
type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"` // #RRGGBB
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Subject) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("subject name cannot be empty")
	}
	if s.Color != "" && !hexColor.MatchString(s.Color) {
		return fmt.Errorf("invalid color %q (expected #RRGGBB)", s.Color)
	}
	return nil
}
