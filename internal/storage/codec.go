package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/recall/internal/models"
)

// TimestampFormat is used by backends that keep timestamps as text.
const TimestampFormat = time.RFC3339Nano

// EncodeSubtasks serializes a checklist for a single text/JSON column.
func EncodeSubtasks(subtasks []models.Subtask) (string, error) {
	if len(subtasks) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(subtasks)
	if err != nil {
		return "", fmt.Errorf("failed to marshal subtasks: %w", err)
	}
	return string(data), nil
}

// DecodeSubtasks is the inverse of EncodeSubtasks. Empty input yields nil.
func DecodeSubtasks(data []byte) ([]models.Subtask, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var subtasks []models.Subtask
	if err := json.Unmarshal(data, &subtasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subtasks: %w", err)
	}
	if len(subtasks) == 0 {
		return nil, nil
	}
	return subtasks, nil
}

// SortReviews orders reviews by date, creation time and id.
func SortReviews(reviews []models.Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		a, b := reviews[i], reviews[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// ValidateReviews checks every review before a batch write.
func ValidateReviews(reviews []models.Review) error {
	seen := make(map[string]bool, len(reviews))
	for i := range reviews {
		if err := reviews[i].Validate(); err != nil {
			return fmt.Errorf("review %q: %w", reviews[i].ID, err)
		}
		if seen[reviews[i].ID] {
			return fmt.Errorf("duplicate review id %q in batch", reviews[i].ID)
		}
		seen[reviews[i].ID] = true
	}
	return nil
}
