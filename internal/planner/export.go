package planner

import (
	"fmt"

	"github.com/julianstephens/recall/internal/calendar"
	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/storage"
)

// Export writes pending reviews in the options' range to an ICS file. When
// FilePath is empty the document is returned instead.
func (p *Planner) Export(opts calendar.Options) (string, error) {
	reviews, err := p.store.GetAllReviews()
	if err != nil {
		return "", fmt.Errorf("failed to load reviews: %w", err)
	}
	exporter := calendar.NewExporter(opts)
	if opts.FilePath == "" {
		return exporter.Serialize(reviews)
	}
	if err := exporter.Export(reviews); err != nil {
		return "", err
	}
	logger.Info("calendar exported", "path", opts.FilePath, "from", opts.StartDate, "to", opts.EndDate)
	return "", nil
}

// CopyStats counts what CopyFrom transferred.
type CopyStats struct {
	Subjects int
	Reviews  int
}

// CopyFrom loads settings, subjects and reviews from src into the planner's
// store, which must be empty.
func (p *Planner) CopyFrom(src storage.Provider) (CopyStats, error) {
	var stats CopyStats

	settings, err := src.GetSettings()
	if err != nil {
		return stats, fmt.Errorf("failed to read source settings: %w", err)
	}
	if err := p.store.SaveSettings(settings); err != nil {
		return stats, fmt.Errorf("failed to write settings: %w", err)
	}

	subjects, err := src.GetAllSubjects(true)
	if err != nil {
		return stats, fmt.Errorf("failed to read source subjects: %w", err)
	}
	for _, s := range subjects {
		if err := p.store.AddSubject(s); err != nil {
			return stats, fmt.Errorf("failed to copy subject %s: %w", s.Name, err)
		}
		stats.Subjects++
	}

	reviews, err := src.GetAllReviews()
	if err != nil {
		return stats, fmt.Errorf("failed to read source reviews: %w", err)
	}
	if len(reviews) > 0 {
		if err := p.store.AddReviews(reviews); err != nil {
			return stats, fmt.Errorf("failed to copy reviews: %w", err)
		}
	}
	stats.Reviews = len(reviews)

	logger.Info("store copied", "subjects", stats.Subjects, "reviews", stats.Reviews)
	return stats, nil
}
