// Package calendar serializes pending reviews into an iCalendar document.
package calendar

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/utils"
)

var (
	ErrMissingRange    = errors.New("calendar: export range is required")
	ErrMissingDayStart = errors.New("calendar: day start time is required")
	ErrNothingToExport = errors.New("calendar: no pending reviews in range")
)

const productID = "-//recall//study planner//EN"

// Options holds configuration for export operations.
type Options struct {
	StartDate       string // YYYY-MM-DD, inclusive
	EndDate         string // YYYY-MM-DD, inclusive
	DayStart        string // HH:MM
	IncludeBreak    bool
	BreakMinutes    int
	ReminderMinutes int
	FilePath        string
	Overwrite       bool
}

// DefaultOptions returns options with the standard break and reminder
// lengths. The range and day start are left for the caller.
func DefaultOptions() Options {
	return Options{
		DayStart:        constants.DefaultExportDayStart,
		IncludeBreak:    true,
		BreakMinutes:    constants.DefaultExportBreakMin,
		ReminderMinutes: constants.DefaultReminderLeadMin,
	}
}

// Event is one review packed into its day.
type Event struct {
	Review models.Review
	Start  time.Time // wall clock, location ignored
	End    time.Time
}

// Exporter handles exporting reviews to iCalendar.
type Exporter struct {
	opts Options
	now  func() time.Time
}

// NewExporter creates a new Exporter with the given options.
func NewExporter(opts Options) *Exporter {
	return &Exporter{opts: opts, now: time.Now}
}

func (e *Exporter) validate() error {
	if e.opts.StartDate == "" || e.opts.EndDate == "" {
		return ErrMissingRange
	}
	if !utils.IsValidDate(e.opts.StartDate) || !utils.IsValidDate(e.opts.EndDate) {
		return fmt.Errorf("%w: invalid date (expected YYYY-MM-DD)", ErrMissingRange)
	}
	if e.opts.EndDate < e.opts.StartDate {
		return fmt.Errorf("%w: end %s is before start %s", ErrMissingRange, e.opts.EndDate, e.opts.StartDate)
	}
	if e.opts.DayStart == "" {
		return ErrMissingDayStart
	}
	if !utils.ValidateTimeFormat(e.opts.DayStart) {
		return fmt.Errorf("%w: invalid time %q (expected HH:MM)", ErrMissingDayStart, e.opts.DayStart)
	}
	return nil
}

// Events selects the pending reviews inside the range and lays them out
// back to back from the day start, with an optional break after each.
func (e *Exporter) Events(reviews []models.Review) ([]Event, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	var selected []models.Review
	for _, r := range reviews {
		if r.IsDone() || r.Date < e.opts.StartDate || r.Date > e.opts.EndDate {
			continue
		}
		selected = append(selected, r)
	}
	if len(selected) == 0 {
		return nil, ErrNothingToExport
	}
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.CycleIndex != b.CycleIndex {
			return a.CycleIndex < b.CycleIndex
		}
		return a.ID < b.ID
	})

	gap := 0
	if e.opts.IncludeBreak {
		gap = e.opts.BreakMinutes
	}

	events := make([]Event, 0, len(selected))
	offset := 0
	day := ""
	for _, r := range selected {
		if r.Date != day {
			day = r.Date
			offset = 0
		}
		dayStart, err := utils.CombineDateAndTime(r.Date, e.opts.DayStart, time.UTC)
		if err != nil {
			return nil, err
		}
		start := dayStart.Add(time.Duration(offset) * time.Minute)
		end := start.Add(time.Duration(r.TimeMin) * time.Minute)
		events = append(events, Event{Review: r, Start: start, End: end})
		offset += r.TimeMin + gap
	}
	return events, nil
}

// Serialize renders the reviews as a VCALENDAR document.
func (e *Exporter) Serialize(reviews []models.Review) (string, error) {
	events, err := e.Events(reviews)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	stamp := e.now().UTC()
	for _, ev := range events {
		r := ev.Review
		vevent := cal.AddEvent(r.ID + "@" + constants.AppName)
		vevent.SetDtStampTime(stamp)
		vevent.SetProperty(ics.ComponentPropertyDtStart, ev.Start.Format(constants.ICSDateTimeFormat))
		vevent.SetProperty(ics.ComponentPropertyDtEnd, ev.End.Format(constants.ICSDateTimeFormat))
		vevent.SetSummary(Summary(r))
		vevent.SetDescription(Description(r))

		if e.opts.ReminderMinutes > 0 {
			alarm := vevent.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", e.opts.ReminderMinutes))
			alarm.SetProperty(ics.ComponentPropertyDescription, Summary(r))
		}
	}
	return cal.Serialize(), nil
}

// Export serializes the reviews and writes them to the configured file.
func (e *Exporter) Export(reviews []models.Review) error {
	if e.opts.FilePath == "" {
		return fmt.Errorf("export path is required")
	}
	body, err := e.Serialize(reviews)
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !e.opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(e.opts.FilePath, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file already exists: %s (use --overwrite to replace)", e.opts.FilePath)
		}
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if _, err := f.WriteString(body); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return f.Close()
}

// Summary is the event title: cycle index and subject.
func Summary(r models.Review) string {
	name := r.SubjectName
	if name == "" {
		name = r.Topic
	}
	if r.CycleIndex > 0 {
		return fmt.Sprintf("#%d %s", r.CycleIndex, name)
	}
	return name
}

// Description is the event body: topic and review type.
func Description(r models.Review) string {
	typ := string(r.Type)
	if r.Type == models.ReviewLegacy {
		typ = "REVIEW"
	}
	if r.Topic == "" {
		return typ
	}
	return fmt.Sprintf("%s (%s)", r.Topic, typ)
}
