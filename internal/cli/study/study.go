package study

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/scheduler"
)

var errBlocked = errors.New("study entry not scheduled")

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

type LogCmd struct {
	Subject   string   `arg:"" help:"Subject name or id. Unknown names are created."`
	Topic     string   `arg:"" help:"What was studied."`
	Minutes   int      `short:"m" help:"Minutes spent studying." default:"30"`
	Date      string   `short:"d" help:"Study date (today, yesterday, -N or YYYY-MM-DD)." default:"today"`
	High      bool     `help:"Mark the topic as high complexity (longer reviews)."`
	Subtask   []string `help:"Subtask to attach to the acquisition card. Repeatable."`
	Recurrent []string `help:"Recurrent subtask carried to each later review. Repeatable."`
	Link      string   `help:"Reference link for the topic."`
	Summary   string   `help:"HTML summary of the topic."`
	Color     string   `help:"Color for a newly created subject."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Planner.Today()
	if err != nil {
		return err
	}
	date, err := cli.ResolveDate(c.Date, today)
	if err != nil {
		return err
	}

	entry := scheduler.Entry{
		Topic:        c.Topic,
		StudyTimeMin: c.Minutes,
		BaseDate:     date,
		Complexity:   models.ComplexityNormal,
		Link:         c.Link,
		HTMLSummary:  c.Summary,
		Color:        c.Color,
	}
	if subject, err := ctx.Planner.FindSubject(c.Subject); err == nil {
		entry.SubjectID = subject.ID
	} else {
		entry.SubjectName = c.Subject
	}
	if c.High {
		entry.Complexity = models.ComplexityHigh
	}
	sched := ctx.Planner.Scheduler()
	for _, text := range c.Subtask {
		entry.Subtasks = append(entry.Subtasks, models.Subtask{ID: sched.NewID(), Text: text})
	}
	for _, text := range c.Recurrent {
		entry.Subtasks = append(entry.Subtasks, models.Subtask{ID: sched.NewID(), Text: text, IsRecurrent: true})
	}

	proj, err := ctx.Planner.LogStudy(entry)
	if err != nil {
		return err
	}
	if proj.Blocker != nil {
		fmt.Printf("❌ Not scheduled: %s\n", proj.Blocker)
		fmt.Println("  Nothing was saved. Try a shorter session, another date or a higher capacity.")
		return errBlocked
	}

	acq := proj.Records[0]
	fmt.Printf("✓ Logged %s · %s (cycle #%d)\n", acq.SubjectName, acq.Topic, acq.CycleIndex)
	for _, r := range proj.Records[1:] {
		fmt.Printf("  %-6s %s  %3d min\n", r.Type, r.Date, r.TimeMin)
	}
	if proj.SettingsChanged && proj.Settings.Profile == models.ProfilePendular {
		fmt.Printf("  Phase: %s\n", proj.Settings.CycleState)
	}
	return nil
}

type TodayCmd struct {
	Days int `help:"Days of upcoming reviews to show." default:"0"`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	board, err := ctx.Planner.Board(c.Days)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Today · %s", board.Today)))
	load := fmt.Sprintf("Load: %d/%d min", board.TodayLoad, board.Capacity)
	if board.Capacity > 0 && board.TodayLoad > board.Capacity {
		load += fmt.Sprintf("  ⚠ %d min over capacity", board.TodayLoad-board.Capacity)
	}
	fmt.Println(load)

	printSection("Overdue", board.Overdue, true)
	printSection("Due today", board.DueToday, false)
	if c.Days > 0 {
		printSection("Upcoming", board.Upcoming, true)
	}
	printSection("Done", board.Done, false)

	if borrowed := board.Borrowed(); len(borrowed) > 0 {
		fmt.Printf("\n↩ %d borrowed review(s) return to their original day if not finished today.\n", len(borrowed))
	}
	return nil
}

func printSection(title string, reviews []models.Review, withDate bool) {
	if len(reviews) == 0 {
		return
	}
	fmt.Printf("\n%s (%d)\n", headerStyle.Render(title), len(reviews))
	for _, r := range reviews {
		fmt.Println("  " + FormatReview(r, withDate))
	}
}

// FormatReview renders a one-line summary of a review.
func FormatReview(r models.Review, withDate bool) string {
	var b strings.Builder
	switch {
	case r.IsDone():
		b.WriteString("✓ ")
	case r.IsTemporary:
		b.WriteString("↩ ")
	default:
		b.WriteString("• ")
	}
	if withDate {
		b.WriteString(r.Date + "  ")
	}
	typ := string(r.Type)
	if typ == "" {
		typ = "REVIEW"
	}
	fmt.Fprintf(&b, "%-6s %s · %s  %d min", typ, r.SubjectName, r.Topic, r.TimeMin)
	if r.CycleIndex > 0 {
		fmt.Fprintf(&b, "  #%d", r.CycleIndex)
	}
	if n := len(r.Subtasks); n > 0 {
		fmt.Fprintf(&b, "  [%d/%d]", n-len(r.PendingSubtasks()), n)
	}
	fmt.Fprintf(&b, "  (%s)", r.ID)
	return b.String()
}

type RescheduleCmd struct {
	To string `help:"Date the earliest overdue review lands on." default:"today"`
}

func (c *RescheduleCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Planner.Today()
	if err != nil {
		return err
	}
	target, err := cli.ResolveDate(c.To, today)
	if err != nil {
		return err
	}

	res, err := ctx.Planner.Reschedule(target)
	if err != nil {
		return err
	}
	if res.Overdue == 0 {
		fmt.Println("⊘ Nothing overdue.")
		return nil
	}
	fmt.Printf("✓ Rescheduled %d overdue review(s): %d shifted by %d day(s)", res.Overdue, res.ShiftedCount, res.Shift)
	if res.Cascaded > 0 {
		fmt.Printf(", %d cascaded to keep days under capacity", res.Cascaded)
	}
	fmt.Println()
	return nil
}
