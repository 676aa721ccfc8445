package reviews

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/cli/study"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/planner"
	"github.com/julianstephens/recall/internal/scheduler"
	"github.com/julianstephens/recall/internal/storage"
)

// notFound reports a missing record as a no-op.
func notFound(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Printf("⊘ %s not found; nothing to do.\n", what)
		return nil
	}
	return err
}

type ReviewListCmd struct {
	From    string `help:"First date to include (today, +N, YYYY-MM-DD)."`
	To      string `help:"Last date to include (today, +N, YYYY-MM-DD)."`
	Status  string `help:"Only reviews with this status (pending or done)."`
	Subject string `help:"Only reviews of this subject (name or id)."`
	Batch   string `help:"Only reviews projected from this batch."`
}

func (c *ReviewListCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Planner.Today()
	if err != nil {
		return err
	}
	filter := planner.ReviewFilter{
		Status:  models.ReviewStatus(strings.ToUpper(c.Status)),
		Subject: c.Subject,
		BatchID: c.Batch,
	}
	switch filter.Status {
	case "", models.StatusPending, models.StatusDone:
	default:
		return fmt.Errorf("invalid status %q (expected pending or done)", c.Status)
	}
	if c.From != "" {
		if filter.From, err = cli.ResolveDate(c.From, today); err != nil {
			return err
		}
	}
	if c.To != "" {
		if filter.To, err = cli.ResolveDate(c.To, today); err != nil {
			return err
		}
	}

	reviews, err := ctx.Planner.ListReviews(filter)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		fmt.Println("No reviews found.")
		return nil
	}
	for _, r := range reviews {
		fmt.Println(study.FormatReview(r, true))
	}
	fmt.Printf("\n%d review(s)\n", len(reviews))
	return nil
}

type ReviewShowCmd struct {
	ID string `arg:"" help:"Review id."`
}

func (c *ReviewShowCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Planner.GetReview(c.ID)
	if err != nil {
		return notFound(err, "Review "+c.ID)
	}

	fmt.Printf("%s · %s\n", r.SubjectName, r.Topic)
	fmt.Printf("  ID:         %s\n", r.ID)
	fmt.Printf("  Batch:      %s\n", r.BatchID)
	fmt.Printf("  Type:       %s\n", r.Type)
	fmt.Printf("  Date:       %s\n", r.Date)
	fmt.Printf("  Time:       %d min\n", r.TimeMin)
	fmt.Printf("  Status:     %s\n", r.Status)
	fmt.Printf("  Complexity: %s\n", r.Complexity)
	if r.CycleIndex > 0 {
		fmt.Printf("  Cycle:      #%d\n", r.CycleIndex)
	}
	if r.IsTemporary {
		fmt.Printf("  Borrowed:   from %s\n", r.OriginalDate)
	}
	if r.Link != "" {
		fmt.Printf("  Link:       %s\n", r.Link)
	}
	if r.HTMLSummary != "" {
		fmt.Printf("  Summary:    %s\n", r.HTMLSummary)
	}
	if len(r.Subtasks) > 0 {
		fmt.Println("  Subtasks:")
		for i, st := range r.Subtasks {
			mark := " "
			if st.Done {
				mark = "x"
			}
			recurrent := ""
			if st.IsRecurrent {
				recurrent = " (recurrent)"
			}
			fmt.Printf("    %d. [%s] %s%s\n", i+1, mark, st.Text, recurrent)
		}
	}
	return nil
}

type ReviewDoneCmd struct {
	ID string `arg:"" help:"Review id."`
}

func (c *ReviewDoneCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Planner.Complete(c.ID)
	if errors.Is(err, scheduler.ErrPendingSubtasks) {
		return fmt.Errorf("%w: finish or remove them with 'review subtask' first", err)
	}
	if err != nil {
		return notFound(err, "Review "+c.ID)
	}
	fmt.Printf("✓ Completed %s · %s\n", res.Review.SubjectName, res.Review.Topic)
	if res.Carried != nil {
		fmt.Printf("  Recurrent subtasks carried to the %s review on %s\n", res.Carried.Type, res.Carried.Date)
	}
	return nil
}

type ReviewReopenCmd struct {
	ID string `arg:"" help:"Review id."`
}

func (c *ReviewReopenCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Planner.Reopen(c.ID)
	if err != nil {
		return notFound(err, "Review "+c.ID)
	}
	fmt.Printf("✓ Reopened %s · %s\n", r.SubjectName, r.Topic)
	return nil
}

type ReviewMoveCmd struct {
	ID   string `arg:"" help:"Review id."`
	Date string `arg:"" help:"Target date (today, tomorrow, +N or YYYY-MM-DD)."`
	Yes  bool   `short:"y" help:"Move without asking when there are warnings."`
}

func (c *ReviewMoveCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Planner.Today()
	if err != nil {
		return err
	}
	target, err := cli.ResolveDate(c.Date, today)
	if err != nil {
		return err
	}

	r, warnings, err := ctx.Planner.CheckMove(c.ID, target)
	if err != nil {
		return notFound(err, "Review "+c.ID)
	}
	if len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Printf("⚠ %s\n", w)
		}
		if !c.Yes {
			confirmed := false
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Move %s to %s anyway?", r.Topic, target)).
						Affirmative("Move").
						Negative("Cancel").
						Value(&confirmed),
				),
			)
			if err := form.Run(); err != nil {
				return fmt.Errorf("confirmation form error: %w", err)
			}
			if !confirmed {
				fmt.Println("⊘ Move cancelled.")
				return nil
			}
		}
	}

	moved, err := ctx.Planner.Move(c.ID, target)
	if err != nil {
		return err
	}
	if moved.IsTemporary {
		fmt.Printf("✓ Borrowed %s into today (returns to %s if unfinished)\n", moved.Topic, moved.OriginalDate)
	} else {
		fmt.Printf("✓ Moved %s from %s to %s\n", moved.Topic, r.Date, moved.Date)
	}
	return nil
}

type ReviewEditCmd struct {
	ID      string  `arg:"" help:"Review id."`
	Topic   *string `help:"New topic."`
	Minutes *int    `short:"m" help:"New review time in minutes."`
	Link    *string `help:"Reference link (empty to clear)."`
	Summary *string `help:"HTML summary (empty to clear)."`
}

func (c *ReviewEditCmd) Run(ctx *cli.Context) error {
	edit := planner.ReviewEdit{
		Topic:       c.Topic,
		TimeMin:     c.Minutes,
		Link:        c.Link,
		HTMLSummary: c.Summary,
	}
	if edit == (planner.ReviewEdit{}) {
		fmt.Println("No changes specified.")
		return nil
	}
	r, err := ctx.Planner.EditReview(c.ID, edit)
	if err != nil {
		return notFound(err, "Review "+c.ID)
	}
	fmt.Printf("✓ Updated %s · %s\n", r.SubjectName, r.Topic)
	return nil
}

type ReviewDeleteCmd struct {
	ID string `arg:"" help:"Review id."`
}

func (c *ReviewDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Planner.DeleteReview(c.ID); err != nil {
		return notFound(err, "Review "+c.ID)
	}
	fmt.Printf("✓ Deleted review %s\n", c.ID)
	return nil
}

type ReviewDeleteBatchCmd struct {
	BatchID string `arg:"" help:"Batch id shared by an acquisition card and its reviews."`
}

func (c *ReviewDeleteBatchCmd) Run(ctx *cli.Context) error {
	n, err := ctx.Planner.DeleteBatch(c.BatchID)
	if err != nil {
		return notFound(err, "Batch "+c.BatchID)
	}
	fmt.Printf("✓ Deleted %d review(s) from batch %s\n", n, c.BatchID)
	return nil
}

type SubtaskAddCmd struct {
	ID        string `arg:"" help:"Review id."`
	Text      string `arg:"" help:"Subtask text."`
	Recurrent bool   `short:"r" help:"Carry the subtask to later reviews of the same topic."`
}

func (c *SubtaskAddCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Planner.AddSubtask(c.ID, c.Text, c.Recurrent)
	if err != nil {
		return notFound(err, "Review "+c.ID)
	}
	fmt.Printf("✓ Added subtask %d to %s\n", len(r.Subtasks), r.Topic)
	return nil
}

type SubtaskToggleCmd struct {
	ID      string `arg:"" help:"Review id."`
	Subtask string `arg:"" help:"Subtask number (as shown by 'review show') or id."`
}

func (c *SubtaskToggleCmd) Run(ctx *cli.Context) error {
	subtaskID, err := resolveSubtask(ctx, c.ID, c.Subtask)
	if err != nil {
		return notFound(err, "Review "+c.ID)
	}
	r, err := ctx.Planner.ToggleSubtask(c.ID, subtaskID)
	if err != nil {
		return err
	}
	for _, st := range r.Subtasks {
		if st.ID == subtaskID {
			state := "pending"
			if st.Done {
				state = "done"
			}
			fmt.Printf("✓ %s is now %s\n", st.Text, state)
		}
	}
	return nil
}

type SubtaskRemoveCmd struct {
	ID      string `arg:"" help:"Review id."`
	Subtask string `arg:"" help:"Subtask number (as shown by 'review show') or id."`
}

func (c *SubtaskRemoveCmd) Run(ctx *cli.Context) error {
	subtaskID, err := resolveSubtask(ctx, c.ID, c.Subtask)
	if err != nil {
		return notFound(err, "Review "+c.ID)
	}
	if _, err := ctx.Planner.RemoveSubtask(c.ID, subtaskID); err != nil {
		return err
	}
	fmt.Println("✓ Subtask removed")
	return nil
}

// resolveSubtask accepts a 1-based position or a subtask id.
func resolveSubtask(ctx *cli.Context, reviewID, ref string) (string, error) {
	r, err := ctx.Planner.GetReview(reviewID)
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(r.Subtasks) {
			return "", fmt.Errorf("subtask %d out of range (review has %d)", n, len(r.Subtasks))
		}
		return r.Subtasks[n-1].ID, nil
	}
	for _, st := range r.Subtasks {
		if st.ID == ref {
			return st.ID, nil
		}
	}
	return "", fmt.Errorf("subtask %q not found on review %s", ref, reviewID)
}

type ReviewSubtaskCmd struct {
	Add    SubtaskAddCmd    `cmd:"" help:"Add a subtask to a review."`
	Toggle SubtaskToggleCmd `cmd:"" help:"Mark a subtask done or pending."`
	Rm     SubtaskRemoveCmd `cmd:"" help:"Remove a subtask."`
}

// ReviewCmd groups the review subcommands.
type ReviewCmd struct {
	List        ReviewListCmd        `cmd:"" default:"withargs" help:"List reviews."`
	Show        ReviewShowCmd        `cmd:"" help:"Show one review."`
	Done        ReviewDoneCmd        `cmd:"" help:"Mark a review done."`
	Reopen      ReviewReopenCmd      `cmd:"" help:"Mark a done review pending again."`
	Move        ReviewMoveCmd        `cmd:"" help:"Move a review to another day."`
	Edit        ReviewEditCmd        `cmd:"" help:"Edit topic, time, link or summary."`
	Delete      ReviewDeleteCmd      `cmd:"" help:"Delete a single review."`
	DeleteBatch ReviewDeleteBatchCmd `cmd:"" help:"Delete an acquisition card and all its reviews."`
	Subtask     ReviewSubtaskCmd     `cmd:"" help:"Manage subtasks."`
}
