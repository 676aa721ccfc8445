package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/keyring"
	"github.com/julianstephens/recall/internal/planner"
	"github.com/julianstephens/recall/internal/storage"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show the store location."`
	DumpReview   *DebugDumpReviewCmd   `cmd:"" help:"Dump a review as JSON."`
	DumpBatch    *DebugDumpBatchCmd    `cmd:"" help:"Dump every review of a batch as JSON."`
	DumpDay      *DebugDumpDayCmd      `cmd:"" help:"Dump the reviews scheduled on a day as JSON."`
	DumpSubject  *DebugDumpSubjectCmd  `cmd:"" help:"Dump a subject as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
	DumpConfig   *DebugDumpConfigCmd   `cmd:"" help:"Dump the effective config.toml values as JSON."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	// Output in machine-readable format
	return printJSON(map[string]string{
		"path":    keyring.MaskPassword(ctx.Store.GetConfigPath()),
		"backend": fmt.Sprintf("%T", ctx.Store),
	})
}

type DebugDumpReviewCmd struct {
	ID string `arg:"" help:"ID of the review to dump."`
}

func (cmd *DebugDumpReviewCmd) Run(ctx *cli.Context) error {
	review, err := ctx.Store.GetReview(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("review not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get review: %w", err)
	}
	return printJSON(review)
}

type DebugDumpBatchCmd struct {
	BatchID string `arg:"" help:"Batch ID shared by an acquisition card and its reviews."`
}

func (cmd *DebugDumpBatchCmd) Run(ctx *cli.Context) error {
	reviews, err := ctx.Store.GetReviewsByBatch(cmd.BatchID)
	if err != nil {
		return fmt.Errorf("failed to get batch: %w", err)
	}
	if len(reviews) == 0 {
		return fmt.Errorf("batch not found: %s", cmd.BatchID)
	}
	return printJSON(reviews)
}

type DebugDumpDayCmd struct {
	Date string `arg:"" help:"Day to dump (YYYY-MM-DD, 'today' or +N)." default:"today"`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Planner.Today()
	if err != nil {
		return err
	}
	date, err := cli.ResolveDate(cmd.Date, today)
	if err != nil {
		return err
	}
	reviews, err := ctx.Planner.ListReviews(planner.ReviewFilter{From: date, To: date})
	if err != nil {
		return fmt.Errorf("failed to list reviews: %w", err)
	}
	return printJSON(map[string]any{
		"date":    date,
		"reviews": reviews,
	})
}

type DebugDumpSubjectCmd struct {
	Ref string `arg:"" help:"Subject ID or name."`
}

func (cmd *DebugDumpSubjectCmd) Run(ctx *cli.Context) error {
	subject, err := ctx.Planner.FindSubject(cmd.Ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("subject not found: %s", cmd.Ref)
		}
		return fmt.Errorf("failed to get subject: %w", err)
	}
	return printJSON(subject)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}

type DebugDumpConfigCmd struct{}

func (cmd *DebugDumpConfigCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx.Config)
}
