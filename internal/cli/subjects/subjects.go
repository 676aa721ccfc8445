package subjects

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/planner"
	"github.com/julianstephens/recall/internal/storage"
)

func swatch(color string) string {
	if color == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

type SubjectAddCmd struct {
	Name  string `arg:"" help:"Subject name."`
	Color string `short:"c" help:"Display color as #RRGGBB."`
}

func (c *SubjectAddCmd) Run(ctx *cli.Context) error {
	subject, err := ctx.Planner.AddSubject(c.Name, c.Color)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return fmt.Errorf("subject %q already exists", c.Name)
	}
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added subject %s (%s)\n", subject.Name, subject.ID)
	return nil
}

type SubjectListCmd struct {
	All bool `short:"a" help:"Include archived subjects."`
}

func (c *SubjectListCmd) Run(ctx *cli.Context) error {
	subjects, err := ctx.Planner.ListSubjects(c.All)
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		fmt.Println("No subjects found.")
		return nil
	}

	reviews, err := ctx.Planner.ListReviews(planner.ReviewFilter{Status: models.StatusPending})
	if err != nil {
		return err
	}
	pending := make(map[string]int)
	for _, r := range reviews {
		pending[r.SubjectID]++
	}

	for _, s := range subjects {
		archived := ""
		if s.Archived {
			archived = "  (archived)"
		}
		fmt.Printf("%s %-24s %3d pending  %s%s\n", swatch(s.Color), s.Name, pending[s.ID], s.ID, archived)
	}
	return nil
}

type SubjectEditCmd struct {
	Subject string  `arg:"" help:"Subject name or id."`
	Name    *string `help:"New name. Existing reviews keep the old name."`
	Color   *string `short:"c" help:"New color as #RRGGBB."`
}

func (c *SubjectEditCmd) Run(ctx *cli.Context) error {
	if c.Name == nil && c.Color == nil {
		fmt.Println("No changes specified.")
		return nil
	}
	subject, err := ctx.Planner.EditSubject(c.Subject, planner.SubjectEdit{Name: c.Name, Color: c.Color})
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Printf("⊘ Subject %s not found; nothing to do.\n", c.Subject)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated subject %s\n", subject.Name)
	return nil
}

type SubjectArchiveCmd struct {
	Subject string `arg:"" help:"Subject name or id."`
}

func (c *SubjectArchiveCmd) Run(ctx *cli.Context) error {
	return setArchived(ctx, c.Subject, true)
}

type SubjectUnarchiveCmd struct {
	Subject string `arg:"" help:"Subject name or id."`
}

func (c *SubjectUnarchiveCmd) Run(ctx *cli.Context) error {
	return setArchived(ctx, c.Subject, false)
}

func setArchived(ctx *cli.Context, ref string, archived bool) error {
	subject, err := ctx.Planner.ArchiveSubject(ref, archived)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Printf("⊘ Subject %s not found; nothing to do.\n", ref)
		return nil
	}
	if err != nil {
		return err
	}
	if archived {
		fmt.Printf("✓ Archived %s\n", subject.Name)
	} else {
		fmt.Printf("✓ Restored %s\n", subject.Name)
	}
	return nil
}

type SubjectDeleteCmd struct {
	Subject string `arg:"" help:"Subject name or id."`
}

func (c *SubjectDeleteCmd) Run(ctx *cli.Context) error {
	err := ctx.Planner.DeleteSubject(c.Subject)
	switch {
	case errors.Is(err, storage.ErrSubjectInUse):
		return fmt.Errorf("%w; archive it with 'recall subject archive' instead", err)
	case errors.Is(err, storage.ErrNotFound):
		fmt.Printf("⊘ Subject %s not found; nothing to do.\n", c.Subject)
		return nil
	case err != nil:
		return err
	}
	fmt.Printf("✓ Deleted subject %s\n", c.Subject)
	return nil
}

// SubjectCmd groups the subject subcommands.
type SubjectCmd struct {
	List      SubjectListCmd      `cmd:"" default:"withargs" help:"List subjects."`
	Add       SubjectAddCmd       `cmd:"" help:"Add a subject."`
	Edit      SubjectEditCmd      `cmd:"" help:"Rename or recolor a subject."`
	Archive   SubjectArchiveCmd   `cmd:"" help:"Hide a subject from new entries."`
	Unarchive SubjectUnarchiveCmd `cmd:"" help:"Make an archived subject available again."`
	Delete    SubjectDeleteCmd    `cmd:"" help:"Delete a subject with no reviews."`
}
