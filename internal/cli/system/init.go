package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/storage"
	"github.com/julianstephens/recall/internal/utils"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing store before initialization."`
	Source string `help:"Store path or connection string to copy subjects, reviews and settings from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	storePath := ctx.Store.GetConfigPath()
	isFile := !utils.IsPostgresConnString(storePath)

	if c.Force {
		if !isFile {
			return errors.New("--force only supports file stores; drop the PostgreSQL schema manually")
		}
		if c.Source != "" && samePath(storePath, c.Source) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", storePath)
		}
		if _, err := os.Stat(storePath); err == nil {
			// Close first so SQLite releases its file handle.
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(storePath); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			fmt.Printf("Deleted existing store at: %s\n", storePath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		if errors.Is(err, storage.ErrAlreadyInitialized) {
			fmt.Printf("Store already initialized at: %s\n", storePath)
			return nil
		}
		return err
	}
	fmt.Printf("Initialized recall storage at: %s\n", storePath)

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (c *InitCmd) copyData(ctx *cli.Context) error {
	src, err := cli.OpenStore(c.Source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	stats, err := ctx.Planner.CopyFrom(src)
	if err != nil {
		return err
	}
	fmt.Printf("  Copied %d subjects and %d reviews\n", stats.Subjects, stats.Reviews)
	fmt.Println("Migration completed successfully!")
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
