package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/cli/backups"
	"github.com/julianstephens/recall/internal/cli/cycles"
	"github.com/julianstephens/recall/internal/cli/export"
	"github.com/julianstephens/recall/internal/cli/optimize"
	"github.com/julianstephens/recall/internal/cli/reviews"
	"github.com/julianstephens/recall/internal/cli/settings"
	"github.com/julianstephens/recall/internal/cli/study"
	"github.com/julianstephens/recall/internal/cli/subjects"
	"github.com/julianstephens/recall/internal/cli/system"
	"github.com/julianstephens/recall/internal/config"
	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/errors"
	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/planner"
)

var CLI struct {
	Version kong.VersionFlag
	Store   string `help:"Store location: a SQLite file, a .json file or a PostgreSQL URL. For PostgreSQL, credentials must NOT be embedded in the URL. Use the RECALL_DB_CONNECTION environment variable, .pgpass or the OS keyring instead." type:"string"`
	Config  string `help:"Path to config.toml." type:"string"`
	Verbose bool   `short:"v" help:"Log debug output to stderr."`

	Init       system.InitCmd       `cmd:"" help:"Initialize recall storage."`
	Migrate    system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor     system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui        system.TuiCmd        `cmd:"" help:"Launch the interactive board." default:"1"`
	Log        study.LogCmd         `cmd:"" help:"Log a study session and project its reviews."`
	Today      study.TodayCmd       `cmd:"" help:"Show overdue, due and done reviews for today."`
	Reschedule study.RescheduleCmd  `cmd:"" help:"Shift overdue reviews forward, keeping their spacing."`
	Review     reviews.ReviewCmd    `cmd:"" help:"Manage reviews."`
	Subject    subjects.SubjectCmd  `cmd:"" help:"Manage subjects."`
	Cycle      cycles.CycleCmd      `cmd:"" help:"Manage study cycles."`
	Export     export.ExportCmd     `cmd:"" help:"Export pending reviews to an iCalendar file."`
	Optimize   optimize.OptimizeCmd `cmd:"" help:"Suggest ways to even out the review load."`
	Validate   system.ValidateCmd   `cmd:"" help:"Check the store for scheduling conflicts."`
	Debug      system.DebugCmd      `cmd:"" help:"Debug commands for troubleshooting."`
	Backup     struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Show or change scheduling settings."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Cfg      system.ConfigCmd     `cmd:"" name:"config" help:"Show or initialize config.toml."`
	Remind   system.NotifyCmd     `cmd:"" hidden:"" help:"Send today's due-review reminder to recall-tray (used internally)."`
}

// commands that manage the store themselves or never touch it.
var noLoad = []string{"init", "migrate", "doctor", "keyring", "config"}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Spaced-repetition study planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configPath := CLI.Config
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			errors.Fatal(err)
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Verbose || cfg.Log.Debug,
		ConfigDir: filepath.Dir(configPath),
		Level:     cfg.Log.Level,
		JSON:      cfg.Log.JSON,
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()

	storePath := CLI.Store
	if storePath == "" {
		storePath = cfg.Storage.Path
	}
	store, err := cli.OpenStore(storePath)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		ConfigPath: configPath,
	}
	var opts []planner.Option
	if mgr := appCtx.Backups(); mgr != nil {
		opts = append(opts, planner.WithBackups(mgr))
	}
	appCtx.Planner = planner.New(store, opts...)

	if needsStore(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
		if restored, err := appCtx.Planner.ReconcileLoans(); err != nil {
			logger.Warn("failed to return expired loans", "error", err)
		} else if len(restored) > 0 {
			logger.Info("returned expired loans at startup", "count", len(restored))
		}
	}

	errors.Fatal(ctx.Run(appCtx))
}

func needsStore(command string) bool {
	name, _, _ := strings.Cut(command, " ")
	for _, n := range noLoad {
		if name == n {
			return false
		}
	}
	return true
}
