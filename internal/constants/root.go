package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName             = "recall"
	DefaultKeyringUser  = "database-connection"
	DefaultConfigPath   = "~/.config/recall/recall.db"
	DefaultAppConfigDir = "~/.config/recall"
	AppConfigFileName   = "config.toml"
	ConnectionEnvVar    = "RECALL_DB_CONNECTION"
	Version             = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "recall-"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "recall-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.recall"
	TrayAppExecutable      = "recall-tray"
)

// Session States
const (
	StateBoard SessionState = iota
	StateMoveInput
	StateConfirmMove
	StateLogStudy
	StateConfirmReschedule
)
