// Package notifier posts study reminders to the recall-tray companion.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/planner"
)

var (
	ErrTrayNotRunning = errors.New("recall-tray is not running")
	ErrNothingDue     = errors.New("no reviews due today")
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Lockfile is the "port|pid|secret" record the tray writes on startup.
type Lockfile struct {
	Port   int
	PID    int
	Secret string
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

type Notifier struct {
	client     *http.Client
	host       string
	durationMs uint32
	retries    int
	retryDelay time.Duration
}

func New() *Notifier {
	return &Notifier{
		client:     &http.Client{Timeout: 5 * time.Second},
		host:       "127.0.0.1",
		durationMs: constants.NotificationDurationMs,
		retries:    constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
}

// Notify delivers text to the running tray.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	lock, err := ReadLockfile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	if err := verifyTrayProcess(lock.PID); err != nil {
		return err
	}
	return n.send(ctx, lock, WebhookPayload{Text: text, DurationMs: n.durationMs})
}

// RemindDue sends the reminder for b. It returns ErrNothingDue without
// contacting the tray when nothing is pending for today.
func (n *Notifier) RemindDue(ctx context.Context, b planner.Board) error {
	text := ReminderText(b)
	if text == "" {
		return ErrNothingDue
	}
	return n.Notify(ctx, text)
}

// ReminderText summarizes today's pending work, or "" when there is none.
func ReminderText(b planner.Board) string {
	due := len(b.DueToday)
	overdue := len(b.Overdue)
	if due == 0 && overdue == 0 {
		return ""
	}

	minutes := b.TodayLoad
	for _, r := range b.Overdue {
		minutes += r.TimeMin
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s due today", due, plural(due, "review", "reviews"))
	if overdue > 0 {
		fmt.Fprintf(&sb, ", %d overdue", overdue)
	}
	fmt.Fprintf(&sb, " (%d min)", minutes)
	if b.Capacity > 0 && b.TodayLoad > b.Capacity {
		fmt.Fprintf(&sb, ", %d min over capacity", b.TodayLoad-b.Capacity)
	}
	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// GetTrayAppConfigDir returns the directory holding the tray lockfile. The
// tray's settings.json may override it with lockfile_dir.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		logger.Debug("Ignoring unreadable tray settings", "error", err)
		return trayConfigDir, nil
	}
	if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
		return *dir, nil
	}
	return trayConfigDir, nil
}

// ReadLockfile parses the tray lockfile at path.
func ReadLockfile(path string) (Lockfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Lockfile{}, ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Lockfile{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Lockfile{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return Lockfile{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Lockfile{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return Lockfile{}, errors.New("secret in lockfile is empty")
	}
	return Lockfile{Port: port, PID: pid, Secret: secret}, nil
}

// verifyTrayProcess guards against a stale lockfile whose pid was reused.
func verifyTrayProcess(pid int) error {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayAppExecutable) {
		return fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayAppExecutable, process.Executable())
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, lock Lockfile, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("http://%s:%d", n.host, lock.Port)

	var lastErr error
	for attempt := 1; attempt <= n.retries; attempt++ {
		retry, err := n.post(ctx, url, lock.Secret, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			break
		}
		logger.Debug("Notification attempt failed", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.retryDelay):
		}
	}
	return lastErr
}

// post reports whether a failure is worth retrying.
func (n *Notifier) post(ctx context.Context, url, secret string, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Recall-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return true, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return false, nil
	}
	msg, _ := io.ReadAll(res.Body)
	return res.StatusCode >= 500, fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
