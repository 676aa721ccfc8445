// Package errors formats command failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/recall/internal/calendar"
	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/scheduler"
	"github.com/julianstephens/recall/internal/storage"
)

// Exit codes returned by Fatal.
const (
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
)

type hint struct {
	target error
	text   string
	code   int
}

var hints = []hint{
	{storage.ErrNotInitialized, "run 'recall init' to create the store", ExitFailure},
	{storage.ErrNotFound, "check the id with 'recall review list'", ExitNotFound},
	{storage.ErrSubjectInUse, "archive the subject instead, or delete its reviews first", ExitFailure},
	{scheduler.ErrSessionTooLong, "split the session, pendular study is capped at 60 minutes", ExitUsage},
	{scheduler.ErrInvalidEntry, "a study entry needs a subject, a topic and a positive duration", ExitUsage},
	{scheduler.ErrInvalidTarget, "dates use the YYYY-MM-DD format", ExitUsage},
	{scheduler.ErrPendingSubtasks, "finish or remove the pending subtasks first", ExitFailure},
	{scheduler.ErrUnknownRepairMode, "valid modes are 'append' and 'chronological'", ExitUsage},
	{scheduler.ErrReviewNotFound, "check the id with 'recall review list'", ExitNotFound},
	{calendar.ErrMissingRange, "pass --from and --to", ExitUsage},
	{calendar.ErrNothingToExport, "widen the range or log some study first", ExitFailure},
}

// Hint returns a suggestion for a known failure, or "" if none applies.
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.text
		}
	}
	return ""
}

// ExitCode maps err onto a process exit code.
func ExitCode(err error) int {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.code
		}
	}
	return ExitFailure
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Describe is Format followed by the hint line, when one exists.
func Describe(err error) string {
	msg := Format(err)
	if h := Hint(err); h != "" {
		msg += "\nHint: " + h
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err, prints it with its hint and exits with the mapped code.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Describe(err))
		os.Exit(ExitCode(err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(ExitFailure)
}
