// Package log wraps log/slog behind the small Infoln/Warnln/Errorln
// surface internal/index/indexer.go's teacher code was already
// calling (github.com/sourcegraph/lsif-semanticdb/internal/log,
// retrieved only by reference, not included in the example pack). No
// example repo in the pack imports a third-party logging library —
// log/slog is the standard-library answer and this package exists
// only to give it the call-site shape the rest of the codebase
// expects, not to avoid a real dependency.
package log

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// sessionID correlates every log line emitted by one process
// invocation, the same role a request id plays in a server — useful
// here because a CLI run indexes many translation units concurrently
// and their log lines interleave.
var sessionID = uuid.New().String()

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil)).With("session", sessionID)

// SetOutput redirects subsequent log lines to w instead of stderr.
func SetOutput(w *os.File) {
	logger = slog.New(slog.NewTextHandler(w, nil)).With("session", sessionID)
}

func Infoln(args ...any) {
	logger.Info(sprintArgs(args))
}

func Warnln(args ...any) {
	logger.Warn(sprintArgs(args))
}

func Errorln(args ...any) {
	logger.Error(sprintArgs(args))
}

func Infof(format string, args ...any) {
	logger.Info(sprintfArgs(format, args))
}

func sprintArgs(args []any) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	return fmt.Sprint(args...)
}

func sprintfArgs(format string, args []any) string {
	return fmt.Sprintf(format, args...)
}
