package storage

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"
)

// badgerLogger forwards badger's printf-style logging to a logr.Logger.
// Badger is chatty at info level, so info and debug go to V(1) and V(2).
type badgerLogger struct {
	log logr.Logger
}

var _ badger.Logger = badgerLogger{}

func newBadgerLogger(log logr.Logger) badgerLogger {
	return badgerLogger{log: log.WithName("badger")}
}

func msg(format string, args ...any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error(nil, msg(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Info(msg(format, args...), "level", "warning")
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.V(1).Info(msg(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.V(2).Info(msg(format, args...))
}
