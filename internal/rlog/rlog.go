// Package rlog is the structured-logging entry point shared by every
// synctree package. It wraps a single package-level logrus.Logger the way
// the teacher's cmd/repl wired up its own rlog package at startup, but with
// structured fields instead of plain text.
package rlog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Options configures the package-level logger. Zero value is sensible:
// text formatter, info level, stderr.
type Options struct {
	Level  logrus.Level
	JSON   bool
	Output io.Writer
}

// Init (re)configures the shared logger. Safe to call more than once; the
// last call wins. Hosts embedding synctree call this once at startup,
// mirroring rlog.Init in the teacher's cmd/repl/main.go.
func Init(opts Options) {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	log.SetOutput(opts.Output)
	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if opts.Level == 0 {
		opts.Level = logrus.InfoLevel
	}
	log.SetLevel(opts.Level)
}

// For returns an entry with the given structured fields attached, the unit
// of logging used in editmgr.
func For(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

// L returns the shared logger directly, for call sites with no fields to
// attach.
func L() *logrus.Logger {
	return log
}
