// Package state holds program environment shared by commands. It travels in
// context.Context from cli hooks to command actions.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"cssr/config"
)

type envKey struct{}

// LocalEnv is everything commands need: configuration, debug report, logger
// and processing options (configuration values with command line overrides
// applied).
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	Pipeline       config.Pipeline
	Format         config.InputFormat
	Overwrite      bool
	Repack         bool
	ForceImportant bool
	SkipInvalid    bool
	// nil means sources are UTF-8 (or declare their charset)
	CodePage encoding.Encoding

	start      time.Time
	undoStdLog func()
}

// ContextWithEnv returns ctx carrying fresh environment.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

// EnvFromContext panics when ctx was not prepared by ContextWithEnv, which
// is a programming error.
func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("program environment is missing from context")
	}
	return env
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends output of standard library logger to our logger.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log != nil {
		e.undoStdLog = zap.RedirectStdLog(e.Log)
	}
}

// RestoreStdLog flushes logger and undoes RedirectStdLog.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.undoStdLog != nil {
		e.undoStdLog()
		e.undoStdLog = nil
	}
}
