package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"cssr/misc"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// levelOf maps configured level name, ok is false for "none".
func levelOf(name string) (zapcore.Level, bool) {
	switch name {
	case "debug":
		return zapcore.DebugLevel, true
	case "normal":
		return zapcore.InfoLevel, true
	}
	return zapcore.InvalidLevel, false
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if EnableColorOutput(os.Stderr) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	}
	return ec
}

// consoleCore writes to stderr, stdout carries results. Errors are printed
// without verbose error chains.
func consoleCore(level string) zapcore.Core {
	lowest, ok := levelOf(level)
	if !ok {
		return zapcore.NewNopCore()
	}

	ec := consoleEncoderConfig()
	out := zapcore.Lock(os.Stderr)
	return zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(ec), out, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lowest <= lvl && lvl < zapcore.ErrorLevel
		})),
		zapcore.NewCore(terseEncoder{zapcore.NewConsoleEncoder(ec)}, out, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel
		})),
	)
}

func openLogFile(name, mode string) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if mode == "append" {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	return os.OpenFile(name, flags, 0644)
}

// capturePanics sends crash output to panic log next to log file (or to
// temporary directory) and registers it with report.
func capturePanics(dir, mode string, rpt *Report) {
	f, err := openLogFile(filepath.Join(dir, misc.GetAppName()+"-panic.log"), mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-panic.*.log"); err != nil {
			return
		}
	}
	defer f.Close()
	if err := debug.SetCrashOutput(f, debug.CrashOptions{}); err == nil {
		rpt.Store("panic.log", f.Name())
	}
}

// fileCore returns core writing to configured log file. When destination is
// not accessible log goes to temporary file and its name is returned.
func (conf *LoggingConfig) fileCore(rpt *Report) (core zapcore.Core, redirected string, err error) {
	level, mode := conf.FileLogger.Level, conf.FileLogger.Mode
	if rpt != nil {
		// debug report wants everything
		level, mode = "debug", "overwrite"
	}
	lvl, ok := levelOf(level)
	if !ok {
		return zapcore.NewNopCore(), "", nil
	}

	capturePanics(filepath.Dir(conf.FileLogger.Destination), mode, rpt)

	f, err := openLogFile(conf.FileLogger.Destination, mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+".*.log"); err != nil {
			return nil, "", fmt.Errorf("unable to access file log destination (%s): %w", conf.FileLogger.Destination, err)
		}
		redirected = f.Name()
	}
	rpt.Store("final.log", f.Name())
	return zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(f), lvl), redirected, nil
}

// Prepare builds program logger: console and optional file output.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, error) {
	file, redirected, err := conf.fileCore(rpt)
	if err != nil {
		return nil, err
	}

	log := zap.New(zapcore.NewTee(consoleCore(conf.ConsoleLogger.Level), file), zap.AddCaller()).Named(misc.GetAppName())
	if len(redirected) != 0 {
		log.Warn("Log file was redirected to new location", zap.String("location", redirected))
	}
	return log, nil
}

// terseEncoder drops wrapped and multierr chains ("errorVerbose") from
// console output.
type terseEncoder struct {
	zapcore.Encoder
}

func (e terseEncoder) Clone() zapcore.Encoder {
	return terseEncoder{e.Encoder.Clone()}
}

func (e terseEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	short := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		if f.Type == zapcore.ErrorType {
			f.Interface = errors.New(f.Interface.(error).Error())
		}
		short[i] = f
	}
	return e.Encoder.EncodeEntry(ent, short)
}
