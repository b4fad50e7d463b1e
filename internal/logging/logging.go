// Package logging builds the zap logger used by the CLI. The TUI owns the
// terminal, so logs normally go to a file under the XDG state directory.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel overrides the default level when no flag is given.
const EnvLevel = "DISKLAYERS_LOG_LEVEL"

// Config selects level and destination. File "-" means stderr; an empty
// File means DefaultFile().
type Config struct {
	Level string
	File  string
}

// DefaultFile is $XDG_STATE_HOME/disklayers/disklayers.log.
func DefaultFile() string {
	return filepath.Join(xdg.StateHome, "disklayers", "disklayers.log")
}

// New builds a logger for cfg.
func New(cfg Config) (*zap.Logger, error) {
	level := cfg.Level
	if level == "" {
		level = os.Getenv(EnvLevel)
	}
	if level == "" {
		level = "info"
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	out := cfg.File
	if out == "" {
		out = DefaultFile()
	}
	if out == "-" {
		out = "stderr"
	} else if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return nil, errors.Wrap(err, "create log dir")
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{out}
	zc.DisableStacktrace = true
	zc.Sampling = nil
	return zc.Build()
}
