package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv overrides the configured log level when set.
const LevelEnv = "DOORSCENE_LOG_LEVEL"

// Log is the process-wide logger. It is a no-op logger until Init is called,
// so packages can log safely from tests.
var Log = zap.NewNop()

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Init builds the process logger at the level named by DOORSCENE_LOG_LEVEL,
// falling back to info when it is unset or unknown.
func Init() {
	if err := InitLevel(""); err != nil {
		_ = build("info")
	}
}

// InitLevel builds the process logger at the given level ("debug", "info",
// "warn", "error"). The environment override wins over the argument.
func InitLevel(name string) error {
	if env := os.Getenv(LevelEnv); env != "" {
		name = env
	}
	if name == "" {
		name = "info"
	}
	return build(name)
}

func build(name string) error {
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// SetLevel changes the level of an already initialised logger.
func SetLevel(name string) error {
	return level.UnmarshalText([]byte(name))
}
