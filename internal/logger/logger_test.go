package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func restore(t *testing.T) {
	t.Helper()
	prev, prevLevel := Log, level.Level()
	t.Cleanup(func() {
		Log = prev
		level.SetLevel(prevLevel)
	})
}

func TestInitFallsBackOnUnknownEnvLevel(t *testing.T) {
	restore(t)
	t.Setenv(LevelEnv, "verbose")
	Log = zap.NewNop()

	Init()

	if !Log.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be enabled after falling back")
	}
	if Log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should stay disabled at info level")
	}
}

func TestInitLevelRejectsUnknownLevel(t *testing.T) {
	restore(t)
	t.Setenv(LevelEnv, "")

	if err := InitLevel("loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestInitLevelEnvOverridesArgument(t *testing.T) {
	restore(t)
	t.Setenv(LevelEnv, "debug")

	if err := InitLevel("error"); err != nil {
		t.Fatal(err)
	}
	if !Log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("environment level should win over the argument")
	}
}
