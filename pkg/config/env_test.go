package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("FOO", "")
	if got := GetEnv("FOO", "bar"); got != "bar" {
		t.Fatalf("expected bar, got %s", got)
	}
	t.Setenv("FOO", "baz")
	if got := GetEnv("FOO", "bar"); got != "baz" {
		t.Fatalf("expected baz, got %s", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("NUM", "")
	if got := GetEnvInt("NUM", 42); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	t.Setenv("NUM", "100")
	if got := GetEnvInt("NUM", 42); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	t.Setenv("NUM", "notint")
	if got := GetEnvInt("NUM", 7); got != 7 {
		t.Fatalf("expected 7 on parse error, got %d", got)
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("PCT", "")
	if got := GetEnvFloat("PCT", 15); got != 15 {
		t.Fatalf("expected 15, got %v", got)
	}
	t.Setenv("PCT", "12.5")
	if got := GetEnvFloat("PCT", 15); got != 12.5 {
		t.Fatalf("expected 12.5, got %v", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("DUR", "")
	if got := GetEnvDuration("DUR", 90*time.Second); got != 90*time.Second {
		t.Fatalf("expected default, got %v", got)
	}
	t.Setenv("DUR", "1h")
	if got := GetEnvDuration("DUR", 90*time.Second); got != time.Hour {
		t.Fatalf("expected 1h, got %v", got)
	}
	t.Setenv("DUR", "120")
	if got := GetEnvDuration("DUR", 90*time.Second); got != 120*time.Second {
		t.Fatalf("expected bare seconds, got %v", got)
	}
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	if GetLogLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level")
	}
	t.Setenv("LOG_LEVEL", "")
	if GetLogLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level by default")
	}
}

func TestLoadEnv_NoFile(t *testing.T) {
	logger := logrus.New()
	LoadEnv(logger)
}
