package utils

import (
	"testing"
	"time"
)

func TestGetEnvAsString(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := GetEnvAsString("TEST_STRING", "fallback"); got != "value" {
		t.Errorf("GetEnvAsString() = %q, want %q", got, "value")
	}
	if got := GetEnvAsString("TEST_STRING_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnvAsString() = %q, want fallback", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := GetEnvAsInt("TEST_INT", 7); got != 42 {
		t.Errorf("GetEnvAsInt() = %d, want 42", got)
	}

	t.Setenv("TEST_INT_BAD", "not-a-number")
	if got := GetEnvAsInt("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("GetEnvAsInt() with invalid value = %d, want fallback 7", got)
	}
}

func TestGetEnvAsUint64(t *testing.T) {
	t.Setenv("TEST_UINT", "100")
	if got := GetEnvAsUint64("TEST_UINT", 5); got != 100 {
		t.Errorf("GetEnvAsUint64() = %d, want 100", got)
	}

	t.Setenv("TEST_UINT_NEGATIVE", "-1")
	if got := GetEnvAsUint64("TEST_UINT_NEGATIVE", 5); got != 5 {
		t.Errorf("GetEnvAsUint64() with negative value = %d, want fallback 5", got)
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	if got := GetEnvAsDuration("TEST_DURATION", time.Minute); got != 90*time.Second {
		t.Errorf("GetEnvAsDuration() = %v, want 90s", got)
	}
	if got := GetEnvAsDuration("TEST_DURATION_MISSING", time.Minute); got != time.Minute {
		t.Errorf("GetEnvAsDuration() = %v, want fallback 1m", got)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	if !GetEnvAsBool("TEST_BOOL", false) {
		t.Error("GetEnvAsBool() = false, want true")
	}

	t.Setenv("TEST_BOOL_BAD", "yes please")
	if GetEnvAsBool("TEST_BOOL_BAD", false) {
		t.Error("GetEnvAsBool() with invalid value should fall back to false")
	}
}
