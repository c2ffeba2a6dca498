package main

import (
	"testing"
)

func TestParseFlagsDefaultsLeaveOverridesUnset(t *testing.T) {
	overrides, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}

	if overrides.Port != nil || overrides.BinCapacity != nil || overrides.MaxItems != nil || overrides.LogLevel != nil {
		t.Fatalf("expected no overrides, got %+v", overrides)
	}
	if overrides.RateLimitRPS != nil || overrides.RateLimitBurst != nil {
		t.Fatalf("expected rate limit overrides to be unset")
	}
}

func TestParseFlagsAppliesValues(t *testing.T) {
	overrides, err := parseFlags([]string{
		"--config", "service.yaml",
		"--port", "9000",
		"--capacity", "25",
		"--max-items", "500",
		"--log-level", "debug",
		"--rate-limit-rps", "0",
		"--rate-limit-burst", "5",
	})
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}

	if overrides.ConfigFile != "service.yaml" {
		t.Fatalf("unexpected config file %q", overrides.ConfigFile)
	}
	if overrides.Port == nil || *overrides.Port != "9000" {
		t.Fatalf("expected port override")
	}
	if overrides.BinCapacity == nil || *overrides.BinCapacity != 25 {
		t.Fatalf("expected capacity override")
	}
	if overrides.MaxItems == nil || *overrides.MaxItems != 500 {
		t.Fatalf("expected max items override")
	}
	if overrides.LogLevel == nil || *overrides.LogLevel != "debug" {
		t.Fatalf("expected log level override")
	}
	if overrides.RateLimitRPS == nil || *overrides.RateLimitRPS != 0 {
		t.Fatalf("expected rate limit to be disabled explicitly")
	}
	if overrides.RateLimitBurst == nil || *overrides.RateLimitBurst != 5 {
		t.Fatalf("expected burst override")
	}
}

func TestParseFlagsRejectsUnknownFlag(t *testing.T) {
	if _, err := parseFlags([]string{"--bogus"}); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}
