// FILE: env.go
// Package main – Environment helpers for the backtest CLI, carried over
// from the teacher's env.go: small getEnv* helpers with sane defaults, no
// external dependency. The teacher's dependency-free .env loader applies
// to a live trading bot's secrets (API keys, bridge URLs); a replay run
// has no secrets to hide from the shell, so flags are preferred here and
// getEnv* only covers the knobs that make sense to default from the
// environment (e.g. in CI).
package main

import (
	"os"
	"strconv"
	"strings"
)

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "y", "yes":
		return true
	case "0", "false", "n", "no":
		return false
	default:
		return def
	}
}
