// Package config loads service settings with a fail-open policy: a malformed
// or invalid environment value falls back to its default and yields a
// warning instead of an error, so a bad setting never keeps the worker down.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of loading one setting.
type Result[T any] struct {
	Value T
	// Warning describes why the default was used. Empty unless FallbackApplied.
	Warning         string
	FallbackApplied bool
}

// LoadEnv reads envKey, parses it and validates it. An unset or blank
// variable yields the default without a warning. A parse or validation
// failure yields the default with a warning.
// validate may be nil.
func LoadEnv[T any](envKey string, defaultValue T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return Result[T]{Value: defaultValue}
	}

	value, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(value)
	}
	if err != nil {
		return Result[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", envKey, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: value}
}

// LoadEnvString loads a string setting.
func LoadEnvString(envKey, defaultValue string, validate func(string) error) Result[string] {
	return LoadEnv(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validate)
}

// LoadEnvInt loads an integer setting.
func LoadEnvInt(envKey string, defaultValue int, validate func(int) error) Result[int] {
	return LoadEnv(envKey, defaultValue, strconv.Atoi, validate)
}

// LoadEnvDuration loads a Go duration string such as "30s" or "1h30m".
func LoadEnvDuration(envKey string, defaultValue time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return LoadEnv(envKey, defaultValue, time.ParseDuration, validate)
}

// LoadEnvBool loads a boolean accepted by strconv.ParseBool.
func LoadEnvBool(envKey string, defaultValue bool) Result[bool] {
	return LoadEnv(envKey, defaultValue, strconv.ParseBool, nil)
}
