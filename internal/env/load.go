// Package env reads process configuration from environment variables,
// optionally seeded from a .env file.
package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the working directory when there is one.
// It reports whether a file was found; variables already set win.
func LoadEnv() bool {
	return godotenv.Load() == nil
}

// MissingError reports required variables that are not set.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("environment variable(s) not set: %s", strings.Join(e.Keys, ", "))
}

// reader collects lookups and the first problem with each variable so a
// misconfigured process reports everything at once.
type reader struct {
	missing []string
	errs    []error
}

func (r *reader) required(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		r.missing = append(r.missing, key)
	}
	return val
}

func (r *reader) optional(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (r *reader) flag(key string) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return false
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
	}
	return b
}

func (r *reader) list(key, def string) []string {
	var out []string
	for _, item := range strings.Split(r.optional(key, def), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (r *reader) err() error {
	errs := r.errs
	if len(r.missing) > 0 {
		errs = append([]error{&MissingError{Keys: r.missing}}, errs...)
	}
	return errors.Join(errs...)
}
