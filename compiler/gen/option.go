package gen

import (
	"runtime"
	"time"

	"github.com/google/uuid"
)

// Default attribution metadata stamped into artifact headers when the run
// supplies none.
const (
	DefaultAuthor  = "sqlforge"
	DefaultLicense = "unlicensed"
)

// Config carries the shared run metadata and execution settings. It is fixed
// at pipeline construction; generators never mutate it, which keeps them
// safe to run concurrently across tables.
type Config struct {
	// Author and License are stamped into every artifact header.
	Author  string
	License string
	// Workers bounds the number of tables generated concurrently.
	Workers int
	// RunID identifies one generation run in every artifact header.
	RunID uuid.UUID
	// Now supplies the header timestamp. Overridable for reproducible output.
	Now func() time.Time
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Author:  DefaultAuthor,
		License: DefaultLicense,
		Workers: runtime.GOMAXPROCS(0),
		RunID:   uuid.New(),
		Now:     time.Now,
	}
}

// Option configures script generation.
type Option func(*Config) error

// WithAuthor sets the author stamped into artifact headers.
func WithAuthor(author string) Option {
	return func(c *Config) error {
		if author != "" {
			c.Author = author
		}
		return nil
	}
}

// WithLicense sets the license stamped into artifact headers.
func WithLicense(license string) Option {
	return func(c *Config) error {
		if license != "" {
			c.License = license
		}
		return nil
	}
}

// WithWorkers sets the number of tables generated concurrently.
// Use 1 for strictly sequential generation.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "must be at least 1")
		}
		c.Workers = n
		return nil
	}
}

// WithRunID pins the generation run identifier, normally random.
func WithRunID(id uuid.UUID) Option {
	return func(c *Config) error {
		c.RunID = id
		return nil
	}
}

// WithClock pins the header timestamp source. Tests use it to make artifact
// headers byte-stable.
func WithClock(now func() time.Time) Option {
	return func(c *Config) error {
		if now == nil {
			return NewConfigError("Clock", nil, "clock function cannot be nil")
		}
		c.Now = now
		return nil
	}
}
