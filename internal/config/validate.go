package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mvp-joe/codefold/internal/logging"
)

// MaxTabWidth bounds render.tab_width.
const MaxTabWidth = 16

var (
	// ErrInvalidTabWidth indicates a tab width outside 1..MaxTabWidth
	ErrInvalidTabWidth = errors.New("invalid tab width")

	// ErrInvalidBackend indicates an unsupported parse backend
	ErrInvalidBackend = errors.New("invalid parse backend")

	// ErrEmptyEndpoint indicates a remote backend without an endpoint
	ErrEmptyEndpoint = errors.New("empty backend endpoint")

	// ErrInvalidTimeout indicates a negative backend timeout
	ErrInvalidTimeout = errors.New("invalid backend timeout")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrInvalidDebounce indicates a non-positive watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidJobs indicates a non-positive worker count
	ErrInvalidJobs = errors.New("invalid jobs")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Render.TabWidth < 1 || cfg.Render.TabWidth > MaxTabWidth {
		errs = append(errs, fmt.Errorf("%w: tab_width must be between 1 and %d, got %d", ErrInvalidTabWidth, MaxTabWidth, cfg.Render.TabWidth))
	}

	if err := validateBackend(&cfg.Backend); err != nil {
		errs = append(errs, err)
	}

	if err := validateCache(&cfg.Cache); err != nil {
		errs = append(errs, err)
	}

	if cfg.Watch.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("%w: debounce must be positive, got %s", ErrInvalidDebounce, cfg.Watch.Debounce))
	}

	if !logging.ValidLevel(cfg.Log.Level) {
		errs = append(errs, fmt.Errorf("%w: must be debug, info, warn or error, got '%s'", ErrInvalidLogLevel, cfg.Log.Level))
	}

	if cfg.Jobs < 1 {
		errs = append(errs, fmt.Errorf("%w: jobs must be positive, got %d", ErrInvalidJobs, cfg.Jobs))
	}

	return joinErrors(errs)
}

func validateBackend(cfg *BackendConfig) error {
	var errs []error

	switch strings.ToLower(cfg.Kind) {
	case BackendLocal:
	case BackendRemote:
		if strings.TrimSpace(cfg.Endpoint) == "" {
			errs = append(errs, fmt.Errorf("%w: endpoint is required for the remote backend", ErrEmptyEndpoint))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'local' or 'remote', got '%s'", ErrInvalidBackend, cfg.Kind))
	}

	// Zero disables the deadline.
	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: timeout cannot be negative, got %s", ErrInvalidTimeout, cfg.Timeout))
	}

	return joinErrors(errs)
}

func validateCache(cfg *CacheConfig) error {
	var errs []error

	// Zero max_entries disables caching.
	if cfg.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("%w: max_entries cannot be negative, got %d", ErrInvalidCacheSettings, cfg.MaxEntries))
	}

	if cfg.TTL < 0 {
		errs = append(errs, fmt.Errorf("%w: ttl cannot be negative, got %s", ErrInvalidCacheSettings, cfg.TTL))
	}

	return joinErrors(errs)
}

// validationErrors formats several failures as one message while keeping
// each of them reachable through errors.Is.
type validationErrors []error

func (e validationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return "validation failed:\n  - " + strings.Join(msgs, "\n  - ")
}

func (e validationErrors) Unwrap() []error { return e }

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}

	// Flatten nested groups so the message has one bullet per failure.
	var flat validationErrors
	for _, err := range errs {
		var group validationErrors
		if errors.As(err, &group) {
			flat = append(flat, group...)
			continue
		}
		flat = append(flat, err)
	}
	return flat
}
