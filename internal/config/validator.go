package config

import (
	"errors"
	"fmt"

	qdierrors "github.com/quickindex/qdi/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies defaults for
// unset fields. Returns an error only for values that cannot be corrected;
// a root directory that does not exist is NOT an error here - the engine
// warns and skips it at initialize time, since other roots may be usable.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if len(cfg.Roots) == 0 {
		return qdierrors.NewConfigError("roots", "", errors.New("at least one root must be configured"))
	}
	if len(cfg.Roots) > len(KnownRootKinds) {
		return qdierrors.NewConfigError("roots", fmt.Sprintf("%d", len(cfg.Roots)),
			fmt.Errorf("at most %d roots are supported", len(KnownRootKinds)))
	}

	seen := make(map[RootKind]struct{}, len(cfg.Roots))
	for i := range cfg.Roots {
		r := &cfg.Roots[i]
		if r.Path == "" {
			return qdierrors.NewConfigError("roots."+string(r.Kind), "", errors.New("root path cannot be empty"))
		}
		if _, dup := seen[r.Kind]; dup {
			return qdierrors.NewConfigError("roots", string(r.Kind), errors.New("duplicate root kind"))
		}
		seen[r.Kind] = struct{}{}
		if r.Pattern == "" {
			r.Pattern = "**/*.md"
		}
	}

	if err := v.validateCacheConfig(&cfg.Cache); err != nil {
		return qdierrors.NewConfigError("cache", "", err)
	}

	if cfg.Search.DefaultLimit <= 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Watch.DebounceMs <= 0 {
		cfg.Watch.DebounceMs = 250
	}

	return nil
}

// validateCacheConfig range-checks the cache limits
func (v *Validator) validateCacheConfig(cache *Cache) error {
	if cache.MaxEntries <= 0 {
		cache.MaxEntries = 10000
	}
	if cache.MaxFileBytes <= 0 {
		cache.MaxFileBytes = 10 * 1024 * 1024
	}

	if cache.MaxFileBytes > 100*1024*1024 {
		return fmt.Errorf("MaxFileBytes should not exceed 100MB, got %d", cache.MaxFileBytes)
	}
	if cache.MaxEntries > 1000000 {
		return fmt.Errorf("MaxEntries should not exceed 1000000, got %d", cache.MaxEntries)
	}

	return nil
}
