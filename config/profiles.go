package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kibblescan/sitecache/eviction"
	"github.com/kibblescan/sitecache/namedcache"
)

// Profile is one cache role as written in YAML.
type Profile struct {
	MaxAge  string `yaml:"max_age" validate:"required"`
	MaxSize *int   `yaml:"max_size" validate:"required,gte=0"`
	Policy  string `yaml:"policy" validate:"required"`
}

type profilesDocument struct {
	Caches map[string]Profile `yaml:"caches" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadProfiles reads and parses a cache profiles file.
func LoadProfiles(path string) (map[string]namedcache.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadingProfiles, err)
	}
	return ParseProfiles(data)
}

/*
ParseProfiles turns a YAML document into cache configurations:

	caches:
	  api:
	    max_age: 5m
	    max_size: 100
	    policy: LRU

Durations use time.ParseDuration syntax. Policies are matched
case-insensitively; anything else is rejected.
*/
func ParseProfiles(data []byte) (map[string]namedcache.Config, error) {
	var doc profilesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidProfiles, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, errors.Join(ErrInvalidProfiles, err)
	}

	out := make(map[string]namedcache.Config, len(doc.Caches))
	for name, p := range doc.Caches {
		if name == "" {
			return nil, fmt.Errorf("%w: empty cache name", ErrInvalidProfiles)
		}

		maxAge, err := time.ParseDuration(p.MaxAge)
		if err != nil {
			return nil, fmt.Errorf("%w: cache %q: max_age: %v", ErrInvalidProfiles, name, err)
		}
		policy, err := eviction.ParsePolicy(p.Policy)
		if err != nil {
			return nil, fmt.Errorf("%w: cache %q: %v", ErrInvalidProfiles, name, err)
		}

		cfg := namedcache.Config{MaxAge: maxAge, MaxSize: *p.MaxSize, Policy: policy}
		if err := cfg.Validate(name); err != nil {
			return nil, errors.Join(ErrInvalidProfiles, err)
		}
		out[name] = cfg
	}
	return out, nil
}

// MergeProfiles returns base with every entry of overrides applied on top.
// Neither input is modified.
func MergeProfiles(base, overrides map[string]namedcache.Config) map[string]namedcache.Config {
	out := make(map[string]namedcache.Config, len(base)+len(overrides))
	for name, cfg := range base {
		out[name] = cfg
	}
	for name, cfg := range overrides {
		out[name] = cfg
	}
	return out
}
