package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidTarget is returned when Load receives something other than a non-nil struct pointer.
var ErrInvalidTarget = errors.New("config target must be a non-nil pointer to a struct")

var (
	dotenvOnce sync.Once

	mu    sync.Mutex
	cache = map[reflect.Type]reflect.Value{}
)

// Load parses environment variables into cfg. The first call loads a .env file
// from the working directory when one exists. Each struct type is parsed once;
// later calls copy the cached value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrInvalidTarget
	}
	typ := reflect.TypeOf(cfg).Elem()
	if typ.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	dotenvOnce.Do(func() {
		// A missing .env file is the common case for a local tool.
		_ = godotenv.Load()
	})

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[typ]; ok {
		reflect.ValueOf(cfg).Elem().Set(cached)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse %s from environment: %w", typ.Name(), err)
	}

	stored := reflect.New(typ).Elem()
	stored.Set(reflect.ValueOf(cfg).Elem())
	cache[typ] = stored
	return nil
}

// MustLoad is Load that panics on failure. Intended for process startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops all cached values. Tests use it to re-read the environment.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cache = map[reflect.Type]reflect.Value{}
}
