package markdownup

import (
	"time"

	"github.com/dmitrymomot/markdownup/core/server"
)

// Config holds launcher settings. Environment values are defaults that CLI
// flags override.
type Config struct {
	Server server.Config `envPrefix:"MARKDOWNUP_"`

	Root    string `env:"MARKDOWNUP_ROOT" envDefault:"."`
	Host    string `env:"MARKDOWNUP_HOST" envDefault:"127.0.0.1"`
	Port    int    `env:"MARKDOWNUP_PORT" envDefault:"8080"`
	Threads int    `env:"MARKDOWNUP_THREADS" envDefault:"8"`

	Release   bool `env:"MARKDOWNUP_RELEASE" envDefault:"false"`
	Quiet     bool `env:"MARKDOWNUP_QUIET" envDefault:"false"`
	NoBrowser bool `env:"MARKDOWNUP_NO_BROWSER" envDefault:"false"`

	IndexFormat string `env:"MARKDOWNUP_INDEX_FORMAT" envDefault:"markdown"`
	StrictPaths bool   `env:"MARKDOWNUP_STRICT_PATHS" envDefault:"false"`
	AutoRender  bool   `env:"MARKDOWNUP_AUTO_RENDER" envDefault:"false"`
	Metrics     bool   `env:"MARKDOWNUP_METRICS" envDefault:"false"`

	// BackendConfig overrides <root>/markdown-up.json. An explicit path must exist.
	BackendConfig string        `env:"MARKDOWNUP_BACKEND_CONFIG"`
	ScriptTimeout time.Duration `env:"MARKDOWNUP_SCRIPT_TIMEOUT" envDefault:"30s"`

	LogLevel  string `env:"MARKDOWNUP_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"MARKDOWNUP_LOG_FORMAT" envDefault:"text"`
}

// DefaultConfig returns the configuration used when the environment is empty.
func DefaultConfig() Config {
	return Config{
		Server:        server.DefaultConfig(),
		Root:          ".",
		Host:          "127.0.0.1",
		Port:          8080,
		Threads:       8,
		IndexFormat:   "markdown",
		ScriptTimeout: 30 * time.Second,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}
