package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultConfigName is looked up in the served root.
const DefaultConfigName = "markdown-up.json"

// DefaultMethods are accepted by APIs that declare none.
var DefaultMethods = []string{http.MethodGet, http.MethodPost}

var (
	ErrNoConfig      = errors.New("backend config not found")
	ErrInvalidConfig = errors.New("invalid backend config")
)

// Config is the backend API configuration file.
type Config struct {
	Scripts []Script `json:"scripts" yaml:"scripts" validate:"required,min=1,dive"`
}

// Script is one script file and the APIs it implements.
type Script struct {
	// Script is the script path, relative to the config file.
	Script string `json:"script" yaml:"script" validate:"required"`
	// Globals are defined before the script runs.
	Globals map[string]any `json:"globals,omitempty" yaml:"globals,omitempty"`
	APIs    []API          `json:"apis" yaml:"apis" validate:"required,min=1,dive"`
}

// API maps an action name to a script function.
type API struct {
	Name string `json:"name" yaml:"name" validate:"required,excludesall=/?#%"`
	// Function defaults to Name.
	Function string   `json:"function,omitempty" yaml:"function,omitempty"`
	Methods  []string `json:"methods,omitempty" yaml:"methods,omitempty" validate:"omitempty,dive,oneof=GET POST PUT PATCH DELETE"`
	// WSGI functions return [status, [[header, value], ...], body]
	// instead of a JSON-encodable value.
	WSGI bool `json:"wsgi,omitempty" yaml:"wsgi,omitempty"`
}

// FunctionName returns the script function implementing the API.
func (a API) FunctionName() string {
	if a.Function != "" {
		return a.Function
	}
	return a.Name
}

// AllowedMethods returns the declared methods or DefaultMethods.
func (a API) AllowedMethods() []string {
	if len(a.Methods) == 0 {
		return append([]string(nil), DefaultMethods...)
	}
	return append([]string(nil), a.Methods...)
}

var validate = validator.New()

// LoadConfig reads and validates a config file. JSON and YAML (.yaml, .yml)
// are accepted. A missing file returns ErrNoConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("read backend config: %w", err)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes and validates config data. ext selects the decoder.
func ParseConfig(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	for i := range cfg.Scripts {
		for j := range cfg.Scripts[i].APIs {
			api := &cfg.Scripts[i].APIs[j]
			for k, m := range api.Methods {
				api.Methods[k] = strings.ToUpper(m)
			}
		}
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &cfg, nil
}
