package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/markdownup/core/handler"
	"github.com/dmitrymomot/markdownup/core/response"
)

// MaxBodySize limits JSON request bodies of scripted actions.
const MaxBodySize = 1 << 20

var (
	// ErrInvalidInput is returned for request bodies that are not a JSON object.
	ErrInvalidInput = response.NewActionError("InvalidInput")
	// ErrMalformedResponse is returned when a WSGI function returns an
	// unexpected value. It renders as a plain 500.
	ErrMalformedResponse = errors.New("malformed script response")
)

// Action is a scripted API bound to its compiled program.
type Action struct {
	api     API
	program Program
}

// Name returns the action route name.
func (a *Action) Name() string {
	return a.api.Name
}

// Methods returns the accepted HTTP methods.
func (a *Action) Methods() []string {
	return a.api.AllowedMethods()
}

// Load compiles every script in cfg and binds its APIs. Script paths are
// resolved against baseDir. A function missing from its script is an error.
func Load(cfg *Config, baseDir string, exec Executor) ([]*Action, error) {
	var actions []*Action
	seen := make(map[string]bool)

	for _, s := range cfg.Scripts {
		path := s.Script
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read script %q: %w", s.Script, err)
		}

		program, err := exec.Compile(s.Script, source, s.Globals)
		if err != nil {
			return nil, fmt.Errorf("compile script %q: %w", s.Script, err)
		}

		for _, api := range s.APIs {
			if seen[api.Name] {
				return nil, fmt.Errorf("duplicate API %q", api.Name)
			}
			seen[api.Name] = true

			if !program.Has(api.FunctionName()) {
				return nil, fmt.Errorf("unknown API function %q", api.FunctionName())
			}
			actions = append(actions, &Action{api: api, program: program})
		}
	}
	return actions, nil
}

// Handler adapts a scripted action to a route handler.
func Handler[C handler.Context](a *Action) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		req, err := decodeRequest(ctx.Request())
		if err != nil {
			return response.Error(err)
		}

		headers := NewHeaders()
		result, err := a.program.Call(ctx, a.api.FunctionName(), req, headers)
		if err != nil {
			return response.Error(err)
		}

		var resp handler.Response
		if a.api.WSGI {
			resp, err = wsgiResponse(result)
			if err != nil {
				return response.Error(fmt.Errorf("%s: %w", a.api.Name, err))
			}
		} else {
			if result == nil {
				result = map[string]any{}
			}
			resp = response.JSON(result)
		}
		return response.WithHeaders(resp, headers.Header())
	}
}

func decodeRequest(r *http.Request) (Request, error) {
	req := make(Request)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			req[key] = values[0]
		}
	}

	if r.Body == nil || r.ContentLength == 0 {
		return req, nil
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return req, nil
	}

	var body map[string]any
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodySize))
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return nil, ErrInvalidInput
	}
	for key, value := range body {
		req[key] = value
	}
	return req, nil
}

// wsgiResponse converts [status, [[header, value], ...], body].
func wsgiResponse(result any) (handler.Response, error) {
	tuple, ok := result.([]any)
	if !ok || len(tuple) != 3 {
		return nil, ErrMalformedResponse
	}

	status, ok := toStatus(tuple[0])
	if !ok {
		return nil, fmt.Errorf("%w: invalid status %v", ErrMalformedResponse, tuple[0])
	}

	pairs, ok := tuple[1].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: headers must be a list", ErrMalformedResponse)
	}
	header := make(http.Header, len(pairs))
	for _, p := range pairs {
		pair, ok := p.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: header must be a [name, value] pair", ErrMalformedResponse)
		}
		key, kok := pair[0].(string)
		value, vok := pair[1].(string)
		if !kok || !vok {
			return nil, fmt.Errorf("%w: header name and value must be strings", ErrMalformedResponse)
		}
		header.Add(key, value)
	}

	var body []byte
	switch b := tuple[2].(type) {
	case string:
		body = []byte(b)
	case []byte:
		body = b
	case nil:
	default:
		return nil, fmt.Errorf("%w: body must be a string", ErrMalformedResponse)
	}

	contentType := header.Get("Content-Type")
	header.Del("Content-Type")
	return response.WithHeaders(response.BytesWithStatus(body, contentType, status), header), nil
}

func toStatus(v any) (int, bool) {
	var status int
	switch n := v.(type) {
	case int:
		status = n
	case int64:
		status = int(n)
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		status = int(n)
	default:
		return 0, false
	}
	return status, status >= 100 && status <= 599
}
