package static

import (
	"strings"

	"github.com/dmitrymomot/markdownup/core/response"
)

// ErrInvalidPath is returned for paths that are absolute, climb out of the
// served root, or are otherwise malformed. It renders as 400 {"error":"InvalidPath"}.
var ErrInvalidPath = response.NewActionError("InvalidPath")

// RequestPath is a validated, root-relative path. The zero value is the root.
type RequestPath struct {
	segments []string
}

// ValidatePath parses a slash-separated relative path.
//
// Empty input is the root. Absolute paths and ".." segments are rejected.
// In strict mode "." segments are rejected too; otherwise they are dropped.
// Empty segments (repeated or trailing slashes) are always dropped. Segments
// are otherwise opaque: no percent-decoding or case folding is applied.
func ValidatePath(raw string, strict bool) (RequestPath, error) {
	if raw == "" {
		return RequestPath{}, nil
	}
	if strings.HasPrefix(raw, "/") {
		return RequestPath{}, ErrInvalidPath
	}

	parts := strings.Split(raw, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		switch {
		case part == "":
			continue
		case part == "..":
			return RequestPath{}, ErrInvalidPath
		case part == ".":
			if strict {
				return RequestPath{}, ErrInvalidPath
			}
			continue
		case strings.IndexByte(part, 0) >= 0:
			return RequestPath{}, ErrInvalidPath
		}
		segments = append(segments, part)
	}
	return RequestPath{segments: segments}, nil
}

// IsRoot reports whether p is the served root.
func (p RequestPath) IsRoot() bool {
	return len(p.segments) == 0
}

// Segments returns a copy of the path segments.
func (p RequestPath) Segments() []string {
	return append([]string(nil), p.segments...)
}

// String returns the slash-joined path; the root is "".
func (p RequestPath) String() string {
	return strings.Join(p.segments, "/")
}

// FSName returns the name to use with io/fs; the root is ".".
func (p RequestPath) FSName() string {
	if p.IsRoot() {
		return "."
	}
	return p.String()
}

// Base returns the last segment, or "" for the root.
func (p RequestPath) Base() string {
	if p.IsRoot() {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the containing directory. The parent of the root is the root.
func (p RequestPath) Parent() RequestPath {
	if p.IsRoot() {
		return p
	}
	return RequestPath{segments: p.segments[:len(p.segments)-1:len(p.segments)-1]}
}

// Join appends a single entry name.
func (p RequestPath) Join(name string) RequestPath {
	segments := make([]string, 0, len(p.segments)+1)
	segments = append(segments, p.segments...)
	return RequestPath{segments: append(segments, name)}
}
