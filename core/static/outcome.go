package static

// Kind enumerates the results of static resolution.
type Kind int

const (
	NotFound Kind = iota
	Redirect
	File
	Stub
	DirectoryIndexStub
	MethodNotAllowed
)

func (k Kind) String() string {
	switch k {
	case Redirect:
		return "redirect"
	case File:
		return "file"
	case Stub:
		return "stub"
	case DirectoryIndexStub:
		return "index_stub"
	case MethodNotAllowed:
		return "method_not_allowed"
	default:
		return "not_found"
	}
}

// Outcome is a fully materialised resolution result. Values are immutable
// once returned, so they can be shared through the route cache.
type Outcome struct {
	Kind        Kind
	Location    string // Redirect
	Target      string // Stub: the file the viewer is pointed at
	Body        []byte // File, Stub, DirectoryIndexStub
	ContentType string
	ETag        string
}
