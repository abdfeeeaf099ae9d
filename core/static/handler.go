package static

import (
	"net/http"

	"github.com/dmitrymomot/markdownup/core/handler"
	"github.com/dmitrymomot/markdownup/core/response"
)

// Handler serves resolved outcomes. It is the dispatcher's fallback for
// requests that match no declared action.
//
// Invalid paths render as 400 {"error":"InvalidPath"}, missing entries as a
// plain 404 and I/O failures as a plain 500 through the error handler.
func Handler[C handler.Context](res *Resolver) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		req := ctx.Request()
		out, err := res.Resolve(req.Method, req.URL.Path)
		if err != nil {
			return response.Error(err)
		}
		return Render(out, req.URL.RawQuery)
	}
}

// AllowedMethods is the Allow header value for static content.
const AllowedMethods = "GET, HEAD"

// Render converts an outcome to a response. The query string is appended to
// redirect locations.
func Render(out Outcome, rawQuery string) handler.Response {
	switch out.Kind {
	case Redirect:
		location := out.Location
		if rawQuery != "" {
			location += "?" + rawQuery
		}
		return response.RedirectPermanent(location)
	case File, Stub, DirectoryIndexStub:
		return response.Content(out.Body, out.ContentType, out.ETag)
	case MethodNotAllowed:
		return response.WithHeaders(response.Error(response.ErrMethodNotAllowed), http.Header{
			"Allow": {AllowedMethods},
		})
	default:
		return response.Error(response.ErrNotFound)
	}
}
