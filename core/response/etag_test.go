package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/markdownup/core/response"
)

func TestETag(t *testing.T) {
	t.Parallel()

	a := response.ETag([]byte("# Title"))
	assert.Equal(t, a, response.ETag([]byte("# Title")))
	assert.NotEqual(t, a, response.ETag([]byte("# Other")))
	assert.Regexp(t, `^"[0-9a-f]+"$`, a)
}

func TestContent(t *testing.T) {
	t.Parallel()

	content := []byte("<svg></svg>")
	etag := response.ETag(content)

	t.Run("full_response", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/image.svg", nil)

		require.NoError(t, response.Content(content, "image/svg+xml", "")(w, req))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Equal(t, etag, w.Header().Get("ETag"))
		assert.Equal(t, "11", w.Header().Get("Content-Length"))
		assert.Equal(t, "<svg></svg>", w.Body.String())
	})

	t.Run("matching_if_none_match", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/image.svg", nil)
		req.Header.Set("If-None-Match", `"other", `+etag)

		require.NoError(t, response.Content(content, "image/svg+xml", etag)(w, req))
		assert.Equal(t, http.StatusNotModified, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("weak_validator_matches", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("If-None-Match", "W/"+etag)
		assert.True(t, response.NotModified(req, etag))
	})

	t.Run("stale_validator", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/image.svg", nil)
		req.Header.Set("If-None-Match", `"stale"`)

		require.NoError(t, response.Content(content, "image/svg+xml", etag)(w, req))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<svg></svg>", w.Body.String())
	})
}
