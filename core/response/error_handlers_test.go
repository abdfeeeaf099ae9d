package response_test

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/markdownup/core/response"
)

// testContext is a simple test implementation of handler.Context
type testContext struct {
	w http.ResponseWriter
	r *http.Request
}

func (tc *testContext) Deadline() (deadline time.Time, ok bool) {
	return tc.r.Context().Deadline()
}

func (tc *testContext) Done() <-chan struct{} {
	return tc.r.Context().Done()
}

func (tc *testContext) Err() error {
	return tc.r.Context().Err()
}

func (tc *testContext) Value(key any) any {
	return tc.r.Context().Value(key)
}

func (tc *testContext) SetValue(key, val any) {}

func (tc *testContext) Request() *http.Request {
	return tc.r
}

func (tc *testContext) ResponseWriter() http.ResponseWriter {
	return tc.w
}

func (tc *testContext) Query(key string) string {
	return tc.r.URL.Query().Get(key)
}

// customStatusError is a test error that implements StatusCode() int
type customStatusError struct {
	status int
}

func (e customStatusError) Error() string {
	return "custom"
}

func (e customStatusError) StatusCode() int {
	return e.status
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		err                 error
		expectedStatus      int
		expectedContentType string
		expectedBody        string
	}{
		{
			name:                "not_found",
			err:                 response.ErrNotFound,
			expectedStatus:      http.StatusNotFound,
			expectedContentType: "text/plain; charset=utf-8",
			expectedBody:        "Not Found",
		},
		{
			name:                "method_not_allowed",
			err:                 response.ErrMethodNotAllowed,
			expectedStatus:      http.StatusMethodNotAllowed,
			expectedContentType: "text/plain; charset=utf-8",
			expectedBody:        "Method Not Allowed",
		},
		{
			name:                "action_error",
			err:                 response.NewActionError("InvalidPath"),
			expectedStatus:      http.StatusBadRequest,
			expectedContentType: "application/json",
			expectedBody:        `{"error":"InvalidPath"}`,
		},
		{
			name:                "wrapped_action_error_with_status",
			err:                 fmt.Errorf("index: %w", response.NewActionError("FileNotFound").WithStatus(http.StatusNotFound)),
			expectedStatus:      http.StatusNotFound,
			expectedContentType: "application/json",
			expectedBody:        `{"error":"FileNotFound"}`,
		},
		{
			name:                "status_code_interface",
			err:                 customStatusError{status: http.StatusNotFound},
			expectedStatus:      http.StatusNotFound,
			expectedContentType: "text/plain; charset=utf-8",
			expectedBody:        "Not Found",
		},
		{
			name:                "unknown_error_hides_detail",
			err:                 fmt.Errorf("open /home/user/secret: %w", fs.ErrPermission),
			expectedStatus:      http.StatusInternalServerError,
			expectedContentType: "text/plain; charset=utf-8",
			expectedBody:        "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			ctx := &testContext{w: w, r: httptest.NewRequest(http.MethodGet, "/", nil)}

			response.ErrorHandler(ctx, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedContentType, w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedStatus, response.StatusOf(tt.err))
		})
	}
}

func TestActionErrorIs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", response.NewActionError("InvalidPath"))
	assert.ErrorIs(t, err, response.NewActionError("InvalidPath"))
	assert.False(t, errors.Is(err, response.NewActionError("FileNotFound")))
}
