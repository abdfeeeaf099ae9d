package middleware

import (
	"net/http"

	"github.com/dmitrymomot/markdownup/core/response"
)

// statusRecorder captures the status and size of a response.
type statusRecorder struct {
	http.ResponseWriter
	statusCode    int
	size          int
	headerWritten bool
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	if !rw.headerWritten {
		rw.statusCode = statusCode
		rw.headerWritten = true
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.WriteHeader(http.StatusOK)
	}
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// status returns the status the client will see. When the response failed
// before writing anything, the router's error handler renders err afterwards.
func (rw *statusRecorder) status(err error) int {
	if rw.headerWritten {
		return rw.statusCode
	}
	if err != nil {
		return response.StatusOf(err)
	}
	return http.StatusOK
}
