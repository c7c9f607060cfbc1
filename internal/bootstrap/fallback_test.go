package bootstrap

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGuardReturnsBuiltHandler(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h, err := Guard(func() (http.Handler, error) { return ok, nil })
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, serve(h, "/").Code)
}

func TestGuardFallsBackOnError(t *testing.T) {
	h, err := Guard(func() (http.Handler, error) {
		return nil, errors.New(`dial tcp: <script>alert("x")</script>`)
	})
	require.Error(t, err)

	for _, path := range []string{"/", "/news", "/api/events"} {
		w := serve(h, path)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "The portal could not start")
		assert.NotContains(t, w.Body.String(), "<script>")
		assert.Contains(t, w.Body.String(), "&lt;script&gt;")
	}
}

func TestGuardFallsBackOnPanic(t *testing.T) {
	h, err := Guard(func() (http.Handler, error) {
		panic("templates missing")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "templates missing")

	w := serve(h, "/about")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "templates missing")
	assert.Contains(t, w.Body.String(), "window.location.reload()")
}
