package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientIP(t *testing.T, proxies []string, remote, forwarded string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r, err := newEngine(proxies)
	require.NoError(t, err)
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = remote
	req.Header.Set("X-Forwarded-For", forwarded)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Body.String()
}

func TestForwardedForIgnoredWithoutTrustedProxies(t *testing.T) {
	assert.Equal(t, "198.51.100.4", clientIP(t, nil, "198.51.100.4:5000", "203.0.113.9"))
	assert.Equal(t, "198.51.100.4", clientIP(t, []string{}, "198.51.100.4:5000", "203.0.113.9"))
}

func TestForwardedForFromTrustedProxy(t *testing.T) {
	proxies := []string{"10.0.0.0/8"}
	assert.Equal(t, "203.0.113.9", clientIP(t, proxies, "10.1.2.3:5000", "203.0.113.9"))
	assert.Equal(t, "198.51.100.4", clientIP(t, proxies, "198.51.100.4:5000", "203.0.113.9"))
}

func TestInvalidTrustedProxy(t *testing.T) {
	_, err := newEngine([]string{"not-an-ip"})
	assert.Error(t, err)
}
