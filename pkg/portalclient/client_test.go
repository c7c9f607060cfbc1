package portalclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quezon.gov.ph/portal/internal/entity"
	eventDto "quezon.gov.ph/portal/internal/modules/event/dto"
)

type fakePortal struct {
	token    atomic.Value
	refreshs atomic.Int32
	created  atomic.Int32
}

func (f *fakePortal) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.token.Store("first")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":     "first",
			"refresh_token":    "r1",
			"user":             map[string]any{"id": uuid.NewString(), "email": "clerk@quezon.gov.ph"},
			"roles":            []string{"moderator"},
			"can_access_admin": true,
		})
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshs.Add(1)
		f.token.Store("second")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "second", "refresh_token": "r2"})
	})
	mux.HandleFunc("GET /api/admin/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.token.Load().(string) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []entity.Event{{ID: uuid.New(), Title: "Kaamulan"}}})
	})
	mux.HandleFunc("POST /api/admin/events", func(w http.ResponseWriter, r *http.Request) {
		var req eventDto.EventRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Title == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"title": "title is required"}})
			return
		}
		f.created.Add(1)
		w.WriteHeader(http.StatusCreated)
	})
	return mux
}

func TestLoginPersistsSession(t *testing.T) {
	fp := &fakePortal{}
	srv := httptest.NewServer(fp.handler(t))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "portalctl", "session.json")
	c, err := New(srv.URL, WithTokenFile(path))
	require.NoError(t, err)

	s, err := c.Login(context.Background(), "clerk@quezon.gov.ph", gofakeit.Password(true, true, true, false, false, 12))
	require.NoError(t, err)
	assert.Equal(t, []string{"moderator"}, s.Roles)
	assert.True(t, s.CanAccessAdmin)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := New(srv.URL, WithTokenFile(path))
	require.NoError(t, err)
	require.NoError(t, again.Load())
	loaded, ok := again.Session()
	require.True(t, ok)
	assert.Equal(t, "first", loaded.AccessToken)

	require.NoError(t, again.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestExpiredTokenRefreshesOnce(t *testing.T) {
	fp := &fakePortal{}
	srv := httptest.NewServer(fp.handler(t))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.Login(context.Background(), "clerk@quezon.gov.ph", "secret")
	require.NoError(t, err)

	// server rotated the token behind our back
	fp.token.Store("second")

	rows, err := c.Events().List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kaamulan", rows[0].Title)
	assert.Equal(t, int32(1), fp.refreshs.Load())

	s, _ := c.Session()
	assert.Equal(t, "r2", s.RefreshToken)
}

func TestStoreErrors(t *testing.T) {
	fp := &fakePortal{}
	srv := httptest.NewServer(fp.handler(t))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Events().List(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = c.Login(context.Background(), "clerk@quezon.gov.ph", "secret")
	require.NoError(t, err)

	err = c.Events().Create(context.Background(), eventDto.EventRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "title is required")

	require.NoError(t, c.Events().Create(context.Background(), eventDto.EventRequest{Title: "Fiesta"}))
	assert.Equal(t, int32(1), fp.created.Load())
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "invalid or expired token", errorMessage(http.StatusUnauthorized, []byte(`{"error":"invalid or expired token"}`)))
	assert.Equal(t, `{"title":"title is required"}`, errorMessage(http.StatusBadRequest, []byte(`{"error":{"title":"title is required"}}`)))
	assert.Equal(t, "rebuilt", errorMessage(http.StatusConflict, []byte(`{"message":"rebuilt"}`)))
	assert.Equal(t, "Bad Gateway", errorMessage(http.StatusBadGateway, []byte(`<html>upstream</html>`)))
}
