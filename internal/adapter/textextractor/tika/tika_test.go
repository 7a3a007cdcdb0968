package tika

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestClient_ExtractPath(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tika", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("Experience\r\n\r\n\r\n  Built   APIs in Go\n"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	p := writeTempFile(t, "resume.docx", "binary-ish content")
	got, err := c.ExtractPath(context.Background(), "resume.docx", p)
	require.NoError(t, err)
	assert.Equal(t, "Experience\n\nBuilt APIs in Go", got)
}

func TestClient_ExtractPath_ServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := New(srv.URL)
	p := writeTempFile(t, "resume.pdf", "x")
	_, err := c.ExtractPath(context.Background(), "resume.pdf", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tika status 422")
}

func TestClient_ExtractPath_MissingFile(t *testing.T) {
	t.Parallel()
	c := New("http://unused")
	_, err := c.ExtractPath(context.Background(), "nope.pdf", filepath.Join(t.TempDir(), "nope.pdf"))
	require.ErrorIs(t, err, domain.ErrUnreadable)
}

func TestContentTypeFromExt(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "application/pdf", contentTypeFromExt(".PDF"))
	assert.Equal(t, "text/plain", contentTypeFromExt(".txt"))
	assert.Equal(t, "", contentTypeFromExt(""))
}
