// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailguest/flatnotes/internal/config"
	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/models"
)

func newTestRemote(t *testing.T, serverURL string) *httpRemoteStore {
	t.Helper()

	cfg := config.ClientAdapter{HTTPAddress: serverURL}
	r, err := NewHTTPRemoteStore(cfg, logger.Nop())
	require.NoError(t, err)
	return r.(*httpRemoteStore)
}

// ── Base URL ─────────────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain host gets http scheme", raw: "localhost:8080", want: "http://localhost:8080"},
		{name: "trailing slash trimmed", raw: "http://localhost:8080/", want: "http://localhost:8080"},
		{name: "https preserved", raw: "https://notes.example.com", want: "https://notes.example.com"},
		{name: "empty address", raw: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHTTPRemoteStore_EmptyAddress(t *testing.T) {
	_, err := NewHTTPRemoteStore(config.ClientAdapter{}, logger.Nop())
	require.Error(t, err)
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/register", r.URL.Path)

		var user models.User
		require.NoError(t, json.NewDecoder(r.Body).Decode(&user))
		assert.Equal(t, "alice", user.Login)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Token{SignedString: "issued-token", UserID: 1})
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	token, err := remote.Register(context.Background(), models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "issued-token", token.SignedString)
	assert.Equal(t, "issued-token", remote.Token(), "issued token should be retained for later requests")
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	_, err := remote.Login(context.Background(), models.User{Login: "alice", Password: "wrong"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, remote.Token())
}

func TestLogin_EmptyTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Token{})
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	_, err := remote.Login(context.Background(), models.User{Login: "alice"})

	require.Error(t, err)
}

// ── Health ───────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "health probe must not carry a credential")
		_ = json.NewEncoder(w).Encode(models.HealthResponse{Status: "ok"})
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("some-token")

	require.NoError(t, remote.Health(context.Background()))
}

func TestHealth_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	remote := newTestRemote(t, srv.URL)
	require.Error(t, remote.Health(context.Background()))
}

// ── Notes ────────────────────────────────────────────────────────────────────

func TestListNotes(t *testing.T) {
	want := []models.Note{
		{ID: "n1", Title: "groceries", Content: "milk", UpdatedAt: time.Now().UTC().Truncate(time.Second)},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/notes", r.URL.Path)
		assert.Equal(t, "Bearer valid-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("valid-token")

	got, err := remote.ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want[0].ID, got[0].ID)
	assert.Equal(t, want[0].Content, got[0].Content)
}

func TestListNotes_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("expired")

	_, err := remote.ListNotes(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestReplaceNotes(t *testing.T) {
	notes := []models.Note{{ID: "n1", Title: "groceries"}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notes", r.URL.Path)

		var got []models.Note
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, notes, got)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("valid-token")

	require.NoError(t, remote.ReplaceNotes(context.Background(), notes))
}

func TestUpdateNoteOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/notes/n1/order", r.URL.Path)

		var body models.OrderUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3, body.Order)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("valid-token")

	require.NoError(t, remote.UpdateNoteOrder(context.Background(), "n1", 3))
}

func TestUpdateNoteCategory_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("valid-token")

	err := remote.UpdateNoteCategory(context.Background(), "ghost", "work")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorderNotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/notes/reorder", r.URL.Path)

		var body models.ReorderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Items, 2)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("valid-token")

	require.NoError(t, remote.ReorderNotes(context.Background(), []models.ReorderEntry{
		{ID: "n1", Order: 1},
		{ID: "n2", Order: 0},
	}))
}

// ── Categories ───────────────────────────────────────────────────────────────

func TestListCategories(t *testing.T) {
	want := []models.Category{{ID: "home", Name: "Home", Order: 0}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("valid-token")

	got, err := remote.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReplaceCategories_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("disk full"))
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("valid-token")

	err := remote.ReplaceCategories(context.Background(), []models.Category{{ID: "home"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

// ── Uploads ──────────────────────────────────────────────────────────────────

func TestUploadAttachment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "doc.pdf", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "pdf-bytes", string(data))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.UploadResponse{
			Filename: "doc.pdf",
			URL:      "/upload/doc.pdf",
			Size:     int64(len(data)),
		})
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("valid-token")

	resp, err := remote.UploadAttachment(context.Background(), "doc.pdf", "application/pdf", []byte("pdf-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/upload/doc.pdf", resp.URL)
	assert.Equal(t, int64(9), resp.Size)
}

func TestDeleteAttachment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/upload/doc.pdf", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	remote := newTestRemote(t, srv.URL)
	remote.SetToken("valid-token")

	require.NoError(t, remote.DeleteAttachment(context.Background(), "doc.pdf"))
}
