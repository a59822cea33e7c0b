package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mailguest/flatnotes/internal/config"
	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/models"
)

const defaultRequestTimeout = 15 * time.Second

type httpRemoteStore struct {
	client *resty.Client
	logger *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPRemoteStore constructs an HTTP/REST implementation of [RemoteStore].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying client with the resolved base URL and request
// timeout (falling back to 15s when unset).
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPRemoteStore(adapterCfg config.ClientAdapter, log *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	timeout := adapterCfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &httpRemoteStore{client: cli, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [RemoteStore]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpRemoteStore) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [RemoteStore].
func (h *httpRemoteStore) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpRemoteStore) Register(ctx context.Context, user models.User) (models.Token, error) {
	return h.issueToken(ctx, "/auth/register", user)
}

func (h *httpRemoteStore) Login(ctx context.Context, user models.User) (models.Token, error) {
	return h.issueToken(ctx, "/auth/login", user)
}

func (h *httpRemoteStore) issueToken(ctx context.Context, path string, user models.User) (models.Token, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post(path)
	if err != nil {
		return models.Token{}, fmt.Errorf("credential request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	var token models.Token
	if err = json.Unmarshal(resp.Body(), &token); err != nil {
		return models.Token{}, fmt.Errorf("decode credential response: %w", err)
	}
	if token.SignedString == "" {
		return models.Token{}, errors.New("empty token in credential response")
	}

	h.SetToken(token.SignedString)
	return token, nil
}

// Health implements [RemoteStore]. The probe deliberately carries no
// credential.
func (h *httpRemoteStore) Health(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) ListNotes(ctx context.Context) ([]models.Note, error) {
	resp, err := h.authedRequest(ctx).Get("/notes")
	if err != nil {
		return nil, fmt.Errorf("list notes request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var notes []models.Note
	if err = json.Unmarshal(resp.Body(), &notes); err != nil {
		return nil, fmt.Errorf("decode notes response: %w", err)
	}

	return notes, nil
}

func (h *httpRemoteStore) ReplaceNotes(ctx context.Context, notes []models.Note) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(notes).
		Post("/notes")
	if err != nil {
		return fmt.Errorf("replace notes request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	resp, err := h.authedRequest(ctx).Get("/categories")
	if err != nil {
		return nil, fmt.Errorf("list categories request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var categories []models.Category
	if err = json.Unmarshal(resp.Body(), &categories); err != nil {
		return nil, fmt.Errorf("decode categories response: %w", err)
	}

	return categories, nil
}

func (h *httpRemoteStore) ReplaceCategories(ctx context.Context, categories []models.Category) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(categories).
		Post("/categories")
	if err != nil {
		return fmt.Errorf("replace categories request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) UpdateNoteOrder(ctx context.Context, noteID string, order int) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.OrderUpdate{Order: order}).
		Put("/notes/" + url.PathEscape(noteID) + "/order")
	if err != nil {
		return fmt.Errorf("update note order request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) UpdateNoteCategory(ctx context.Context, noteID, category string) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.CategoryUpdate{Category: category}).
		Put("/notes/" + url.PathEscape(noteID) + "/category")
	if err != nil {
		return fmt.Errorf("update note category request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) ReorderNotes(ctx context.Context, items []models.ReorderEntry) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ReorderRequest{Items: items}).
		Put("/notes/reorder")
	if err != nil {
		return fmt.Errorf("reorder notes request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) ReorderCategories(ctx context.Context, items []models.ReorderEntry) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ReorderRequest{Items: items}).
		Put("/categories/reorder")
	if err != nil {
		return fmt.Errorf("reorder categories request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) UploadAttachment(ctx context.Context, name, mimeType string, data []byte) (models.UploadResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetFileReader("file", name, bytes.NewReader(data)).
		SetFormData(map[string]string{"mimeType": mimeType}).
		Post("/upload")
	if err != nil {
		return models.UploadResponse{}, fmt.Errorf("upload attachment request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UploadResponse{}, err
	}

	var uploaded models.UploadResponse
	if err = json.Unmarshal(resp.Body(), &uploaded); err != nil {
		return models.UploadResponse{}, fmt.Errorf("decode upload response: %w", err)
	}

	return uploaded, nil
}

func (h *httpRemoteStore) DeleteAttachment(ctx context.Context, filename string) error {
	resp, err := h.authedRequest(ctx).Delete("/upload/" + url.PathEscape(filename))
	if err != nil {
		return fmt.Errorf("delete attachment request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
