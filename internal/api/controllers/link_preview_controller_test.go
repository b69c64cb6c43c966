package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/models/response_models"
	"gatekeeper/pkg/netguard"
	"gatekeeper/pkg/utils"
)

type stubPreviewService struct {
	preview response_models.LinkPreview
	err     error
	gotURL  string
}

func (s *stubPreviewService) Preview(ctx context.Context, rawURL string) (response_models.LinkPreview, error) {
	s.gotURL = rawURL
	return s.preview, s.err
}

type envelope struct {
	Status string                      `json:"status"`
	Code   int                         `json:"code"`
	Error  string                      `json:"error"`
	Data   response_models.LinkPreview `json:"data"`
}

func servePreview(t *testing.T, svc *stubPreviewService, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/link-preview", NewLinkPreviewController(svc).Preview)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/link-preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestLinkPreviewSuccess(t *testing.T) {
	svc := &stubPreviewService{preview: response_models.LinkPreview{
		Title: "Hello", URL: "https://example.com/",
	}}

	w, env := servePreview(t, svc, `{"url":"https://example.com/"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/", svc.gotURL)
	assert.Equal(t, "Hello", env.Data.Title)
	assert.Empty(t, env.Error)
}

func TestLinkPreviewRejectionIs400WithReason(t *testing.T) {
	svc := &stubPreviewService{err: &netguard.RejectionError{
		Stage:  netguard.StageHostname,
		Reason: "Zugriff auf lokale Adressen ist nicht erlaubt",
	}}

	w, env := servePreview(t, svc, `{"url":"http://localhost/"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Zugriff auf lokale Adressen ist nicht erlaubt", env.Error)
}

func TestLinkPreviewFetchFailureIs500(t *testing.T) {
	svc := &stubPreviewService{err: fmt.Errorf("%w: connection reset", utils.ErrFetchFailed)}

	w, env := servePreview(t, svc, `{"url":"https://example.com/"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Fehler beim Abrufen der Vorschau", env.Error)
}

func TestLinkPreviewMissingURL(t *testing.T) {
	svc := &stubPreviewService{}

	w, env := servePreview(t, svc, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, env.Error)
	assert.Empty(t, svc.gotURL)
}

func TestLinkPreviewSuccessBodyShape(t *testing.T) {
	svc := &stubPreviewService{preview: response_models.LinkPreview{URL: "https://example.com/"}}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/link-preview", NewLinkPreviewController(svc).Preview)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/link-preview", strings.NewReader(`{"url":"https://example.com/"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{
		"title":       "",
		"description": "",
		"image":       "",
		"url":         "https://example.com/",
	}, body.Data)
}
