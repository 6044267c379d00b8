package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webotyou/backend/internal/analyzer"
	"github.com/webotyou/backend/internal/storage/models"
)

type fakeAnalyzeService struct {
	profile *models.BusinessProfile
	err     error
	lastURL string
}

func (f *fakeAnalyzeService) Analyze(ctx context.Context, url string) (*models.BusinessProfile, error) {
	f.lastURL = url
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func newAnalyzeApp(svc *fakeAnalyzeService) *fiber.App {
	app := fiber.New()
	app.Post("/api/analyze-website", NewAnalyzeHandler(svc).HandleAnalyze)
	return app
}

func TestAnalyzeReturnsProfile(t *testing.T) {
	svc := &fakeAnalyzeService{profile: &models.BusinessProfile{
		Domain:       "example.com",
		BusinessType: "Technology Company",
		Services:     []string{"Consulting"},
	}}
	app := newAnalyzeApp(svc)

	resp := postJSON(t, app, "/api/analyze-website", `{"url":"https://example.com"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://example.com", svc.lastURL)

	var profile models.BusinessProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "example.com", profile.Domain)
	assert.Equal(t, "Technology Company", profile.BusinessType)
}

func TestAnalyzeRequiresURL(t *testing.T) {
	app := newAnalyzeApp(&fakeAnalyzeService{})

	resp := postJSON(t, app, "/api/analyze-website", `{}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body validationErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "url", body.Fields[0].Field)
}

func TestAnalyzeRejectsNonHTTPScheme(t *testing.T) {
	app := newAnalyzeApp(&fakeAnalyzeService{})

	resp := postJSON(t, app, "/api/analyze-website", `{"url":"ftp://example.com"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeMapsInvalidURLError(t *testing.T) {
	svc := &fakeAnalyzeService{err: &analyzer.InvalidURLError{URL: "https://"}}
	app := newAnalyzeApp(svc)

	resp := postJSON(t, app, "/api/analyze-website", `{"url":"https://example.com"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
