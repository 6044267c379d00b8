package analyzer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webotyou/backend/internal/storage/models"
)

type fakeStore struct {
	analyses []*models.WebsiteAnalysis
	latest   *models.WebsiteAnalysis
}

func (f *fakeStore) InsertAnalysis(a *models.WebsiteAnalysis) error {
	f.analyses = append(f.analyses, a)
	return nil
}

func (f *fakeStore) GetLatestAnalysisByURL(url string) (*models.WebsiteAnalysis, error) {
	if f.latest != nil && f.latest.URL == url {
		return f.latest, nil
	}
	return nil, nil
}

type fakeLLM struct {
	profile *models.BusinessProfile
	err     error
	calls   int
}

func (f *fakeLLM) AnalyzeWebsite(ctx context.Context, content, title, url string) (*models.BusinessProfile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func newTestService(store *fakeStore, llm *fakeLLM) *Service {
	fetcher := NewFetcher("test-agent/1.0", 2)
	return NewService(store, nil, llm, fetcher, 3000, time.Hour)
}

func TestAnalyzeModelPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("<html><title>Acme</title><body>Widgets for everyone</body></html>"))
	}))
	defer server.Close()

	store := &fakeStore{}
	llm := &fakeLLM{profile: &models.BusinessProfile{
		BusinessType: "Technology Company",
		Services:     []string{"Widgets"},
		Description:  "Sells widgets",
	}}

	svc := newTestService(store, llm)

	profile, err := svc.Analyze(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Technology Company", profile.BusinessType)
	assert.Equal(t, 1, llm.calls)
	require.Len(t, store.analyses, 1)
	assert.Equal(t, server.URL, store.analyses[0].URL)
}

func TestAnalyzeDomainInvariant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	store := &fakeStore{}
	// Model claims a different domain; the URL host must win.
	llm := &fakeLLM{profile: &models.BusinessProfile{Domain: "wrong.example"}}

	svc := newTestService(store, llm)

	profile, err := svc.Analyze(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", profile.Domain)
}

func TestAnalyzeFallbackOnFetchFailure(t *testing.T) {
	store := &fakeStore{}
	llm := &fakeLLM{}
	svc := newTestService(store, llm)

	// Closed port: the fetch fails at the transport level.
	profile, err := svc.Analyze(context.Background(), "http://techshop.invalid")
	require.NoError(t, err)

	assert.Equal(t, "techshop.invalid", profile.Domain)
	assert.NotEmpty(t, profile.BusinessType)
	assert.NotEmpty(t, profile.Services)
	assert.Zero(t, llm.calls)
	require.Len(t, store.analyses, 1)
}

func TestAnalyzeFallbackOnNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	store := &fakeStore{}
	llm := &fakeLLM{}
	svc := newTestService(store, llm)

	profile, err := svc.Analyze(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", profile.Domain)
	assert.Zero(t, llm.calls)
}

func TestAnalyzeFallbackOnModelFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>content here</body></html>"))
	}))
	defer server.Close()

	store := &fakeStore{}
	llm := &fakeLLM{err: errors.New("model down")}
	svc := newTestService(store, llm)

	profile, err := svc.Analyze(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, "127.0.0.1", profile.Domain)
	assert.NotEmpty(t, profile.BusinessType)
}

func TestAnalyzeReturnsFreshStoredProfile(t *testing.T) {
	stored := &models.BusinessProfile{
		Domain:       "example.com",
		BusinessType: "Technology Company",
	}
	store := &fakeStore{latest: &models.WebsiteAnalysis{
		ID:        "a1",
		URL:       "https://example.com",
		Profile:   stored,
		CreatedAt: time.Now().Add(-10 * time.Minute),
	}}
	llm := &fakeLLM{}
	svc := newTestService(store, llm)

	profile, err := svc.Analyze(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, stored, profile)
	assert.Zero(t, llm.calls)
	assert.Empty(t, store.analyses)
}

func TestAnalyzeReAnalyzesStaleProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>fresh content</body></html>"))
	}))
	defer server.Close()

	store := &fakeStore{latest: &models.WebsiteAnalysis{
		ID:        "a1",
		URL:       server.URL,
		Profile:   &models.BusinessProfile{Domain: "127.0.0.1"},
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}}
	llm := &fakeLLM{profile: &models.BusinessProfile{BusinessType: "Updated"}}
	svc := newTestService(store, llm)

	profile, err := svc.Analyze(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Updated", profile.BusinessType)
	assert.Equal(t, 1, llm.calls)
	require.Len(t, store.analyses, 1)
}

func TestAnalyzeLowercasesHost(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeLLM{})

	profile, err := svc.Analyze(context.Background(), "https://TechShop.INVALID/About")
	require.NoError(t, err)

	assert.Equal(t, "techshop.invalid", profile.Domain)
}

func TestAnalyzeRejectsUnparseableURL(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeLLM{})

	_, err := svc.Analyze(context.Background(), "not a url")

	var invalidURL *InvalidURLError
	require.ErrorAs(t, err, &invalidURL)
}
