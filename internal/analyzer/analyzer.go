package analyzer

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webotyou/backend/internal/metrics"
	"github.com/webotyou/backend/internal/storage/models"
	"github.com/webotyou/backend/pkg/logger"
)

type completionClient interface {
	AnalyzeWebsite(ctx context.Context, content, title, url string) (*models.BusinessProfile, error)
}

type analysisStore interface {
	InsertAnalysis(analysis *models.WebsiteAnalysis) error
	GetLatestAnalysisByURL(url string) (*models.WebsiteAnalysis, error)
}

type profileCache interface {
	GetProfile(ctx context.Context, url string) (*models.BusinessProfile, bool, error)
	SetProfile(ctx context.Context, url string, profile *models.BusinessProfile) error
}

// Service runs the analysis pipeline: cache probe, fetch, text extraction,
// model synthesis, persistence. Every failure past URL validation terminates
// in the heuristic fallback profile.
type Service struct {
	db              analysisStore
	cache           profileCache
	llm             completionClient
	fetcher         *Fetcher
	maxContentChars int
	cacheTTL        time.Duration
}

func NewService(db analysisStore, cache profileCache, llm completionClient, fetcher *Fetcher, maxContentChars int, cacheTTL time.Duration) *Service {
	return &Service{
		db:              db,
		cache:           cache,
		llm:             llm,
		fetcher:         fetcher,
		maxContentChars: maxContentChars,
		cacheTTL:        cacheTTL,
	}
}

// Analyze returns the BusinessProfile for rawURL, reusing any stored profile
// newer than the cache TTL. The returned profile's Domain is always the
// lowercase host of rawURL, whichever path produced the rest.
func (s *Service) Analyze(ctx context.Context, rawURL string) (*models.BusinessProfile, error) {
	start := time.Now()

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, &InvalidURLError{URL: rawURL}
	}
	domain := strings.ToLower(parsed.Hostname())

	if s.cache != nil {
		profile, found, err := s.cache.GetProfile(ctx, rawURL)
		if err != nil {
			logger.Warn("Profile cache probe failed", zap.Error(err))
		} else if found {
			metrics.CacheHits.WithLabelValues("redis").Inc()
			metrics.AnalysisTotal.WithLabelValues("cached").Inc()
			return profile, nil
		}
		metrics.CacheMisses.WithLabelValues("redis").Inc()
	}

	existing, err := s.db.GetLatestAnalysisByURL(rawURL)
	if err != nil {
		logger.Warn("Failed to look up stored analysis", zap.String("url", rawURL), zap.Error(err))
	}
	if existing != nil && time.Since(existing.CreatedAt) < s.cacheTTL {
		logger.Info("Returning recent analysis",
			zap.String("url", rawURL),
			zap.Time("analyzed_at", existing.CreatedAt),
		)
		metrics.CacheHits.WithLabelValues("store").Inc()
		metrics.AnalysisTotal.WithLabelValues("cached").Inc()
		return existing.Profile, nil
	}
	metrics.CacheMisses.WithLabelValues("store").Inc()

	profile, outcome := s.runPipeline(ctx, rawURL, domain)
	profile.Domain = domain

	analysis := &models.WebsiteAnalysis{
		ID:        uuid.New().String(),
		URL:       rawURL,
		Profile:   profile,
		CreatedAt: time.Now(),
	}

	if err := s.db.InsertAnalysis(analysis); err != nil {
		logger.Error("Failed to store analysis", zap.String("url", rawURL), zap.Error(err))
	}

	if s.cache != nil {
		if err := s.cache.SetProfile(ctx, rawURL, profile); err != nil {
			logger.Warn("Failed to cache profile", zap.Error(err))
		}
	}

	metrics.AnalysisTotal.WithLabelValues(outcome).Inc()
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	logger.Info("Website analysis completed",
		zap.String("url", rawURL),
		zap.String("domain", domain),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", time.Since(start)),
	)

	return profile, nil
}

func (s *Service) runPipeline(ctx context.Context, rawURL, domain string) (*models.BusinessProfile, string) {
	html, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		logger.Warn("Website fetch failed, using fallback profile",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return FallbackProfile(domain), "fallback"
	}

	content := ExtractText(html, s.maxContentChars)
	if content == "" {
		logger.Warn("No text extracted, using fallback profile", zap.String("url", rawURL))
		return FallbackProfile(domain), "fallback"
	}
	title := ExtractTitle(html)

	profile, err := s.llm.AnalyzeWebsite(ctx, content, title, rawURL)
	if err != nil {
		logger.Warn("Model analysis failed, using fallback profile",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return FallbackProfile(domain), "fallback"
	}

	return profile, "model"
}

// InvalidURLError is the only error Analyze surfaces; everything downstream
// of validation resolves to a fallback profile.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return "invalid url: " + e.URL
}
