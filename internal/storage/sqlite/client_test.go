package sqlite

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webotyou/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func TestAnalysisRoundTrip(t *testing.T) {
	client := newTestClient(t)

	analysis := &models.WebsiteAnalysis{
		ID:  "a1",
		URL: "https://example.com",
		Profile: &models.BusinessProfile{
			Domain:       "example.com",
			BusinessType: "Technology Company",
			Services:     []string{"Consulting", "Development"},
			Description:  "A consultancy.",
			ContactInfo:  &models.ContactInfo{Email: "info@example.com"},
			KeyFeatures:  []string{"Fast", "Reliable"},
		},
		CreatedAt: time.Now(),
	}

	require.NoError(t, client.InsertAnalysis(analysis))

	got, err := client.GetLatestAnalysisByURL("https://example.com")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, analysis.Profile, got.Profile)
	assert.WithinDuration(t, analysis.CreatedAt, got.CreatedAt, time.Second)
}

func TestGetLatestAnalysisMissingURL(t *testing.T) {
	client := newTestClient(t)

	got, err := client.GetLatestAnalysisByURL("https://nowhere.example")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetLatestAnalysisPrefersNewest(t *testing.T) {
	client := newTestClient(t)

	old := &models.WebsiteAnalysis{
		ID:        "old",
		URL:       "https://example.com",
		Profile:   &models.BusinessProfile{Domain: "example.com", BusinessType: "Old"},
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	newer := &models.WebsiteAnalysis{
		ID:        "new",
		URL:       "https://example.com",
		Profile:   &models.BusinessProfile{Domain: "example.com", BusinessType: "New"},
		CreatedAt: time.Now(),
	}

	require.NoError(t, client.InsertAnalysis(old))
	require.NoError(t, client.InsertAnalysis(newer))

	got, err := client.GetLatestAnalysisByURL("https://example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.ID)
}

func TestChatHistoryTrailingWindow(t *testing.T) {
	client := newTestClient(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		msg := &models.ChatMessage{
			ID:        fmt.Sprintf("m%d", i),
			SessionID: "s1",
			Message:   fmt.Sprintf("turn %d", i),
			IsBot:     i%2 == 1,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, client.InsertChatMessage(msg))
	}

	history, err := client.GetChatHistory("s1", 20)
	require.NoError(t, err)
	require.Len(t, history, 20)

	// Trailing 20 in chronological order.
	assert.Equal(t, "turn 5", history[0].Message)
	assert.Equal(t, "turn 24", history[19].Message)
	assert.False(t, history[19].IsBot)

	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].CreatedAt.Before(history[i-1].CreatedAt))
	}
}

func TestChatHistoryIsolatedBySession(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertChatMessage(&models.ChatMessage{
		ID: "m1", SessionID: "s1", Message: "mine", CreatedAt: time.Now(),
	}))
	require.NoError(t, client.InsertChatMessage(&models.ChatMessage{
		ID: "m2", SessionID: "s2", Message: "theirs", CreatedAt: time.Now(),
	}))

	history, err := client.GetChatHistory("s1", 20)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "mine", history[0].Message)
}

func TestInsertContactInquiry(t *testing.T) {
	client := newTestClient(t)

	inquiry := &models.ContactInquiry{
		ID:         "c1",
		Name:       "Ada",
		Email:      "ada@example.com",
		WebsiteURL: "https://example.com",
		Message:    "I'd like a demo of the chat widget.",
		CreatedAt:  time.Now(),
	}

	require.NoError(t, client.InsertContactInquiry(inquiry))
}
