package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackProfileCategories(t *testing.T) {
	tests := []struct {
		domain       string
		businessType string
	}{
		{"myshop.com", "E-commerce Business"},
		{"bigstore.io", "E-commerce Business"},
		{"techwave.dev", "Technology Company"},
		{"dailynews.org", "Media & Publishing"},
		{"cityschool.org", "Educational Institution"},
		{"healthfirst.com", "Healthcare Provider"},
		{"mybank.com", "Financial Services"},
		{"cornercafe.com", "Food & Beverage Business"},
		{"example.com", "Professional Business"},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			profile := FallbackProfile(tt.domain)
			assert.Equal(t, tt.businessType, profile.BusinessType)
		})
	}
}

func TestFallbackProfileShape(t *testing.T) {
	profile := FallbackProfile("example.com")

	assert.Equal(t, "example.com", profile.Domain)
	assert.NotEmpty(t, profile.Services)
	assert.NotEmpty(t, profile.Description)
	assert.Contains(t, profile.Description, "example.com")
	require.NotNil(t, profile.ContactInfo)
	assert.Equal(t, "info@example.com", profile.ContactInfo.Email)
	assert.Len(t, profile.KeyFeatures, 3)
}

func TestFallbackProfileServicesMatchCategory(t *testing.T) {
	profile := FallbackProfile("techwave.dev")
	assert.Contains(t, profile.Services, "Software Development")

	profile = FallbackProfile("myshop.com")
	assert.Contains(t, profile.Services, "Online Shopping")

	profile = FallbackProfile("example.com")
	assert.Contains(t, profile.Services, "Professional Services")
}
