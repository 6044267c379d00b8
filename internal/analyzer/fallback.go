package analyzer

import (
	"fmt"
	"strings"

	"github.com/webotyou/backend/internal/storage/models"
)

type domainCategory struct {
	keywords     []string
	businessType string
	services     []string
}

// Ordered keyword table for the heuristic profile. First matching category
// wins; the final entry is the catch-all.
var domainCategories = []domainCategory{
	{
		keywords:     []string{"shop", "store", "market"},
		businessType: "E-commerce Business",
		services:     []string{"Online Shopping", "Product Sales", "Customer Support", "Shipping Services"},
	},
	{
		keywords:     []string{"tech", "software", "app"},
		businessType: "Technology Company",
		services:     []string{"Software Development", "Technical Support", "Consulting Services", "Digital Solutions"},
	},
	{
		keywords:     []string{"blog", "news", "media"},
		businessType: "Media & Publishing",
		services:     []string{"Content Publishing", "News & Updates", "Community Engagement", "Information Sharing"},
	},
	{
		keywords:     []string{"edu", "school", "university"},
		businessType: "Educational Institution",
		services:     []string{"Courses & Programs", "Student Services", "Online Learning", "Academic Resources"},
	},
	{
		keywords:     []string{"health", "medical", "clinic"},
		businessType: "Healthcare Provider",
		services:     []string{"Patient Care", "Medical Consultations", "Appointment Booking", "Health Information"},
	},
	{
		keywords:     []string{"finance", "bank", "loan"},
		businessType: "Financial Services",
		services:     []string{"Financial Planning", "Account Services", "Lending Solutions", "Customer Advisory"},
	},
	{
		keywords:     []string{"food", "restaurant", "cafe"},
		businessType: "Food & Beverage Business",
		services:     []string{"Dining Services", "Menu & Ordering", "Reservations", "Catering"},
	},
}

var genericServices = []string{"Professional Services", "Customer Support", "Online Presence", "Business Solutions"}

var fallbackKeyFeatures = []string{"Professional website", "Domain verified", "Online presence established"}

// FallbackProfile derives a deterministic profile from the domain name alone.
// Terminal error boundary for the analysis path: it never fails.
func FallbackProfile(domain string) *models.BusinessProfile {
	businessType := inferBusinessType(domain)
	services := commonServices(domain)

	return &models.BusinessProfile{
		Domain:       domain,
		BusinessType: businessType,
		Services:     services,
		Description: fmt.Sprintf(
			"This appears to be %s website at %s. While I couldn't access detailed content due to technical limitations, I can still help answer general questions about their online presence and typical services in this industry.",
			strings.ToLower(businessType), domain),
		ContactInfo: &models.ContactInfo{
			Email: fmt.Sprintf("info@%s", domain),
		},
		KeyFeatures: fallbackKeyFeatures,
	}
}

func inferBusinessType(domain string) string {
	domainLower := strings.ToLower(domain)

	for _, cat := range domainCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(domainLower, kw) {
				return cat.businessType
			}
		}
	}

	return "Professional Business"
}

func commonServices(domain string) []string {
	domainLower := strings.ToLower(domain)

	for _, cat := range domainCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(domainLower, kw) {
				return cat.services
			}
		}
	}

	return genericServices
}
