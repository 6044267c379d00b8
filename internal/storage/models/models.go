package models

import "time"

// BusinessProfile is the structured summary derived from a site's content.
// Domain is always populated from the analyzed URL's host; every other field
// may be a heuristic placeholder rather than an extracted fact.
type BusinessProfile struct {
	Domain       string       `json:"domain"`
	BusinessType string       `json:"business_type"`
	Services     []string     `json:"services"`
	Description  string       `json:"description"`
	ContactInfo  *ContactInfo `json:"contact_info,omitempty"`
	KeyFeatures  []string     `json:"key_features,omitempty"`
}

type ContactInfo struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// WebsiteAnalysis is one stored analysis run, keyed by the exact URL string
// the client submitted. CreatedAt anchors the one-hour freshness check.
type WebsiteAnalysis struct {
	ID        string
	URL       string
	Profile   *BusinessProfile
	CreatedAt time.Time
}

// ChatMessage is one turn in a session. Append-only, never mutated.
type ChatMessage struct {
	ID            string
	SessionID     string
	Message       string
	IsBot         bool
	WebsiteDomain string
	CreatedAt     time.Time
}

// ContactInquiry is a lead-capture record from the contact form.
type ContactInquiry struct {
	ID         string
	Name       string
	Email      string
	WebsiteURL string
	Message    string
	CreatedAt  time.Time
}
