package chat

import (
	"fmt"
	"strings"

	"github.com/webotyou/backend/internal/storage/models"
)

// NoProfileReply is returned, without any model call, when the session has no
// analyzed website to ground on.
const NoProfileReply = "I'd be happy to help you! 😊 Please first analyze a website using the 'Bot It!' button above, then I can answer any questions you have about that specific business. I'm here to assist you every step of the way!"

// EmptyCompletionReply stands in for a model completion that came back blank.
const EmptyCompletionReply = "I'm sorry, I couldn't generate a response. Please try again."

// FallbackReply answers from the profile fields directly when the model is
// unavailable. Rules are evaluated in order and the first match wins, so a
// message hitting several categories always resolves to the earliest rule.
func FallbackReply(message string, profile *models.BusinessProfile) string {
	messageLower := strings.ToLower(message)

	domain := profile.Domain
	if domain == "" {
		domain = "this business"
	}
	businessType := profile.BusinessType
	if businessType == "" {
		businessType = "business"
	}

	switch {
	case strings.Contains(messageLower, "what") &&
		(strings.Contains(messageLower, "do") || strings.Contains(messageLower, "service")):
		return servicesReply(domain, businessType, profile)

	case containsAny(messageLower, "contact", "reach", "phone", "email"):
		return contactReply(domain, profile.ContactInfo)

	case containsAny(messageLower, "price", "cost", "how much"):
		return fmt.Sprintf("That's a great question about pricing! Unfortunately, I don't have access to %s's current pricing information from my website analysis. I'd recommend visiting their website directly or contacting them for the most accurate and up-to-date pricing details. Most businesses are happy to provide quotes or pricing information when you reach out to them. Is there anything else about their business I can help you with?", domain)

	case containsAny(messageLower, "hour", "open", "when"):
		return fmt.Sprintf("I don't have the specific operating hours for %s from my analysis. For the most accurate information about their business hours, I'd suggest checking their website directly or giving them a call. Many businesses also list their hours on their contact page or in their website footer. Is there anything else about their business I can help you with?", domain)

	case containsAny(messageLower, "location", "where", "address"):
		return locationReply(domain, profile.ContactInfo)

	default:
		return fmt.Sprintf("Thank you for your question about %s! While I'd love to provide more specific details, my analysis shows they're a %s offering services like %s. For the most detailed and current information, I recommend visiting their website directly or contacting them. They'll be the best source for specific questions about their business. Is there anything else I can help you with? 😊",
			domain, strings.ToLower(businessType), strings.Join(firstN(profile.Services, 2), " and "))
	}
}

func servicesReply(domain, businessType string, profile *models.BusinessProfile) string {
	description := profile.Description
	if description == "" {
		description = "They maintain a professional online presence to serve their customers."
	}
	return fmt.Sprintf("Great question! Based on my analysis, %s appears to be a %s. Their main services include: %s. %s Is there anything specific about their services you'd like to know more about?",
		domain, strings.ToLower(businessType), strings.Join(profile.Services, ", "), description)
}

func contactReply(domain string, info *models.ContactInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I'd be happy to help you get in touch with %s! ", domain)

	hasAny := false
	if info != nil && info.Email != "" {
		fmt.Fprintf(&b, "You can reach them via email at %s. ", info.Email)
		hasAny = true
	}
	if info != nil && info.Phone != "" {
		fmt.Fprintf(&b, "Their phone number is %s. ", info.Phone)
		hasAny = true
	}
	if !hasAny {
		fmt.Fprintf(&b, "While I don't have their direct contact information from my analysis, I recommend visiting their website at %s where you should find their contact details in the header, footer, or contact page. ", domain)
	}

	b.WriteString("Most businesses also respond to inquiries through their website's contact form. How else can I assist you?")
	return b.String()
}

func locationReply(domain string, info *models.ContactInfo) string {
	if info != nil && info.Address != "" {
		return fmt.Sprintf("According to my analysis, %s is located at %s. For the most current location information and directions, I'd recommend checking their website or contacting them directly. How else can I assist you today?", domain, info.Address)
	}
	return fmt.Sprintf("I don't have the specific location information for %s from my analysis. You can typically find this information on their website's contact page or footer. Many businesses also provide location details and maps on their \"About Us\" or \"Contact\" pages. Is there anything else I can help you with?", domain)
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}
