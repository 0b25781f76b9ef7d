package utils

import (
	"fmt"
	"strings"

	"github.com/teyman11/voicebot/internal/entity"
)

// Fallback texts used when the backing sheet cannot be read; the call
// still connects, just without live data.
const (
	MenuUnavailable = "Menu temporarily unavailable"
	FAQsUnavailable = "FAQ information temporarily unavailable"
)

// MenuSummary renders menu items grouped by category as a single spoken
// line, e.g. "Mains: Burger - $10.00, Pasta - $12.50. Drinks: Cola - $3.00. ".
// Categories appear in first-seen order; items without one fall under
// "Other".
func MenuSummary(items []entity.MenuItem) string {
	var categories []string
	grouped := make(map[string][]string)

	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "Other"
		}
		if _, seen := grouped[category]; !seen {
			categories = append(categories, category)
		}
		grouped[category] = append(grouped[category], fmt.Sprintf("%s - $%.2f", item.Name, item.Price))
	}

	var b strings.Builder
	for _, category := range categories {
		fmt.Fprintf(&b, "%s: %s. ", category, strings.Join(grouped[category], ", "))
	}
	return b.String()
}

// FAQSummary renders FAQs as "Q: ... A: ... " pairs, skipping entries
// missing either side.
func FAQSummary(faqs []entity.FAQ) string {
	var b strings.Builder
	for _, faq := range faqs {
		if faq.Question == "" || faq.Answer == "" {
			continue
		}
		fmt.Fprintf(&b, "Q: %s A: %s ", faq.Question, faq.Answer)
	}
	return b.String()
}
