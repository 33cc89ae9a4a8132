// Package intel extracts structured scam intelligence from message text:
// payment identifiers, phone numbers, phishing links, monetary amounts,
// and lexicon-based threat and impersonation tags, plus a derived
// enrichment pass that flags brand impersonation in link domains and UPI
// handles.
//
// Extraction is a pure function over the input text. Results are
// set-valued, so extracting the same text any number of times and merging
// the results is indistinguishable from extracting once.
package intel

import (
	"regexp"
	"strings"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
)

var (
	// linkPattern matches bare http(s) and www URLs plus bracket-wrapped
	// tokens that carry an http/www marker. Group 1 holds the bracketed
	// form when that alternative matched.
	linkPattern = regexp.MustCompile(`\[([^\]]*(?:http|www)[^\]]*)\]|https?://[^\s<>"]+|www\.[^\s<>"]+`)

	// upiPatterns cover the general local@handle shape and handle suffixes
	// of known payment providers, including digit-leading local parts.
	upiPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([a-z][a-z0-9]*@[a-z0-9]{4,15})\b`),
		regexp.MustCompile(`\b([a-z0-9]{3,}@paytm)\b`),
		regexp.MustCompile(`\b([a-z0-9]{3,}@phonepe)\b`),
		regexp.MustCompile(`\b([a-z0-9]{3,}@[a-z]+bank)\b`),
	}

	phonePattern  = regexp.MustCompile(`\+91\d{10}|\b\d{10}\b`)
	bankPattern   = regexp.MustCompile(`\b\d{4}-\d{4}-\d{4}\b`)
	amountPattern = regexp.MustCompile(`(?:rs\.?|₹|inr)\s?\d{1,7}`)
)

// Extract runs every extraction rule plus the enrichment pass over the
// text and returns the result with all categories present. Matching is
// case-insensitive; the text is lower-cased once at entry.
func Extract(text string) domain.Intelligence {
	lowered := strings.ToLower(text)
	out := domain.NewIntelligence()

	extractLinks(lowered, out)
	extractUPIIDs(lowered, out)
	out.Add(domain.CategoryPhoneNumbers, phonePattern.FindAllString(lowered, -1)...)
	out.Add(domain.CategoryBankAccounts, bankPattern.FindAllString(lowered, -1)...)
	out.Add(domain.CategoryAmounts, amountPattern.FindAllString(lowered, -1)...)

	for _, term := range suspiciousTerms {
		if strings.Contains(lowered, term) {
			out.Add(domain.CategorySuspiciousKeywords, term)
		}
	}
	for _, tp := range threatPatterns {
		for _, w := range tp.words {
			if strings.Contains(lowered, w) {
				out.Add(domain.CategoryThreatTypes, tp.label)
				break
			}
		}
	}
	for _, term := range impersonationTerms {
		if strings.Contains(lowered, term) {
			out.Add(domain.CategoryImpersonatedEntities, term)
		}
	}

	enrichDomains(out)
	enrichUPIHandles(out)
	return out
}

// extractLinks collects URL-like tokens, strips wrapping punctuation, and
// keeps only tokens long enough to be real links that still carry an http
// or www marker after cleanup.
func extractLinks(lowered string, out domain.Intelligence) {
	for _, m := range linkPattern.FindAllStringSubmatch(lowered, -1) {
		link := m[0]
		if m[1] != "" {
			link = m[1]
		}
		if len(link) <= 5 {
			continue
		}
		link = strings.Trim(link, "[]()<>")
		if !strings.Contains(link, "http") && !strings.Contains(link, "www") {
			continue
		}
		out.Add(domain.CategoryPhishingLinks, link)
	}
}

func extractUPIIDs(lowered string, out domain.Intelligence) {
	for _, p := range upiPatterns {
		out.Add(domain.CategoryUPIIDs, p.FindAllString(lowered, -1)...)
	}
}

// PaymentReferenced reports whether the text asks for or talks about a
// payment. The orchestrator feeds this into goal selection; it is a
// deliberately loose lexical check, not an extraction rule.
func PaymentReferenced(text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range []string{"pay", "transfer", "upi", "send money", "amount", "rupees", "inr", "₹"} {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return amountPattern.MatchString(lowered)
}
