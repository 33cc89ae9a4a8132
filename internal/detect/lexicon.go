package detect

import "regexp"

// Keyword lexicons behind the rule signals. Matching is substring-based on
// lower-cased text, so multi-word entries like "24 hours" work unchanged.

var urgencyKeywords = []string{
	"immediately", "urgent", "today", "now", "within", "24 hours", "limited time",
}

var threatKeywords = []string{
	"blocked", "suspended", "terminated", "legal action", "penalty", "frozen",
}

var actionKeywords = []string{
	"verify", "click", "login", "pay", "transfer", "update", "confirm",
}

var authorityKeywords = []string{
	"bank", "government", "support", "customer care", "admin", "official",
}

var sensitiveInfoKeywords = []string{
	"otp", "pin", "password", "cvv", "account number", "upi",
}

// suspiciousTLDs are top-level domains disproportionately used for
// throwaway phishing sites.
var suspiciousTLDs = []string{
	".xyz", ".top", ".info", ".click", ".link",
}

// urlShorteners hide the destination domain from the victim.
var urlShorteners = []string{
	"bit.ly", "tinyurl", "goo.gl", "t.co",
}

var urlPattern = regexp.MustCompile(`https?://\S+`)
