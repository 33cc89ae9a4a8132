package policy

import "strings"

// blockedPhrases break the persona: a scared victim would not direct the
// caller to customer care or warn about fraud. Matched case-insensitively
// anywhere in the generated text.
var blockedPhrases = []string{
	"customer care",
	"helpline",
	"toll free",
	"cyber cell",
	"police",
	"report this",
	"do not share",
	"never share",
	"official website",
	"search online",
	"google it",
	"this is a scam",
	"fraud",
}

// FilterReply replaces any generated text containing a persona-breaking
// phrase with the fixed fallback line. The second return reports whether
// the replacement happened.
func FilterReply(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, phrase := range blockedPhrases {
		if strings.Contains(lower, phrase) {
			return FallbackLine, true
		}
	}
	return text, false
}
