// Package detect implements the risk scorer that decides whether an
// incoming message looks like a scam.
//
// Scoring philosophy:
//
//	Each signal contributes a fixed non-negative weight and fires at most
//	once per message. Weights are additive and the total is capped at 1.0.
//	The decision bucket is a pure function of the final confidence, so the
//	thresholds here are the single source of truth for "scam" vs
//	"uncertain" vs "safe" everywhere downstream.
//
// Scorers are pure functions over the message text: no state, no side
// effects, safe for any number of concurrent callers.
package detect

import (
	"strings"
	"unicode"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
)

// Default decision thresholds.
const (
	DefaultScamThreshold      = 0.7
	DefaultUncertainThreshold = 0.4
)

// Scorer assesses one message. Implementations must be concurrency-safe.
type Scorer interface {
	Score(text string) domain.Assessment
}

// signalRule is one additive heuristic. match receives the raw text and a
// pre-lowered copy; all rules except the style check use the lowered form.
type signalRule struct {
	name   string
	weight float64
	match  func(raw, lowered string) bool
}

// signalRules fire in this order; the order is also the emitted signal order.
var signalRules = []signalRule{
	{domain.SignalUrgency, 0.15, matchAny(urgencyKeywords)},
	{domain.SignalThreat, 0.15, matchAny(threatKeywords)},
	{domain.SignalActionRequest, 0.15, matchAny(actionKeywords)},
	{domain.SignalAuthorityImpersonation, 0.10, matchAny(authorityKeywords)},
	{domain.SignalSensitiveInfoRequest, 0.15, matchAny(sensitiveInfoKeywords)},
	{domain.SignalSuspiciousURL, 0.15, hasSuspiciousURL},
	{domain.SignalGrammarAnomaly, 0.10, hasStyleAnomaly},
}

// RuleScorer is the additive keyword/heuristic scorer.
type RuleScorer struct {
	scamThreshold      float64
	uncertainThreshold float64
}

// NewRuleScorer creates a scorer with the given bucket thresholds. Zero
// values fall back to the defaults.
func NewRuleScorer(scamThreshold, uncertainThreshold float64) *RuleScorer {
	if scamThreshold == 0 {
		scamThreshold = DefaultScamThreshold
	}
	if uncertainThreshold == 0 {
		uncertainThreshold = DefaultUncertainThreshold
	}
	return &RuleScorer{
		scamThreshold:      scamThreshold,
		uncertainThreshold: uncertainThreshold,
	}
}

// Score runs every signal rule over the message and buckets the capped sum.
func (s *RuleScorer) Score(text string) domain.Assessment {
	lowered := strings.ToLower(text)

	confidence := 0.0
	signals := []string{}
	for _, rule := range signalRules {
		if rule.match(text, lowered) {
			confidence += rule.weight
			signals = append(signals, rule.name)
		}
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return domain.Assessment{
		Confidence: confidence,
		Decision:   bucketFor(confidence, s.scamThreshold, s.uncertainThreshold),
		Signals:    signals,
	}
}

// bucketFor maps a confidence value to its decision bucket.
func bucketFor(confidence, scamThreshold, uncertainThreshold float64) domain.Decision {
	switch {
	case confidence >= scamThreshold:
		return domain.DecisionScam
	case confidence >= uncertainThreshold:
		return domain.DecisionUncertain
	default:
		return domain.DecisionSafe
	}
}

func matchAny(keywords []string) func(raw, lowered string) bool {
	return func(_, lowered string) bool {
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				return true
			}
		}
		return false
	}
}

// hasSuspiciousURL fires on the first URL carrying a risky TLD or a
// shortener host. One hit covers the whole message regardless of how many
// URLs it contains.
func hasSuspiciousURL(_, lowered string) bool {
	for _, url := range urlPattern.FindAllString(lowered, -1) {
		for _, tld := range suspiciousTLDs {
			if strings.Contains(url, tld) {
				return true
			}
		}
		for _, short := range urlShorteners {
			if strings.Contains(url, short) {
				return true
			}
		}
	}
	return false
}

// hasStyleAnomaly flags shouting, excessive terminal punctuation, or a very
// short message that still carries urgency wording.
func hasStyleAnomaly(raw, lowered string) bool {
	if isAllUpper(raw) {
		return true
	}
	if strings.Contains(raw, "!!!") || strings.Contains(raw, "???") {
		return true
	}
	if len(strings.Fields(raw)) < 5 {
		for _, kw := range urgencyKeywords {
			if strings.Contains(lowered, kw) {
				return true
			}
		}
	}
	return false
}

// isAllUpper reports whether the text contains at least one letter and no
// lower-case letters.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
