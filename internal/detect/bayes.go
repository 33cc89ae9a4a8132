package detect

import (
	"math"
	"strings"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
)

// The secondary classifier is deliberately tiny: a naive-Bayes token model
// over a fixed seed set, computed once at construction. It exists as an
// optional blend signal, never as the deciding component.

var scamSeeds = []string{
	"your account blocked urgent verify now",
	"upi payment required immediately",
	"click here account suspended",
	"verify otp within 24 hours",
}

var safeSeeds = []string{
	"hello how are you",
	"meeting tomorrow 10am",
	"thanks for your email",
	"lunch at 1pm office",
}

// SeedClassifier scores messages by token log-odds against the seed sets,
// with Laplace smoothing. Deterministic, no training loop, no persistence.
type SeedClassifier struct {
	scamCounts map[string]int
	safeCounts map[string]int
	scamTotal  int
	safeTotal  int
	vocabSize  int
}

// NewSeedClassifier builds the token model from the seed sets.
func NewSeedClassifier() *SeedClassifier {
	c := &SeedClassifier{
		scamCounts: make(map[string]int),
		safeCounts: make(map[string]int),
	}
	vocab := make(map[string]struct{})
	for _, s := range scamSeeds {
		for _, tok := range tokenize(s) {
			c.scamCounts[tok]++
			c.scamTotal++
			vocab[tok] = struct{}{}
		}
	}
	for _, s := range safeSeeds {
		for _, tok := range tokenize(s) {
			c.safeCounts[tok]++
			c.safeTotal++
			vocab[tok] = struct{}{}
		}
	}
	c.vocabSize = len(vocab)
	return c
}

// Score returns the scam probability of the text under the token model.
// Signals stay empty; only the lexical scorer names signals.
func (c *SeedClassifier) Score(text string) domain.Assessment {
	logOdds := 0.0
	for _, tok := range tokenize(strings.ToLower(text)) {
		pScam := float64(c.scamCounts[tok]+1) / float64(c.scamTotal+c.vocabSize)
		pSafe := float64(c.safeCounts[tok]+1) / float64(c.safeTotal+c.vocabSize)
		logOdds += math.Log(pScam) - math.Log(pSafe)
	}

	confidence := 1.0 / (1.0 + math.Exp(-logOdds))
	return domain.Assessment{
		Confidence: confidence,
		Decision:   bucketFor(confidence, DefaultScamThreshold, DefaultUncertainThreshold),
		Signals:    []string{},
	}
}

// tokenize splits on whitespace and trims surrounding punctuation.
func tokenize(s string) []string {
	fields := strings.Fields(s)
	toks := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?:;\"'()[]<>")
		if f != "" {
			toks = append(toks, f)
		}
	}
	return toks
}
