package detect

import (
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
)

// EnsembleScorer blends the lexical rule score with a secondary classifier.
// The rule score dominates; the secondary only nudges confidence. Signals
// always come from the primary so downstream consumers see rule names.
type EnsembleScorer struct {
	primary   Scorer
	secondary Scorer
	weight    float64

	scamThreshold      float64
	uncertainThreshold float64
}

// NewEnsembleScorer wraps primary and secondary with the given blend weight
// for the secondary score. Weight is clamped to [0, 1]. The thresholds
// re-bucket the blended confidence; zero values fall back to the defaults.
func NewEnsembleScorer(primary, secondary Scorer, weight, scamThreshold, uncertainThreshold float64) *EnsembleScorer {
	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}
	if scamThreshold == 0 {
		scamThreshold = DefaultScamThreshold
	}
	if uncertainThreshold == 0 {
		uncertainThreshold = DefaultUncertainThreshold
	}
	return &EnsembleScorer{
		primary:            primary,
		secondary:          secondary,
		weight:             weight,
		scamThreshold:      scamThreshold,
		uncertainThreshold: uncertainThreshold,
	}
}

// Score blends both component scores and re-buckets the result.
func (e *EnsembleScorer) Score(text string) domain.Assessment {
	pri := e.primary.Score(text)
	sec := e.secondary.Score(text)

	confidence := (1-e.weight)*pri.Confidence + e.weight*sec.Confidence
	return domain.Assessment{
		Confidence: confidence,
		Decision:   bucketFor(confidence, e.scamThreshold, e.uncertainThreshold),
		Signals:    pri.Signals,
	}
}
