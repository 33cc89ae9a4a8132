package policy

import "github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"

// ShouldStop reports whether the session has yielded enough to file the
// final report: a payment artifact (UPI ID, bank account, or phishing
// link) together with at least one phone number, or a transcript that has
// reached hardCeiling messages. A ceiling of zero or less never triggers
// the length stop.
func ShouldStop(intel domain.Intelligence, totalMessages, hardCeiling int) bool {
	if intel.HasPaymentArtifact() && intel.HasContactArtifact() {
		return true
	}
	return hardCeiling > 0 && totalMessages >= hardCeiling
}
