// Package policy owns the dialogue strategy of the honeypot persona: which
// piece of intelligence to chase next, the deterministic prompt built for
// that goal, when a session has yielded enough to stop, and the content
// filter that keeps generated replies in character.
//
// Everything here is a pure function over session state. The orchestrator
// in internal/agent decides when to call what; policy never touches the
// store or the network.
package policy

import "github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"

// NextGoal picks the conversational objective for the next reply from the
// accumulated intelligence and whether the counterpart's latest message
// pushed for a payment. First match wins:
//
//  1. payment pushed but no payment identifier yet → ask how to pay
//  2. payment identifier known but no phone number → ask for a phone
//  3. payment identifier known → confirm the details back
//  4. nothing actionable yet → keep the conversation alive
func NextGoal(intel domain.Intelligence, paymentRequested bool) domain.Goal {
	hasUPI := intel.Has(domain.CategoryUPIIDs)
	hasBank := intel.Has(domain.CategoryBankAccounts)
	hasPhone := intel.Has(domain.CategoryPhoneNumbers)

	switch {
	case paymentRequested && !hasUPI && !hasBank:
		return domain.GoalAskForPayment
	case hasUPI && !hasPhone:
		return domain.GoalAskForPhone
	case hasUPI:
		return domain.GoalConfirmDetails
	default:
		return domain.GoalKeepEngaged
	}
}

// RefineGoal upgrades confirm_details to the alternate-payment variant when
// the counterpart is pushing a new payment route even though an identifier
// was already collected. The priority order of NextGoal is otherwise
// untouched.
func RefineGoal(goal domain.Goal, paymentRequested bool) domain.Goal {
	if goal == domain.GoalConfirmDetails && paymentRequested {
		return domain.GoalAskForAlternatePayment
	}
	return goal
}
