package policy

import (
	"fmt"
	"strings"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
)

// PersonaSystemPrompt is the system role for every generation. The persona
// never changes mid-session; the per-turn goal rides in the user prompt.
const PersonaSystemPrompt = "You are a confused elderly Indian user engaging with scammers to extract information. " +
	"Stay in character: worried, cooperative, slightly slow to understand. " +
	"Write 1-2 short sentences in simple Indian English, small typos are fine. " +
	"Never mention scam, fraud, police, or that you suspect anything."

// FallbackLine is the reply used when generation fails or the generated
// text breaks character. It re-asks for the one identifier scammers
// volunteer most readily.
const FallbackLine = "Why do you need my UPI ID sir ?"

// ClosingMessage is the fixed final reply sent when the stop rule fires.
// It promises compliance without delivering anything, buying time while
// the report goes out.
const ClosingMessage = "Ok sir, I will do it now and call you back after some time. My grandson is coming to help me with the phone."

// goalAsks maps each goal to the explicit instruction appended after the
// transcript. The second-person framing keeps the model anchored on what
// the counterpart wants rather than inventing its own storyline.
var goalAsks = map[domain.Goal]string{
	domain.GoalAskForPhone: "I am very worried now. " +
		"Please give me a phone number to talk to real person.",
	domain.GoalAskForPayment: "You are asking me to send money now. " +
		"I dont understand how to do that." +
		"Please explain what payment method YOU want me to use.",
	domain.GoalAskForAlternatePayment: "If this does not work, " +
		"what OTHER payment do YOU want me to use?",
	domain.GoalConfirmDetails: "You already told me how to pay, " +
		"but I am not sure I understood." +
		"Please explain again what YOU want me to do.",
	domain.GoalKeepEngaged: "Please explain clearly what YOU want me to do now.",
}

// BuildPrompt renders the deterministic user prompt for one generation:
// scared-persona framing, the transcript excerpt, then the ask for the
// current goal. Unknown goals fall back to the keep-engaged ask.
func BuildPrompt(goal domain.Goal, excerpt string) string {
	ask, ok := goalAsks[goal]
	if !ok {
		ask = goalAsks[domain.GoalKeepEngaged]
	}

	var b strings.Builder
	b.WriteString("You are being told YOUR account is blocked or in danger. ")
	b.WriteString("YOU are scared and confused. ")
	b.WriteString("The other person is demanding action from YOU.\n\n")
	fmt.Fprintf(&b, "Conversation:\n%s\n\n", excerpt)
	b.WriteString(ask)
	return b.String()
}

// Excerpt renders the last n transcript messages as "origin: text" lines,
// oldest first. n of zero or less means the whole transcript.
func Excerpt(messages []domain.Message, n int) string {
	if n > 0 && len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.From, m.Text))
	}
	return strings.Join(lines, "\n")
}
