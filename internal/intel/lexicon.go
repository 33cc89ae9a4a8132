package intel

// knownBankBrands are Indian bank names scammers fold into lookalike
// domains and UPI handles.
var knownBankBrands = []string{
	"sbi", "hdfc", "icici", "axis", "kotak", "pnb", "canara",
}

// commonUPIProviders are legitimate handle suffixes. A handle on this list
// is never flagged as brand impersonation.
var commonUPIProviders = []string{
	"paytm", "phonepe", "googlepay", "gpay", "bhim",
}

var suspiciousTerms = []string{
	"urgent", "verify", "blocked", "immediately", "suspension",
	"penalty", "freeze", "debit", "credit", "charge", "security",
}

// threatPatterns map a threat label to the words that assign it. Order is
// the tagging order.
var threatPatterns = []struct {
	label string
	words []string
}{
	{"account_blocked", []string{"blocked", "suspended", "freeze"}},
	{"legal_threat", []string{"legal", "court", "penalty", "case"}},
	{"payment_pressure", []string{"pay", "immediately", "today"}},
}

var impersonationTerms = []string{
	"bank", "rbi", "government", "kyc",
	"customer care", "support", "income tax",
}
