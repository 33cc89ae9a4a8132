package domain

import (
	"encoding/json"
	"sort"
)

// Category names an intelligence bucket. The string values are the wire
// keys used in the final report payload.
type Category string

const (
	CategoryUPIIDs               Category = "upiIds"
	CategoryBankAccounts         Category = "bankAccounts"
	CategoryPhishingLinks        Category = "phishingLinks"
	CategoryPhoneNumbers         Category = "phoneNumbers"
	CategoryAmounts              Category = "amounts"
	CategorySuspiciousKeywords   Category = "suspiciousKeywords"
	CategoryThreatTypes          Category = "threatTypes"
	CategoryImpersonatedEntities Category = "impersonatedEntities"
	CategoryDomains              Category = "domains"
	CategoryDomainImpersonation  Category = "domainImpersonation"
	CategoryUPIProviders         Category = "upiProviders"
	CategoryUPIImpersonation     Category = "upiImpersonation"
)

// AllCategories lists every category in report order. Every Intelligence
// value carries all of them, so consumers never branch on missing keys.
var AllCategories = []Category{
	CategoryUPIIDs,
	CategoryBankAccounts,
	CategoryPhishingLinks,
	CategoryPhoneNumbers,
	CategoryAmounts,
	CategorySuspiciousKeywords,
	CategoryThreatTypes,
	CategoryImpersonatedEntities,
	CategoryDomains,
	CategoryDomainImpersonation,
	CategoryUPIProviders,
	CategoryUPIImpersonation,
}

// Intelligence maps categories to sets of distinct string values. Values
// are sets: merging the same artifact twice never duplicates it.
type Intelligence map[Category]map[string]struct{}

// NewIntelligence returns an Intelligence with every category present and
// empty.
func NewIntelligence() Intelligence {
	in := make(Intelligence, len(AllCategories))
	for _, c := range AllCategories {
		in[c] = make(map[string]struct{})
	}
	return in
}

// Add inserts values into a category, skipping empty strings.
func (in Intelligence) Add(c Category, values ...string) {
	set, ok := in[c]
	if !ok {
		set = make(map[string]struct{})
		in[c] = set
	}
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
}

// Merge unions another Intelligence into this one. Absent or empty
// categories in other are no-ops.
func (in Intelligence) Merge(other Intelligence) {
	for c, set := range other {
		for v := range set {
			in.Add(c, v)
		}
	}
}

// Values returns the sorted values of a category.
func (in Intelligence) Values(c Category) []string {
	set := in[c]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Has reports whether a category holds at least one value.
func (in Intelligence) Has(c Category) bool {
	return len(in[c]) > 0
}

// Count returns the total number of collected values across categories.
func (in Intelligence) Count() int {
	n := 0
	for _, set := range in {
		n += len(set)
	}
	return n
}

// HasPaymentArtifact reports whether any payment-identifying artifact has
// been collected: a UPI id, a bank account, or a phishing link.
func (in Intelligence) HasPaymentArtifact() bool {
	return in.Has(CategoryUPIIDs) || in.Has(CategoryBankAccounts) || in.Has(CategoryPhishingLinks)
}

// HasContactArtifact reports whether a phone number has been collected.
func (in Intelligence) HasContactArtifact() bool {
	return in.Has(CategoryPhoneNumbers)
}

// Clone returns a deep copy.
func (in Intelligence) Clone() Intelligence {
	out := make(Intelligence, len(in))
	for c, set := range in {
		cp := make(map[string]struct{}, len(set))
		for v := range set {
			cp[v] = struct{}{}
		}
		out[c] = cp
	}
	return out
}

// Serialized converts the sets to sorted slices for wire transmission.
// Sorting makes report payloads reproducible across runs.
func (in Intelligence) Serialized() map[string][]string {
	out := make(map[string][]string, len(AllCategories))
	for _, c := range AllCategories {
		vals := in.Values(c)
		if vals == nil {
			vals = []string{}
		}
		out[string(c)] = vals
	}
	return out
}

// MarshalJSON emits the serialized (sorted-slice) form.
func (in Intelligence) MarshalJSON() ([]byte, error) {
	return json.Marshal(in.Serialized())
}

// UnmarshalJSON accepts the serialized form and rebuilds the sets. Used by
// the SQLite store, which persists intelligence as a JSON column.
func (in *Intelligence) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rebuilt := NewIntelligence()
	for k, vals := range raw {
		rebuilt.Add(Category(k), vals...)
	}
	*in = rebuilt
	return nil
}
