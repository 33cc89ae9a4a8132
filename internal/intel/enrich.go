package intel

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/domain"
)

// enrichDomains parses the network location out of each collected link and
// flags hosts that carry a bank brand without sitting on the bank's
// legitimate .co.in suffix. Unparseable links are skipped.
func enrichDomains(out domain.Intelligence) {
	for _, link := range out.Values(domain.CategoryPhishingLinks) {
		raw := link
		if !strings.HasPrefix(raw, "http") {
			raw = "http://" + raw
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}
		host := strings.ToLower(parsed.Host)
		if host == "" {
			continue
		}
		out.Add(domain.CategoryDomains, host)

		for _, brand := range knownBankBrands {
			if strings.Contains(host, brand) && !strings.HasSuffix(host, ".co.in") {
				out.Add(domain.CategoryDomainImpersonation,
					fmt.Sprintf("Domain '%s' may impersonate %s", host, strings.ToUpper(brand)))
			}
		}
	}
}

// enrichUPIHandles records the provider handle of each collected UPI id
// and flags handles that embed a bank brand but are not one of the known
// legitimate providers.
func enrichUPIHandles(out domain.Intelligence) {
	for _, id := range out.Values(domain.CategoryUPIIDs) {
		if !strings.Contains(id, "@") {
			continue
		}
		handle := strings.ToLower(strings.Split(id, "@")[1])
		out.Add(domain.CategoryUPIProviders, handle)

		for _, brand := range knownBankBrands {
			if strings.Contains(handle, brand) && !isCommonProvider(handle) {
				out.Add(domain.CategoryUPIImpersonation,
					fmt.Sprintf("UPI handle '%s' may impersonate %s", handle, strings.ToUpper(brand)))
			}
		}
	}
}

func isCommonProvider(handle string) bool {
	for _, p := range commonUPIProviders {
		if handle == p {
			return true
		}
	}
	return false
}
