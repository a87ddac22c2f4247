// Package phone normalizes Kenyan MSISDNs to the wire format the payment
// gateway expects.
package phone

import (
	"fmt"
	"strings"
)

// Normalize converts a subscriber number to international format without a
// plus sign. A leading "0" is replaced with the country code, a leading "+"
// is stripped, and numbers already starting with the country code pass
// through unchanged.
func Normalize(msisdn, countryCode string) (string, error) {
	msisdn = strings.TrimSpace(msisdn)
	if msisdn == "" {
		return "", fmt.Errorf("phone number is required")
	}

	msisdn = strings.TrimPrefix(msisdn, "+")
	if strings.HasPrefix(msisdn, "0") {
		msisdn = countryCode + msisdn[1:]
	}

	for _, r := range msisdn {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("phone number %q contains non-digit characters", msisdn)
		}
	}
	if !strings.HasPrefix(msisdn, countryCode) {
		return "", fmt.Errorf("phone number %q is outside country code %s", msisdn, countryCode)
	}

	return msisdn, nil
}
