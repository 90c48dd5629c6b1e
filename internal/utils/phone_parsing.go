package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used for numbers entered without a country code
const DefaultPhoneRegion = "IN"

// PhoneComponents represents the parsed components of a phone number
type PhoneComponents struct {
	CountryCode    string `json:"countryCode"`
	NationalNumber string `json:"nationalNumber"`
	E164           string `json:"e164"`
	International  string `json:"international"`
}

// ParsePhoneNumber parses a phone number, assuming India when no country code is given
func ParsePhoneNumber(phoneString string) (*PhoneComponents, error) {
	cleanPhone := strings.TrimSpace(phoneString)
	if cleanPhone == "" {
		return nil, fmt.Errorf("empty phone number")
	}

	num, err := phonenumbers.Parse(cleanPhone, DefaultPhoneRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	return &PhoneComponents{
		CountryCode:    fmt.Sprintf("%d", num.GetCountryCode()),
		NationalNumber: phonenumbers.GetNationalSignificantNumber(num),
		E164:           phonenumbers.Format(num, phonenumbers.E164),
		International:  phonenumbers.Format(num, phonenumbers.INTERNATIONAL),
	}, nil
}

// FormatPhoneForDisplay returns the international form of a phone number,
// or the trimmed input when it cannot be parsed
func FormatPhoneForDisplay(phoneString string) string {
	components, err := ParsePhoneNumber(phoneString)
	if err != nil {
		return strings.TrimSpace(phoneString)
	}
	return components.International
}

// PhoneTelURI returns a tel: link for a phone number, or "" when it cannot be parsed
func PhoneTelURI(phoneString string) string {
	components, err := ParsePhoneNumber(phoneString)
	if err != nil {
		return ""
	}
	return "tel:" + components.E164
}
