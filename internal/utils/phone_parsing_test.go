package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhoneNumber(t *testing.T) {
	tests := []struct {
		name         string
		phoneString  string
		wantCountry  string
		wantNational string
		wantE164     string
		wantErr      bool
	}{
		{
			name:         "Indian mobile without country code",
			phoneString:  "9876543210",
			wantCountry:  "91",
			wantNational: "9876543210",
			wantE164:     "+919876543210",
		},
		{
			name:         "Indian mobile with country code and spaces",
			phoneString:  " +91 98765 43210 ",
			wantCountry:  "91",
			wantNational: "9876543210",
			wantE164:     "+919876543210",
		},
		{
			name:         "Indian mobile with trunk prefix",
			phoneString:  "09876543210",
			wantCountry:  "91",
			wantNational: "9876543210",
			wantE164:     "+919876543210",
		},
		{
			name:         "international number keeps its country",
			phoneString:  "+14155552671",
			wantCountry:  "1",
			wantNational: "4155552671",
			wantE164:     "+14155552671",
		},
		{name: "empty", phoneString: "  ", wantErr: true},
		{name: "letters", phoneString: "call the office", wantErr: true},
		{name: "too short", phoneString: "12345", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePhoneNumber(tt.phoneString)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCountry, got.CountryCode)
			assert.Equal(t, tt.wantNational, got.NationalNumber)
			assert.Equal(t, tt.wantE164, got.E164)
		})
	}
}

func TestFormatPhoneForDisplay(t *testing.T) {
	assert.Equal(t, "+91 98765 43210", FormatPhoneForDisplay("9876543210"))
	assert.Equal(t, "ext. 204", FormatPhoneForDisplay(" ext. 204 "))
}

func TestPhoneTelURI(t *testing.T) {
	assert.Equal(t, "tel:+919876543210", PhoneTelURI("98765-43210"))
	assert.Equal(t, "", PhoneTelURI("n/a"))
}
