package observability

import (
	"github.com/viet-college/app-dept-pages/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskEmail hides the local part of an email address for logging
func MaskEmail(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			if i == 0 {
				return "***" + email
			}
			return email[:1] + "***" + email[i:]
		}
	}
	return "***"
}
