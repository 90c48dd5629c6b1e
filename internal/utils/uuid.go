package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateUUID generates a random UUID string without dashes
func GenerateUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewItemID returns a collision-resistant id for a list element: a short
// random part suffixed with the creation time in milliseconds
func NewItemID(prefix string) string {
	random := GenerateUUID()[:8]
	ts := time.Now().UnixMilli()
	if prefix == "" {
		return fmt.Sprintf("%s-%d", random, ts)
	}
	return fmt.Sprintf("%s-%s-%d", prefix, random, ts)
}
