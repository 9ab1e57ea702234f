package usecases

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// UnknownInitials stands in for a destination without initials
	UnknownInitials = "UNK"
	// FallbackCodePrefix marks codes issued without a sequence
	FallbackCodePrefix = "PKG-"

	fallbackTokenLength = 8
)

var newFallbackToken = func() string {
	return uuid.New().String()
}

// FormatCode renders ORIGIN-SEQ for intra-area shipments and ORIGIN-SEQ-DEST
// otherwise. Sequences are padded to three digits and grow past 999 unpadded.
func FormatCode(originInitials, destinationInitials string, sequence int64, intraArea bool) string {
	origin := normalizeInitials(originInitials)
	seq := fmt.Sprintf("%03d", sequence)
	if intraArea {
		return origin + "-" + seq
	}

	dest := normalizeInitials(destinationInitials)
	if dest == "" {
		dest = UnknownInitials
	}
	return origin + "-" + seq + "-" + dest
}

// FallbackCode returns PKG- followed by 8 uppercase hex characters of a random uuid
func FallbackCode() string {
	token := strings.ToUpper(strings.ReplaceAll(newFallbackToken(), "-", ""))
	if len(token) > fallbackTokenLength {
		token = token[:fallbackTokenLength]
	}
	return FallbackCodePrefix + token
}

func normalizeInitials(initials string) string {
	return strings.ToUpper(strings.TrimSpace(initials))
}
