package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Area is a delivery area packages originate from or are delivered to
type Area struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Initials  string    `json:"initials"` // e.g. NRB for Nairobi
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizedInitials returns the initials trimmed and upper-cased, or "" for a nil area
func (a *Area) NormalizedInitials() string {
	if a == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(a.Initials))
}
