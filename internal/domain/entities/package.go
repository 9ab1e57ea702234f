package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Package is the slice of a shipped package this core reads and writes.
// SequenceNumber is null for fallback codes, Code is null until generated.
type Package struct {
	ID                uuid.UUID   `json:"id"`
	OriginAreaID      uuid.UUID   `json:"originAreaId"`
	DestinationAreaID uuid.UUID   `json:"destinationAreaId"`
	SequenceNumber    null.Int64  `json:"sequenceNumber"`
	Code              null.String `json:"code"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`

	// Joins
	OriginArea      *Area `json:"originArea,omitempty"`
	DestinationArea *Area `json:"destinationArea,omitempty"`
}

// HasCode reports whether a code has already been assigned
func (p *Package) HasCode() bool {
	return p.Code.Valid && p.Code.String != ""
}

// RouteKey derives the allocation scope from the package's areas
func (p *Package) RouteKey() RouteKey {
	return NewRouteKey(p.OriginAreaID, p.DestinationAreaID)
}
