package entities

import (
	"github.com/google/uuid"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
)

// RouteKey scopes sequence allocation to an ordered (origin, destination) pair.
// A->B and B->A are numbered independently.
type RouteKey struct {
	OriginAreaID      uuid.UUID `json:"originAreaId"`
	DestinationAreaID uuid.UUID `json:"destinationAreaId"`
}

// NewRouteKey builds a key for a shipment from origin to destination
func NewRouteKey(origin, destination uuid.UUID) RouteKey {
	return RouteKey{OriginAreaID: origin, DestinationAreaID: destination}
}

// IsIntraArea reports whether origin and destination are the same area
func (k RouteKey) IsIntraArea() bool {
	return k.OriginAreaID == k.DestinationAreaID
}

// Scope returns the pair the counter is keyed on. For intra-area shipments both
// sides are the single area.
func (k RouteKey) Scope() (origin, destination uuid.UUID) {
	if k.IsIntraArea() {
		return k.OriginAreaID, k.OriginAreaID
	}
	return k.OriginAreaID, k.DestinationAreaID
}

// Validate fails when either endpoint is unresolved
func (k RouteKey) Validate() error {
	if k.OriginAreaID == uuid.Nil || k.DestinationAreaID == uuid.Nil {
		return domainerrors.ErrUnresolvedRoute
	}
	return nil
}

func (k RouteKey) String() string {
	origin, destination := k.Scope()
	return origin.String() + "->" + destination.String()
}
