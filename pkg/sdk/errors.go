package bizlist

import "github.com/kailas-cloud/bizlist/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation          = domain.ErrValidation
	ErrStore               = domain.ErrStore
	ErrInternalConsistency = domain.ErrInternalConsistency
)

// IsUnavailable reports whether err is a store connection failure or timeout,
// the cases worth retrying.
func IsUnavailable(err error) bool {
	kind, ok := domain.StoreKindOf(err)
	return ok && (kind == domain.StoreConnectionFailure || kind == domain.StoreTimeout)
}
