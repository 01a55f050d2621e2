package listing

import (
	"math/big"
	"time"

	"github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
)

// Listing holds the sale terms currently attached to an asset. The
// registry keeps at most one record per asset id; relisting overwrites
// the previous record instead of appending.
type Listing struct {
	Seller domain.Address `json:"seller" bson:"seller"`
	// SalePrice is denominated in the smallest unit of Currency.
	SalePrice *big.Int  `json:"salePrice" bson:"salePrice"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
	// Currency is domain.NativeCurrency for the native coin, otherwise
	// the fungible token contract address.
	Currency domain.Address `json:"currency" bson:"currency"`
	// HistoricalPrice is what the current owner paid for the asset and
	// forms the royalty-exempt baseline. Zero when unknown.
	HistoricalPrice *big.Int `json:"historicalPrice" bson:"historicalPrice"`
}

// IsActive reports whether the listing is purchasable at the given time.
func (l *Listing) IsActive(now time.Time) bool {
	if l == nil || l.SalePrice == nil || l.SalePrice.Sign() <= 0 {
		return false
	}
	return !l.ExpiresAt.Before(now)
}

// Registry owns the single current listing per asset. It is the only
// component holding listing state.
type Registry interface {
	// Set overwrites the listing for id after validating price, expiry
	// and the caller's authority over the asset.
	Set(c ctx.Ctx, id asset.Id, l Listing, caller domain.Address) error
	// Remove resets an active listing to its empty state. Removing an
	// inactive listing fails with domain.ErrInvalidListing.
	Remove(c ctx.Ctx, id asset.Id, caller domain.Address) error
	// Invalidate unconditionally resets the listing for id. It is
	// idempotent; invalidating an inactive listing is a no-op that
	// still emits the zeroed UpdateListing event.
	Invalidate(c ctx.Ctx, id asset.Id) error
	// IsActive evaluates the active predicate against the current time.
	IsActive(c ctx.Ctx, id asset.Id) bool
	// Get returns the listing when active, nil otherwise. Expired or
	// removed listings are never returned.
	Get(c ctx.Ctx, id asset.Id) *Listing
	// GetRaw returns the stored record regardless of the active
	// predicate, nil when no record exists. Purchase validation needs
	// the raw record so a price mismatch on an expired listing still
	// reports the mismatch before the expiry.
	GetRaw(c ctx.Ctx, id asset.Id) *Listing
}
