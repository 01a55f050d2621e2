package ledger

import (
	"github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
)

// PreTransferHook runs immediately before the ledger changes the
// recorded owner of an asset, on every transfer path. Hook errors abort
// the transfer.
type PreTransferHook func(c ctx.Ctx, id asset.Id, from, to domain.Address) error

// Ledger is the ownership store the marketplace trades against.
type Ledger interface {
	OwnerOf(c ctx.Ctx, id asset.Id) (domain.Address, error)
	// IsApprovedOrOwner reports whether operator may act on the asset:
	// the owner itself, an approved operator, or the approved address.
	IsApprovedOrOwner(c ctx.Ctx, id asset.Id, operator domain.Address) (bool, error)
	Transfer(c ctx.Ctx, id asset.Id, from, to domain.Address) error
	// RegisterPreTransferHook installs a hook invoked before every
	// owner change. Returns false when the ledger cannot guarantee hook
	// dispatch, in which case callers must invalidate listings
	// themselves after transferring.
	RegisterPreTransferHook(hook PreTransferHook) bool
}
