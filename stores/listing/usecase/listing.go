package usecase

import (
	"math/big"
	"sync"
	"time"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/log"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
	"github.com/tradeport/goapi/domain/ledger"
	"github.com/tradeport/goapi/domain/listing"
	"github.com/tradeport/goapi/domain/marketplace"
)

var timeNow = time.Now

type ListingRegistryCfg struct {
	Ledger    ledger.Ledger
	EventRepo marketplace.EventRepo
}

// ListingRegistry keeps the single current listing per asset in memory.
// Durable observability comes from the event log, not from this map.
type ListingRegistry struct {
	ledger ledger.Ledger
	events marketplace.EventRepo

	mu       sync.RWMutex
	listings map[asset.Id]listing.Listing
}

func NewListingRegistry(cfg *ListingRegistryCfg) listing.Registry {
	return &ListingRegistry{
		ledger:   cfg.Ledger,
		events:   cfg.EventRepo,
		listings: make(map[asset.Id]listing.Listing),
	}
}

func (r *ListingRegistry) Set(ctx bCtx.Ctx, id asset.Id, l listing.Listing, caller domain.Address) error {
	if l.SalePrice == nil || l.SalePrice.Sign() <= 0 {
		return domain.ErrSalePriceCannotBeZero
	}
	if l.ExpiresAt.Before(timeNow()) {
		return domain.ErrInvalidExpiresTimestamp
	}

	owner, err := r.ledger.OwnerOf(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("ledger.OwnerOf failed")
		return err
	}
	if ok, err := r.ledger.IsApprovedOrOwner(ctx, id, caller); err != nil {
		ctx.WithFields(log.Fields{"id": id, "caller": caller, "err": err}).Error("ledger.IsApprovedOrOwner failed")
		return err
	} else if !ok {
		return domain.ErrCallerIsntOwnerNorApproved
	}

	if l.HistoricalPrice == nil {
		l.HistoricalPrice = new(big.Int)
	}
	l.Seller = owner

	r.mu.Lock()
	r.listings[id.ToLower()] = l
	r.mu.Unlock()

	r.emitUpdate(ctx, id, &l)
	return nil
}

func (r *ListingRegistry) Remove(ctx bCtx.Ctx, id asset.Id, caller domain.Address) error {
	if ok, err := r.ledger.IsApprovedOrOwner(ctx, id, caller); err != nil {
		ctx.WithFields(log.Fields{"id": id, "caller": caller, "err": err}).Error("ledger.IsApprovedOrOwner failed")
		return err
	} else if !ok {
		return domain.ErrCallerIsntOwnerNorApproved
	}
	if !r.IsActive(ctx, id) {
		return domain.ErrInvalidListing
	}

	r.mu.Lock()
	delete(r.listings, id.ToLower())
	r.mu.Unlock()

	r.emitUpdate(ctx, id, nil)
	return nil
}

func (r *ListingRegistry) Invalidate(ctx bCtx.Ctx, id asset.Id) error {
	r.mu.Lock()
	delete(r.listings, id.ToLower())
	r.mu.Unlock()

	// the zeroed event is emitted even when there was nothing to
	// invalidate; downstream consumers rely on seeing it
	r.emitUpdate(ctx, id, nil)
	return nil
}

func (r *ListingRegistry) IsActive(ctx bCtx.Ctx, id asset.Id) bool {
	r.mu.RLock()
	l, ok := r.listings[id.ToLower()]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return l.IsActive(timeNow())
}

func (r *ListingRegistry) Get(ctx bCtx.Ctx, id asset.Id) *listing.Listing {
	r.mu.RLock()
	l, ok := r.listings[id.ToLower()]
	r.mu.RUnlock()
	if !ok || !l.IsActive(timeNow()) {
		return nil
	}
	cp := l
	return &cp
}

func (r *ListingRegistry) GetRaw(ctx bCtx.Ctx, id asset.Id) *listing.Listing {
	r.mu.RLock()
	l, ok := r.listings[id.ToLower()]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	cp := l
	return &cp
}

// emitUpdate appends an UpdateListing entry reflecting the record after
// the change. A nil listing means the record was reset, so all listing
// fields are zeroed. Event log writes are observability, a failed write
// never rolls the registry back.
func (r *ListingRegistry) emitUpdate(ctx bCtx.Ctx, id asset.Id, l *listing.Listing) {
	event := &marketplace.Event{
		Type:            marketplace.EventTypeUpdateListing,
		ChainId:         id.ChainId,
		Collection:      id.Collection.ToLower(),
		TokenId:         id.TokenId,
		SalePrice:       "0",
		HistoricalPrice: "0",
		Currency:        domain.NativeCurrency,
		Time:            timeNow(),
	}
	if l != nil {
		event.Seller = l.Seller
		event.SalePrice = l.SalePrice.String()
		event.ExpiresAt = l.ExpiresAt.Unix()
		event.Currency = l.Currency
		event.HistoricalPrice = l.HistoricalPrice.String()
	}
	if err := r.events.Insert(ctx, event); err != nil {
		ctx.WithFields(log.Fields{"event": event, "err": err}).Error("events.Insert failed")
	}
}
