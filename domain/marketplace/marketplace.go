package marketplace

import (
	"math/big"
	"time"

	"github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
	"github.com/tradeport/goapi/domain/listing"
)

// ListingView is the externally visible form of a listing. All fields
// are zeroed when the asset has no active listing.
type ListingView struct {
	SalePrice       string         `json:"salePrice"`
	ExpiresAt       int64          `json:"expiresAt"`
	Currency        domain.Address `json:"currency"`
	HistoricalPrice string         `json:"historicalPrice"`
}

// UseCase is the public trading surface.
type UseCase interface {
	// ListItem creates or overwrites the listing for id. A nil
	// historicalPrice defaults to zero.
	ListItem(c ctx.Ctx, id asset.Id, caller domain.Address, salePrice *big.Int, expiresAt time.Time, currency domain.Address, historicalPrice *big.Int) error
	DelistItem(c ctx.Ctx, id asset.Id, caller domain.Address) error
	// BuyItem purchases id at the restated terms. attachedValue is the
	// native amount sent along; it must be nil or zero for token
	// purchases.
	BuyItem(c ctx.Ctx, id asset.Id, buyer domain.Address, expectedSalePrice *big.Int, expectedCurrency domain.Address, attachedValue *big.Int) error
	GetListing(c ctx.Ctx, id asset.Id) (*ListingView, error)
	GetEvents(c ctx.Ctx, opts ...EventFindAllOptionsFunc) ([]*Event, error)
}

// ZeroListingView is returned for assets with no active listing.
func ZeroListingView() *ListingView {
	return &ListingView{SalePrice: "0", HistoricalPrice: "0", Currency: domain.NativeCurrency}
}

func ToListingView(l *listing.Listing) *ListingView {
	if l == nil {
		return ZeroListingView()
	}
	return &ListingView{
		SalePrice:       l.SalePrice.String(),
		ExpiresAt:       l.ExpiresAt.Unix(),
		Currency:        l.Currency,
		HistoricalPrice: l.HistoricalPrice.String(),
	}
}

type EventType string

const (
	EventTypeUpdateListing EventType = "updateListing"
	EventTypePurchased     EventType = "purchased"
)

// Event is one entry of the append-only marketplace log. UpdateListing
// entries carry the listing fields after the change (all zero for a
// removal or invalidation); Purchased entries additionally carry the
// buyer and the royalty paid.
type Event struct {
	EventId         string         `json:"eventId" bson:"eventId"`
	Type            EventType      `json:"type" bson:"type"`
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	Collection      domain.Address `json:"collection" bson:"collection"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenId"`
	Seller          domain.Address `json:"seller" bson:"seller"`
	Buyer           domain.Address `json:"buyer,omitempty" bson:"buyer,omitempty"`
	SalePrice       string         `json:"salePrice" bson:"salePrice"`
	ExpiresAt       int64          `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	Currency        domain.Address `json:"currency" bson:"currency"`
	HistoricalPrice string         `json:"historicalPrice,omitempty" bson:"historicalPrice,omitempty"`
	RoyaltyAmount   string         `json:"royaltyAmount,omitempty" bson:"royaltyAmount,omitempty"`
	DisplayPrice    string         `json:"displayPrice,omitempty" bson:"displayPrice,omitempty"`
	Time            time.Time      `json:"time" bson:"time"`
}

func (e *Event) AssetId() asset.Id {
	return asset.Id{ChainId: e.ChainId, Collection: e.Collection, TokenId: e.TokenId}
}

type EventFindAllOptions struct {
	ChainId    *domain.ChainId
	Collection *domain.Address
	TokenId    *domain.TokenId
	Type       *EventType
	Offset     *int32
	Limit      *int32
}

type EventFindAllOptionsFunc func(*EventFindAllOptions) error

func GetEventFindAllOptions(opts ...EventFindAllOptionsFunc) (EventFindAllOptions, error) {
	res := EventFindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithAssetId(id asset.Id) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.ChainId = &id.ChainId
		options.Collection = id.Collection.ToLowerPtr()
		options.TokenId = &id.TokenId
		return nil
	}
}

func WithType(t EventType) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.Type = &t
		return nil
	}
}

func WithPagination(offset, limit int32) EventFindAllOptionsFunc {
	return func(options *EventFindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// EventRepo is the append-only event log. Entries are never updated or
// deleted.
type EventRepo interface {
	Insert(c ctx.Ctx, event *Event) error
	FindAll(c ctx.Ctx, opts ...EventFindAllOptionsFunc) ([]*Event, error)
}
