package royalty

import (
	"math/big"

	"github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
)

// FeeConfig is the per-collection royalty configuration.
type FeeConfig struct {
	ChainId    domain.ChainId `json:"chainId" bson:"chainId"`
	Collection domain.Address `json:"collection" bson:"collection"`
	Recipient  domain.Address `json:"recipient" bson:"recipient"`
	// RateBps is the royalty rate in basis points applied to the
	// taxable basis of a sale.
	RateBps int64 `json:"rateBps" bson:"rateBps"`
}

type FeeConfigId struct {
	ChainId    domain.ChainId `bson:"chainId"`
	Collection domain.Address `bson:"collection"`
}

func (c *FeeConfig) ToId() FeeConfigId {
	return FeeConfigId{
		ChainId:    c.ChainId,
		Collection: c.Collection.ToLower(),
	}
}

// FeeConfigRepo stores royalty configurations.
type FeeConfigRepo interface {
	FindOne(c ctx.Ctx, chainId domain.ChainId, collection domain.Address) (*FeeConfig, error)
	Upsert(c ctx.Ctx, cfg *FeeConfig) error
}

// Source resolves the royalty recipient and amount owed for a taxable
// basis. Implementations look the rate up in a local config store or
// query an on-chain royalty engine.
type Source interface {
	GetRoyalty(c ctx.Ctx, id asset.Id, basis *big.Int) (domain.Address, *big.Int, error)
}

// Calculator determines the royalty owed on a sale. Royalties apply only
// to price appreciation above the seller's own acquisition cost: the
// taxable basis is max(0, salePrice-historicalPrice). A sale at or below
// cost owes nothing but still reports the recipient.
type Calculator interface {
	Compute(c ctx.Ctx, id asset.Id, salePrice, historicalPrice *big.Int) (domain.Address, *big.Int, error)
}
