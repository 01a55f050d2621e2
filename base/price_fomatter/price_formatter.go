package pricefomatter

import (
	"math/big"

	"github.com/shopspring/decimal"
	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/domain"
)

// PriceFormatter renders raw smallest-unit amounts as display prices.
type PriceFormatter interface {
	DisplayPrice(ctx bCtx.Ctx, chainId domain.ChainId, currency domain.Address, value *big.Int) (decimal.Decimal, error)
}
