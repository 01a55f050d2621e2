package pricefomatter

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/shopspring/decimal"
	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/log"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/service/chain/contract"
)

// nativeDecimals is the exponent of the chain's native coin.
const nativeDecimals = int32(18)

type PriceFormatterCfg struct {
	// Decimals maps "<chainId>:<currency>" to the token's exponent.
	Decimals map[string]int32

	// Erc20 optionally resolves exponents of tokens missing from
	// Decimals. Unresolvable tokens fall back to the native exponent.
	Erc20 contract.Erc20Contract
}

type impl struct {
	erc20 contract.Erc20Contract

	// mutex protected members
	mutex    sync.Mutex
	decimals map[string]int32
}

func NewPriceFormatter(cfg *PriceFormatterCfg) PriceFormatter {
	decimals := cfg.Decimals
	if decimals == nil {
		decimals = make(map[string]int32)
	}
	return &impl{
		erc20:    cfg.Erc20,
		decimals: decimals,
	}
}

func (f *impl) getDecimals(ctx bCtx.Ctx, chainId domain.ChainId, currency domain.Address) int32 {
	if currency.IsNative() {
		return nativeDecimals
	}
	key := fmt.Sprintf("%d:%s", chainId, currency.ToLowerStr())

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if d, ok := f.decimals[key]; ok {
		return d
	}
	if f.erc20 != nil {
		if d, err := f.erc20.Decimals(ctx, int32(chainId), currency.ToLowerStr()); err != nil {
			ctx.WithFields(log.Fields{"chainId": chainId, "currency": currency, "err": err}).Warn("erc20.Decimals failed")
		} else {
			f.decimals[key] = int32(d)
			return int32(d)
		}
	}
	return nativeDecimals
}

func (f *impl) DisplayPrice(ctx bCtx.Ctx, chainId domain.ChainId, currency domain.Address, value *big.Int) (decimal.Decimal, error) {
	if value == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromBigInt(value, -f.getDecimals(ctx, chainId, currency)), nil
}
