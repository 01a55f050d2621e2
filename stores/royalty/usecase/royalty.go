package usecase

import (
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/log"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
	"github.com/tradeport/goapi/domain/keys"
	"github.com/tradeport/goapi/domain/royalty"
	"github.com/tradeport/goapi/service/cache"
	"github.com/tradeport/goapi/service/chain/contract"
)

const rateDenominatorBps = 10000

type ConfigSourceCfg struct {
	Repo  royalty.FeeConfigRepo
	Cache cache.Service
}

// configSource resolves royalties from the stored per-collection fee
// configuration. Lookups go through the cache; the rate applies to the
// taxable basis, not the full sale price.
type configSource struct {
	repo  royalty.FeeConfigRepo
	cache cache.Service
}

func NewConfigSource(cfg *ConfigSourceCfg) royalty.Source {
	return &configSource{
		repo:  cfg.Repo,
		cache: cfg.Cache,
	}
}

func (s *configSource) GetRoyalty(ctx bCtx.Ctx, id asset.Id, basis *big.Int) (domain.Address, *big.Int, error) {
	cfg := &royalty.FeeConfig{}
	key := keys.CacheKey(keys.PfxRoyaltyConfig, strconv.Itoa(int(id.ChainId)), id.Collection.ToLowerStr())
	err := s.cache.GetByFunc(ctx, key, cfg, func() (interface{}, error) {
		return s.repo.FindOne(ctx, id.ChainId, id.Collection)
	})
	if err != nil {
		if xerrors.Is(err, domain.ErrNoRoyaltyConfig) {
			return domain.EmptyAddress, nil, domain.ErrNoRoyaltyConfig
		}
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("royalty config lookup failed")
		return domain.EmptyAddress, nil, err
	}

	amount := new(big.Int).Mul(basis, big.NewInt(cfg.RateBps))
	amount.Div(amount, big.NewInt(rateDenominatorBps))
	return cfg.Recipient, amount, nil
}

type EngineSourceCfg struct {
	Engine contract.RoyaltyEngineContract
	// EngineAddrs maps chain id to the royalty engine contract deployed
	// on that chain.
	EngineAddrs map[domain.ChainId]domain.Address
}

// engineSource resolves royalties from an on-chain royalty engine. Only
// the first recipient reported by the engine is honored.
type engineSource struct {
	engine      contract.RoyaltyEngineContract
	engineAddrs map[domain.ChainId]domain.Address
}

func NewEngineSource(cfg *EngineSourceCfg) royalty.Source {
	return &engineSource{
		engine:      cfg.Engine,
		engineAddrs: cfg.EngineAddrs,
	}
}

func (s *engineSource) GetRoyalty(ctx bCtx.Ctx, id asset.Id, basis *big.Int) (domain.Address, *big.Int, error) {
	engineAddr, ok := s.engineAddrs[id.ChainId]
	if !ok {
		return domain.EmptyAddress, nil, domain.ErrNoRoyaltyConfig
	}
	base := 10
	if strings.HasPrefix(id.TokenId.String(), "0x") {
		base = 0
	}
	tokenId, ok := new(big.Int).SetString(id.TokenId.String(), base)
	if !ok {
		return domain.EmptyAddress, nil, domain.ErrInvalidNumberFormat
	}

	recipients, amounts, err := s.engine.GetRoyalty(ctx, int32(id.ChainId), engineAddr.ToLowerStr(), id.Collection.ToLowerStr(), tokenId, basis)
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "engine": engineAddr, "err": err}).Error("engine.GetRoyalty failed")
		return domain.EmptyAddress, nil, err
	}
	if len(recipients) == 0 || len(amounts) == 0 {
		return domain.EmptyAddress, nil, domain.ErrNoRoyaltyConfig
	}
	return domain.Address(recipients[0]).ToLower(), amounts[0], nil
}

type ConfigAdminCfg struct {
	Repo  royalty.FeeConfigRepo
	Cache cache.Service
}

// ConfigAdmin writes fee configurations and keeps the lookup cache
// coherent with them.
type ConfigAdmin struct {
	repo  royalty.FeeConfigRepo
	cache cache.Service
}

func NewConfigAdmin(cfg *ConfigAdminCfg) *ConfigAdmin {
	return &ConfigAdmin{
		repo:  cfg.Repo,
		cache: cfg.Cache,
	}
}

func (a *ConfigAdmin) SetFeeConfig(ctx bCtx.Ctx, cfg *royalty.FeeConfig) error {
	if err := a.repo.Upsert(ctx, cfg); err != nil {
		return err
	}
	key := keys.CacheKey(keys.PfxRoyaltyConfig, strconv.Itoa(int(cfg.ChainId)), cfg.Collection.ToLowerStr())
	if err := a.cache.Del(ctx, key); err != nil {
		ctx.WithFields(log.Fields{"key": key, "err": err}).Warn("cache.Del failed")
	}
	return nil
}

type CalculatorCfg struct {
	Source royalty.Source
}

type calculator struct {
	source royalty.Source
}

func NewCalculator(cfg *CalculatorCfg) royalty.Calculator {
	return &calculator{source: cfg.Source}
}

// Compute applies the value-added rule: the taxable basis is the sale
// price appreciation above the seller's own acquisition cost, floored
// at zero. An asset without a royalty config owes nothing.
func (u *calculator) Compute(ctx bCtx.Ctx, id asset.Id, salePrice, historicalPrice *big.Int) (domain.Address, *big.Int, error) {
	if salePrice == nil {
		return domain.EmptyAddress, nil, xerrors.Errorf("nil sale price: %w", domain.ErrBadParamInput)
	}
	basis := new(big.Int).Set(salePrice)
	if historicalPrice != nil {
		basis.Sub(basis, historicalPrice)
	}
	if basis.Sign() < 0 {
		basis.SetInt64(0)
	}

	recipient, amount, err := u.source.GetRoyalty(ctx, id, basis)
	if err != nil {
		if xerrors.Is(err, domain.ErrNoRoyaltyConfig) {
			return domain.EmptyAddress, new(big.Int), nil
		}
		return domain.EmptyAddress, nil, err
	}
	if amount == nil {
		amount = new(big.Int)
	}
	if amount.Cmp(salePrice) > 0 {
		// an engine must never charge more than the sale itself
		return domain.EmptyAddress, nil, xerrors.Errorf("royalty %s exceeds sale price %s: %w", amount, salePrice, domain.ErrBadParamInput)
	}
	if recipient.IsEmpty() && amount.Sign() > 0 {
		// an amount nobody can receive must not be withheld from the
		// seller, or it strands on the escrow account
		return recipient, new(big.Int), nil
	}
	return recipient, amount, nil
}
