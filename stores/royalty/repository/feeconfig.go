package repository

import (
	"golang.org/x/xerrors"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/log"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/royalty"
	"github.com/tradeport/goapi/service/query"
)

type feeConfigRepo struct {
	q query.Mongo
}

func NewFeeConfigRepo(q query.Mongo) royalty.FeeConfigRepo {
	return &feeConfigRepo{q: q}
}

func (r *feeConfigRepo) FindOne(ctx bCtx.Ctx, chainId domain.ChainId, collection domain.Address) (*royalty.FeeConfig, error) {
	selector := royalty.FeeConfigId{
		ChainId:    chainId,
		Collection: collection.ToLower(),
	}
	cfg := &royalty.FeeConfig{}
	if err := r.q.FindOne(ctx, domain.TableRoyaltyConfigs, selector, cfg); err != nil {
		if err == query.ErrNotFound {
			return nil, domain.ErrNoRoyaltyConfig
		}
		ctx.WithFields(log.Fields{"selector": selector, "err": err}).Error("q.FindOne failed")
		return nil, err
	}
	return cfg, nil
}

func (r *feeConfigRepo) Upsert(ctx bCtx.Ctx, cfg *royalty.FeeConfig) error {
	if cfg.RateBps < 0 || cfg.RateBps > 10000 {
		return xerrors.Errorf("rate %d bps out of range: %w", cfg.RateBps, domain.ErrBadParamInput)
	}
	if cfg.RateBps > 0 && cfg.Recipient.IsEmpty() {
		return xerrors.Errorf("rate %d bps with no recipient: %w", cfg.RateBps, domain.ErrBadParamInput)
	}
	normalized := *cfg
	normalized.Collection = cfg.Collection.ToLower()
	normalized.Recipient = cfg.Recipient.ToLower()
	if err := r.q.Upsert(ctx, domain.TableRoyaltyConfigs, normalized.ToId(), normalized); err != nil {
		ctx.WithFields(log.Fields{"cfg": normalized, "err": err}).Error("q.Upsert failed")
		return err
	}
	return nil
}
