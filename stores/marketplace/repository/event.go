package repository

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/log"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/marketplace"
	"github.com/tradeport/goapi/service/query"
)

const defaultEventLimit = 100

type eventRepo struct {
	q query.Mongo
}

func NewEventRepo(q query.Mongo) marketplace.EventRepo {
	return &eventRepo{q: q}
}

func (r *eventRepo) Insert(ctx bCtx.Ctx, event *marketplace.Event) error {
	if event.EventId == "" {
		event.EventId = uuid.New().String()
	}
	event.Collection = event.Collection.ToLower()
	if err := r.q.Insert(ctx, domain.TableMarketplaceEvents, event); err != nil {
		ctx.WithFields(log.Fields{"event": event, "err": err}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *eventRepo) FindAll(ctx bCtx.Ctx, optFns ...marketplace.EventFindAllOptionsFunc) ([]*marketplace.Event, error) {
	opts, err := marketplace.GetEventFindAllOptions(optFns...)
	if err != nil {
		return nil, err
	}

	selector := bson.M{}
	if opts.ChainId != nil {
		selector["chainId"] = *opts.ChainId
	}
	if opts.Collection != nil {
		selector["collection"] = opts.Collection.ToLower()
	}
	if opts.TokenId != nil {
		selector["tokenId"] = *opts.TokenId
	}
	if opts.Type != nil {
		selector["type"] = *opts.Type
	}

	offset, limit := 0, defaultEventLimit
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	events := []*marketplace.Event{}
	// newest first
	if err := r.q.Search(ctx, domain.TableMarketplaceEvents, offset, limit, "-time", selector, &events); err != nil {
		ctx.WithFields(log.Fields{"selector": selector, "err": err}).Error("q.Search failed")
		return nil, err
	}
	return events, nil
}
