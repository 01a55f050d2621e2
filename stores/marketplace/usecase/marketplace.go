package usecase

import (
	"math/big"
	"time"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/log"
	"github.com/tradeport/goapi/base/metrics"
	pricefomatter "github.com/tradeport/goapi/base/price_fomatter"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
	"github.com/tradeport/goapi/domain/ledger"
	"github.com/tradeport/goapi/domain/listing"
	"github.com/tradeport/goapi/domain/marketplace"
	"github.com/tradeport/goapi/domain/payment"
	"github.com/tradeport/goapi/domain/royalty"
)

var timeNow = time.Now

const defaultPurchaseTimeout = 10 * time.Second

type MarketplaceCfg struct {
	Registry   listing.Registry
	Ledger     ledger.Ledger
	Calculator royalty.Calculator
	Processor  payment.Processor
	Token      payment.TokenTransferor
	EventRepo  marketplace.EventRepo

	// Escrow holds native value attached to a purchase; without one,
	// native purchases are rejected. Reverser undoes completed legs
	// when a later step fails; nil disables compensation (failures are
	// then only logged).
	Escrow   payment.ValueEscrow
	Reverser payment.Reverser

	// Operator is the identity token allowances must be granted to.
	Operator domain.Address

	PriceFormatter pricefomatter.PriceFormatter

	// PurchaseTimeout bounds one purchase end to end. A reentrant call
	// into the guard gives up when the purchase deadline passes.
	PurchaseTimeout time.Duration
}

type marketplaceImpl struct {
	registry   listing.Registry
	ledger     ledger.Ledger
	calculator royalty.Calculator
	processor  payment.Processor
	token      payment.TokenTransferor
	events     marketplace.EventRepo
	escrow     payment.ValueEscrow
	reverser   payment.Reverser
	operator   domain.Address
	pricefmt   pricefomatter.PriceFormatter
	timeout    time.Duration
	mtr        metrics.Service

	// guard serializes every mutating operation. Reentrant calls made
	// from inside a purchase block here until the purchase deadline and
	// then fail, so a hostile payment recipient cannot relist or rebuy
	// mid-purchase.
	guard chan struct{}

	// hooked reports whether the ledger guarantees pre-transfer hook
	// dispatch. When it does not, buy invalidates explicitly after the
	// transfer.
	hooked bool
}

func New(cfg *MarketplaceCfg) marketplace.UseCase {
	u := &marketplaceImpl{
		registry:   cfg.Registry,
		ledger:     cfg.Ledger,
		calculator: cfg.Calculator,
		processor:  cfg.Processor,
		token:      cfg.Token,
		events:     cfg.EventRepo,
		escrow:     cfg.Escrow,
		reverser:   cfg.Reverser,
		operator:   cfg.Operator.ToLower(),
		pricefmt:   cfg.PriceFormatter,
		timeout:    cfg.PurchaseTimeout,
		mtr:        metrics.New("marketplace"),
		guard:      make(chan struct{}, 1),
	}
	if u.timeout <= 0 {
		u.timeout = defaultPurchaseTimeout
	}
	u.hooked = u.ledger.RegisterPreTransferHook(u.onPreTransfer)
	return u
}

// onPreTransfer clears any active listing before the ledger changes the
// recorded owner, on every transfer path. A listing must never outlive
// the ownership it was created under.
func (u *marketplaceImpl) onPreTransfer(ctx bCtx.Ctx, id asset.Id, from, to domain.Address) error {
	if !u.registry.IsActive(ctx, id) {
		return nil
	}
	return u.registry.Invalidate(ctx, id)
}

// acquire takes the mutation guard, giving up when ctx is done. A call
// nested inside a purchase inherits the purchase deadline, so it fails
// with ErrReentrantCall instead of deadlocking.
func (u *marketplaceImpl) acquire(ctx bCtx.Ctx) (func(), error) {
	select {
	case u.guard <- struct{}{}:
		return func() { <-u.guard }, nil
	case <-ctx.Done():
		return nil, domain.ErrReentrantCall
	}
}

func (u *marketplaceImpl) ListItem(ctx bCtx.Ctx, id asset.Id, caller domain.Address, salePrice *big.Int, expiresAt time.Time, currency domain.Address, historicalPrice *big.Int) error {
	release, err := u.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	l := listing.Listing{
		SalePrice:       salePrice,
		ExpiresAt:       expiresAt,
		Currency:        currency.ToLower(),
		HistoricalPrice: historicalPrice,
	}
	if err := u.registry.Set(ctx, id, l, caller); err != nil {
		return err
	}
	u.mtr.BumpSum("list_item.count", 1)
	return nil
}

func (u *marketplaceImpl) DelistItem(ctx bCtx.Ctx, id asset.Id, caller domain.Address) error {
	release, err := u.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := u.registry.Remove(ctx, id, caller); err != nil {
		return err
	}
	u.mtr.BumpSum("delist_item.count", 1)
	return nil
}

func (u *marketplaceImpl) BuyItem(ctx bCtx.Ctx, id asset.Id, buyer domain.Address, expectedSalePrice *big.Int, expectedCurrency domain.Address, attachedValue *big.Int) error {
	defer u.mtr.BumpTime("buy_item.time").End()

	purchaseCtx, cancel := bCtx.WithTimeout(ctx, u.timeout)
	defer cancel()

	release, err := u.acquire(purchaseCtx)
	if err != nil {
		return err
	}
	defer release()

	if err := u.buy(purchaseCtx, id, buyer, expectedSalePrice, expectedCurrency, attachedValue); err != nil {
		u.mtr.BumpSum("buy_item.err", 1)
		return err
	}
	u.mtr.BumpSum("buy_item.count", 1)
	return nil
}

func (u *marketplaceImpl) buy(ctx bCtx.Ctx, id asset.Id, buyer domain.Address, expectedSalePrice *big.Int, expectedCurrency domain.Address, attachedValue *big.Int) error {
	if expectedSalePrice == nil {
		expectedSalePrice = domain.Big0
	}

	// the committed terms are compared against the raw record: a buyer
	// restating a price for a never-listed or expired asset learns
	// about the term mismatch first, exactly as a concurrently mutated
	// listing would surface it
	raw := u.registry.GetRaw(ctx, id)
	storedPrice, storedCurrency := domain.Big0, domain.NativeCurrency
	if raw != nil {
		storedPrice, storedCurrency = raw.SalePrice, raw.Currency
	}
	if storedPrice.Cmp(expectedSalePrice) != 0 {
		return domain.ErrInconsistentSalePrice
	}
	if !storedCurrency.Equals(expectedCurrency.ToLower()) {
		return domain.ErrInconsistentTokens
	}
	if !raw.IsActive(timeNow()) {
		return domain.ErrInvalidListing
	}

	owner, err := u.ledger.OwnerOf(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("ledger.OwnerOf failed")
		return err
	}

	salePrice := raw.SalePrice
	currency := raw.Currency
	royaltyRecipient, royaltyAmount, err := u.calculator.Compute(ctx, id, salePrice, raw.HistoricalPrice)
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("calculator.Compute failed")
		return err
	}
	if royaltyAmount == nil {
		royaltyAmount = domain.Big0
	}
	sellerProceeds := new(big.Int).Sub(salePrice, royaltyAmount)

	if currency.IsNative() {
		if attachedValue == nil || attachedValue.Cmp(salePrice) != 0 {
			return domain.ErrIncorrectValueSent
		}
		if u.escrow == nil {
			ctx.WithFields(log.Fields{"id": id}).Error("native purchase without an escrow")
			return domain.ErrNoValueEscrow
		}
		if err := u.escrow.Collect(ctx, buyer, attachedValue); err != nil {
			ctx.WithFields(log.Fields{"id": id, "buyer": buyer, "err": err}).Error("escrow.Collect failed")
			return err
		}
	} else {
		if attachedValue != nil && attachedValue.Sign() != 0 {
			return domain.ErrIncorrectValueSent
		}
		allowance, err := u.token.Allowance(ctx, currency, buyer, u.operator)
		if err != nil {
			ctx.WithFields(log.Fields{"id": id, "buyer": buyer, "err": err}).Error("token.Allowance failed")
			return err
		}
		if allowance.Cmp(salePrice) < 0 {
			return domain.ErrInsufficientAllowance
		}
	}

	if err := u.settle(ctx, id, buyer, owner, currency, salePrice, royaltyRecipient, royaltyAmount, sellerProceeds); err != nil {
		return err
	}

	if !u.hooked {
		if err := u.registry.Invalidate(ctx, id); err != nil {
			ctx.WithFields(log.Fields{"id": id, "err": err}).Error("registry.Invalidate failed")
		}
	}

	u.emitPurchased(ctx, id, raw, owner, buyer, royaltyAmount)
	return nil
}

// settle runs the two payment legs and the ownership transfer. A
// failure after funds moved reverses the completed legs so the whole
// purchase stays all-or-nothing.
func (u *marketplaceImpl) settle(ctx bCtx.Ctx, id asset.Id, buyer, owner, currency domain.Address, salePrice *big.Int, royaltyRecipient domain.Address, royaltyAmount, sellerProceeds *big.Int) error {
	royaltyPaid := false
	if royaltyAmount.Sign() > 0 && !royaltyRecipient.IsEmpty() {
		if err := u.processor.Pay(ctx, currency, royaltyAmount, buyer, royaltyRecipient); err != nil {
			u.refundValue(ctx, currency, buyer, salePrice)
			return err
		}
		royaltyPaid = true
	}

	if err := u.processor.Pay(ctx, currency, sellerProceeds, buyer, owner); err != nil {
		if royaltyPaid {
			u.reverseLeg(ctx, currency, royaltyAmount, buyer, royaltyRecipient)
		}
		u.refundValue(ctx, currency, buyer, salePrice)
		return err
	}

	if err := u.ledger.Transfer(ctx, id, owner, buyer); err != nil {
		ctx.WithFields(log.Fields{"id": id, "owner": owner, "buyer": buyer, "err": err}).Error("ledger.Transfer failed")
		u.reverseLeg(ctx, currency, sellerProceeds, buyer, owner)
		if royaltyPaid {
			u.reverseLeg(ctx, currency, royaltyAmount, buyer, royaltyRecipient)
		}
		u.refundValue(ctx, currency, buyer, salePrice)
		return err
	}
	return nil
}

// refundValue returns collected native value to the buyer once every
// delivered leg of the aborted purchase has been reversed. Token
// purchases never escrow, so there is nothing to refund.
func (u *marketplaceImpl) refundValue(ctx bCtx.Ctx, currency, buyer domain.Address, amount *big.Int) {
	if !currency.IsNative() || u.escrow == nil {
		return
	}
	if err := u.escrow.Refund(ctx, buyer, amount); err != nil {
		ctx.WithFields(log.Fields{"buyer": buyer, "amount": amount.String(), "err": err}).Error("escrow.Refund failed")
	}
}

func (u *marketplaceImpl) reverseLeg(ctx bCtx.Ctx, currency domain.Address, amount *big.Int, payer, recipient domain.Address) {
	if u.reverser == nil {
		ctx.WithFields(log.Fields{"currency": currency, "amount": amount.String(), "recipient": recipient}).
			Error("no reverser configured, delivered leg not compensated")
		return
	}
	if err := u.reverser.Reverse(ctx, currency, amount, payer, recipient); err != nil {
		ctx.WithFields(log.Fields{"currency": currency, "amount": amount.String(), "recipient": recipient, "err": err}).
			Error("reverser.Reverse failed")
	}
}

func (u *marketplaceImpl) emitPurchased(ctx bCtx.Ctx, id asset.Id, l *listing.Listing, seller, buyer domain.Address, royaltyAmount *big.Int) {
	event := &marketplace.Event{
		Type:            marketplace.EventTypePurchased,
		ChainId:         id.ChainId,
		Collection:      id.Collection.ToLower(),
		TokenId:         id.TokenId,
		Seller:          seller,
		Buyer:           buyer.ToLower(),
		SalePrice:       l.SalePrice.String(),
		Currency:        l.Currency,
		HistoricalPrice: l.HistoricalPrice.String(),
		RoyaltyAmount:   royaltyAmount.String(),
		Time:            timeNow(),
	}
	if u.pricefmt != nil {
		if display, err := u.pricefmt.DisplayPrice(ctx, id.ChainId, l.Currency, l.SalePrice); err != nil {
			ctx.WithFields(log.Fields{"id": id, "err": err}).Warn("pricefmt.DisplayPrice failed")
		} else {
			event.DisplayPrice = display.String()
		}
	}
	if err := u.events.Insert(ctx, event); err != nil {
		ctx.WithFields(log.Fields{"event": event, "err": err}).Error("events.Insert failed")
	}
}

func (u *marketplaceImpl) GetListing(ctx bCtx.Ctx, id asset.Id) (*marketplace.ListingView, error) {
	return marketplace.ToListingView(u.registry.Get(ctx, id)), nil
}

func (u *marketplaceImpl) GetEvents(ctx bCtx.Ctx, opts ...marketplace.EventFindAllOptionsFunc) ([]*marketplace.Event, error) {
	return u.events.FindAll(ctx, opts...)
}
