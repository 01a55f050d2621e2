package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
	ledgerMocks "github.com/tradeport/goapi/domain/ledger/mocks"
	"github.com/tradeport/goapi/domain/listing"
	listingMocks "github.com/tradeport/goapi/domain/listing/mocks"
	"github.com/tradeport/goapi/domain/marketplace"
	marketplaceMocks "github.com/tradeport/goapi/domain/marketplace/mocks"
	paymentMocks "github.com/tradeport/goapi/domain/payment/mocks"
	"github.com/tradeport/goapi/domain/royalty"
	royaltyMocks "github.com/tradeport/goapi/domain/royalty/mocks"
	ledgerUsecase "github.com/tradeport/goapi/stores/ledger/usecase"
	listingUsecase "github.com/tradeport/goapi/stores/listing/usecase"
	paymentUsecase "github.com/tradeport/goapi/stores/payment/usecase"
	royaltyUsecase "github.com/tradeport/goapi/stores/royalty/usecase"
)

// stubSource applies a flat rate to the taxable basis.
type stubSource struct {
	recipient domain.Address
	rateBps   int64
}

func (s *stubSource) GetRoyalty(c bCtx.Ctx, id asset.Id, basis *big.Int) (domain.Address, *big.Int, error) {
	amount := new(big.Int).Mul(basis, big.NewInt(s.rateBps))
	amount.Div(amount, big.NewInt(10000))
	return s.recipient, amount, nil
}

type marketplaceSuite struct {
	suite.Suite

	ctx    bCtx.Ctx
	ledger *ledgerUsecase.AssetLedger
	bank   *paymentUsecase.Bank
	events *marketplaceMocks.EventRepo
	u      marketplace.UseCase

	emitted []*marketplace.Event

	operator  domain.Address
	seller    domain.Address
	buyer     domain.Address
	recipient domain.Address
	token     domain.Address
	id        asset.Id
	expiresAt time.Time
}

func TestMarketplaceSuite(t *testing.T) {
	suite.Run(t, new(marketplaceSuite))
}

func (s *marketplaceSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.operator = "0x000000000000000000000000000000000000babe"
	s.seller = "0xce4468e7ce84aceb74363f4ea64e5a038176f369"
	s.buyer = "0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad"
	s.recipient = "0x07fe9ffd85b54a3a18467d3b5e91a55ecc52a268"
	s.token = "0xb4fbf271143f4fbf7b91a5ded31805e42b2208d6"
	s.id = asset.Id{ChainId: 1, Collection: "0xdcf0de6b17785a143d006e1515a6afd123cde8ba", TokenId: "1"}
	s.expiresAt = time.Now().Add(time.Hour)

	s.ledger = ledgerUsecase.NewAssetLedger()
	s.bank = paymentUsecase.NewBank(s.operator)

	s.events = &marketplaceMocks.EventRepo{}
	s.emitted = nil
	s.events.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		s.emitted = append(s.emitted, args.Get(1).(*marketplace.Event))
	}).Return(nil)

	s.u = s.newUseCase(nil)

	s.Require().NoError(s.ledger.Mint(s.ctx, s.id, s.seller))
}

// newUseCase builds the coordinator; a non-nil source overrides the
// default 10% stub.
func (s *marketplaceSuite) newUseCase(source royalty.Source) marketplace.UseCase {
	if source == nil {
		source = &stubSource{recipient: s.recipient, rateBps: 1000}
	}
	registry := listingUsecase.NewListingRegistry(&listingUsecase.ListingRegistryCfg{
		Ledger:    s.ledger,
		EventRepo: s.events,
	})
	return New(&MarketplaceCfg{
		Registry:        registry,
		Ledger:          s.ledger,
		Calculator:      royaltyUsecase.NewCalculator(&royaltyUsecase.CalculatorCfg{Source: source}),
		Processor:       paymentUsecase.NewProcessor(&paymentUsecase.ProcessorCfg{Native: s.bank, Token: s.bank}),
		Token:           s.bank,
		EventRepo:       s.events,
		Escrow:          s.bank,
		Reverser:        s.bank,
		Operator:        s.operator,
		PurchaseTimeout: 200 * time.Millisecond,
	})
}

func (s *marketplaceSuite) list(price int64, currency domain.Address, historicalPrice *big.Int) {
	s.Require().NoError(s.u.ListItem(s.ctx, s.id, s.seller, big.NewInt(price), s.expiresAt, currency, historicalPrice))
}

func (s *marketplaceSuite) eventsOfType(t marketplace.EventType) []*marketplace.Event {
	var res []*marketplace.Event
	for _, e := range s.emitted {
		if e.Type == t {
			res = append(res, e)
		}
	}
	return res
}

func (s *marketplaceSuite) TestGetListingSentinelWhenNeverListed() {
	view, err := s.u.GetListing(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal("0", view.SalePrice)
	s.Equal("0", view.HistoricalPrice)
	s.Equal(domain.NativeCurrency, view.Currency)
}

func (s *marketplaceSuite) TestListDelistRoundtrip() {
	s.list(100, domain.NativeCurrency, nil)

	view, err := s.u.GetListing(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal("100", view.SalePrice)
	s.Equal(s.expiresAt.Unix(), view.ExpiresAt)

	s.Require().NoError(s.u.DelistItem(s.ctx, s.id, s.seller))

	view, err = s.u.GetListing(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal("0", view.SalePrice)
}

func (s *marketplaceSuite) TestBuyItemNative() {
	s.bank.DepositNative(s.ctx, s.buyer, big.NewInt(100))
	s.list(100, domain.NativeCurrency, nil)

	err := s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), domain.NativeCurrency, big.NewInt(100))
	s.Require().NoError(err)

	// 10% royalty on the full basis, remainder to the seller
	s.Equal("10", s.bank.NativeBalanceOf(s.ctx, s.recipient).String())
	s.Equal("90", s.bank.NativeBalanceOf(s.ctx, s.seller).String())
	s.Equal("0", s.bank.NativeBalanceOf(s.ctx, s.buyer).String())
	s.Equal("0", s.bank.NativeBalanceOf(s.ctx, s.operator).String())

	owner, err := s.ledger.OwnerOf(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(s.buyer, owner)

	view, err := s.u.GetListing(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal("0", view.SalePrice)

	purchased := s.eventsOfType(marketplace.EventTypePurchased)
	s.Require().Len(purchased, 1)
	s.Equal(s.seller, purchased[0].Seller)
	s.Equal(s.buyer, purchased[0].Buyer)
	s.Equal("100", purchased[0].SalePrice)
	s.Equal("10", purchased[0].RoyaltyAmount)

	// list + hook invalidation
	s.Len(s.eventsOfType(marketplace.EventTypeUpdateListing), 2)
}

func (s *marketplaceSuite) TestBuyItemHonorsHistoricalPrice() {
	s.bank.DepositNative(s.ctx, s.buyer, big.NewInt(100))
	s.list(100, domain.NativeCurrency, big.NewInt(40))

	err := s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), domain.NativeCurrency, big.NewInt(100))
	s.Require().NoError(err)

	// basis is the 60 of appreciation, so the royalty is 6
	s.Equal("6", s.bank.NativeBalanceOf(s.ctx, s.recipient).String())
	s.Equal("94", s.bank.NativeBalanceOf(s.ctx, s.seller).String())
}

func (s *marketplaceSuite) TestUnpayableRoyaltyGoesToSeller() {
	s.bank.DepositNative(s.ctx, s.buyer, big.NewInt(100))

	// a positive rate with nobody to pay must not shave the seller's
	// proceeds or leave value parked on the operator account
	u := s.newUseCase(&stubSource{recipient: "", rateBps: 1000})
	s.Require().NoError(u.ListItem(s.ctx, s.id, s.seller, big.NewInt(100), s.expiresAt, domain.NativeCurrency, nil))

	err := u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), domain.NativeCurrency, big.NewInt(100))
	s.Require().NoError(err)

	s.Equal("100", s.bank.NativeBalanceOf(s.ctx, s.seller).String())
	s.Equal("0", s.bank.NativeBalanceOf(s.ctx, s.operator).String())
	s.Equal("0", s.bank.NativeBalanceOf(s.ctx, s.recipient).String())

	purchased := s.eventsOfType(marketplace.EventTypePurchased)
	s.Require().Len(purchased, 1)
	s.Equal("0", purchased[0].RoyaltyAmount)
}

func (s *marketplaceSuite) TestBuyItemFrontRunGuards() {
	s.list(100, domain.NativeCurrency, nil)

	err := s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(95), domain.NativeCurrency, big.NewInt(95))
	s.Equal(domain.ErrInconsistentSalePrice, err)

	err = s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), s.token, nil)
	s.Equal(domain.ErrInconsistentTokens, err)

	// the listing survives the failed attempts
	view, err := s.u.GetListing(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal("100", view.SalePrice)

	owner, err := s.ledger.OwnerOf(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(s.seller, owner)
}

func (s *marketplaceSuite) TestBuyItemNeverListed() {
	other := asset.Id{ChainId: 1, Collection: s.id.Collection, TokenId: "2"}
	s.Require().NoError(s.ledger.Mint(s.ctx, other, s.seller))

	// a restated nonzero price mismatches the sentinel record first
	err := s.u.BuyItem(s.ctx, other, s.buyer, big.NewInt(100), domain.NativeCurrency, big.NewInt(100))
	s.Equal(domain.ErrInconsistentSalePrice, err)

	err = s.u.BuyItem(s.ctx, other, s.buyer, big.NewInt(0), domain.NativeCurrency, nil)
	s.Equal(domain.ErrInvalidListing, err)
}

func (s *marketplaceSuite) TestBuyItemExpiredListing() {
	s.list(100, domain.NativeCurrency, nil)

	restore := timeNow
	defer func() { timeNow = restore }()
	timeNow = func() time.Time { return s.expiresAt.Add(time.Second) }

	err := s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), domain.NativeCurrency, big.NewInt(100))
	s.Equal(domain.ErrInvalidListing, err)
}

func (s *marketplaceSuite) TestBuyItemIncorrectValueSent() {
	s.bank.DepositNative(s.ctx, s.buyer, big.NewInt(100))
	s.list(100, domain.NativeCurrency, nil)

	err := s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), domain.NativeCurrency, big.NewInt(99))
	s.Equal(domain.ErrIncorrectValueSent, err)

	err = s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), domain.NativeCurrency, nil)
	s.Equal(domain.ErrIncorrectValueSent, err)

	s.Equal("100", s.bank.NativeBalanceOf(s.ctx, s.buyer).String())
}

func (s *marketplaceSuite) TestBuyItemToken() {
	s.bank.MintToken(s.ctx, s.token, s.buyer, big.NewInt(100))
	s.bank.ApproveToken(s.ctx, s.token, s.buyer, s.operator, big.NewInt(100))
	s.list(100, s.token, nil)

	// token purchases carry no native value
	err := s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), s.token, big.NewInt(100))
	s.Equal(domain.ErrIncorrectValueSent, err)

	s.Require().NoError(s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), s.token, nil))

	s.Equal("10", s.bank.TokenBalanceOf(s.ctx, s.token, s.recipient).String())
	s.Equal("90", s.bank.TokenBalanceOf(s.ctx, s.token, s.seller).String())

	owner, err := s.ledger.OwnerOf(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(s.buyer, owner)
}

func (s *marketplaceSuite) TestBuyItemInsufficientAllowance() {
	s.bank.MintToken(s.ctx, s.token, s.buyer, big.NewInt(100))
	s.bank.ApproveToken(s.ctx, s.token, s.buyer, s.operator, big.NewInt(50))
	s.list(100, s.token, nil)

	err := s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), s.token, nil)
	s.Equal(domain.ErrInsufficientAllowance, err)

	s.Equal("100", s.bank.TokenBalanceOf(s.ctx, s.token, s.buyer).String())
}

func (s *marketplaceSuite) TestBuyItemIsAtomic() {
	// allowance covers the price but the balance only covers the
	// royalty leg, so the seller leg fails mid-purchase
	s.bank.MintToken(s.ctx, s.token, s.buyer, big.NewInt(15))
	s.bank.ApproveToken(s.ctx, s.token, s.buyer, s.operator, big.NewInt(100))
	s.list(100, s.token, nil)

	err := s.u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), s.token, nil)
	s.True(xerrors.Is(err, domain.ErrPaymentTransferFailed))

	// the delivered royalty leg was reversed, allowance included
	s.Equal("15", s.bank.TokenBalanceOf(s.ctx, s.token, s.buyer).String())
	s.Equal("0", s.bank.TokenBalanceOf(s.ctx, s.token, s.recipient).String())
	allowance, err := s.bank.Allowance(s.ctx, s.token, s.buyer, s.operator)
	s.Require().NoError(err)
	s.Equal("100", allowance.String())

	owner, err := s.ledger.OwnerOf(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(s.seller, owner)

	view, err := s.u.GetListing(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal("100", view.SalePrice)

	s.Empty(s.eventsOfType(marketplace.EventTypePurchased))
}

// A coordinator wired without an escrow can still serve token
// purchases; a native one is rejected cleanly instead of crashing.
func (s *marketplaceSuite) TestNativePurchaseWithoutEscrowRejected() {
	s.bank.DepositNative(s.ctx, s.buyer, big.NewInt(100))

	registry := listingUsecase.NewListingRegistry(&listingUsecase.ListingRegistryCfg{
		Ledger:    s.ledger,
		EventRepo: s.events,
	})
	u := New(&MarketplaceCfg{
		Registry:        registry,
		Ledger:          s.ledger,
		Calculator:      royaltyUsecase.NewCalculator(&royaltyUsecase.CalculatorCfg{Source: &stubSource{recipient: s.recipient, rateBps: 1000}}),
		Processor:       paymentUsecase.NewProcessor(&paymentUsecase.ProcessorCfg{Native: s.bank, Token: s.bank}),
		Token:           s.bank,
		EventRepo:       s.events,
		Operator:        s.operator,
		PurchaseTimeout: 200 * time.Millisecond,
	})
	s.Require().NoError(u.ListItem(s.ctx, s.id, s.seller, big.NewInt(100), s.expiresAt, domain.NativeCurrency, nil))

	err := u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), domain.NativeCurrency, big.NewInt(100))
	s.Equal(domain.ErrNoValueEscrow, err)

	// nothing moved and the listing survives
	s.Equal("100", s.bank.NativeBalanceOf(s.ctx, s.buyer).String())
	owner, err := s.ledger.OwnerOf(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(s.seller, owner)
}

func (s *marketplaceSuite) TestDirectTransferInvalidatesListing() {
	s.list(100, domain.NativeCurrency, nil)

	other := domain.Address("0x23c0221b2b66071afdcce502a103f18ec2666a12")
	s.Require().NoError(s.ledger.Transfer(s.ctx, s.id, s.seller, other))

	view, err := s.u.GetListing(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal("0", view.SalePrice)

	// list + invalidation
	s.Len(s.eventsOfType(marketplace.EventTypeUpdateListing), 2)
}

func (s *marketplaceSuite) TestReentrantCallRejected() {
	s.bank.DepositNative(s.ctx, s.buyer, big.NewInt(100))

	processor := &paymentMocks.Processor{}
	registry := listingUsecase.NewListingRegistry(&listingUsecase.ListingRegistryCfg{
		Ledger:    s.ledger,
		EventRepo: s.events,
	})
	u := New(&MarketplaceCfg{
		Registry:        registry,
		Ledger:          s.ledger,
		Calculator:      royaltyUsecase.NewCalculator(&royaltyUsecase.CalculatorCfg{Source: &stubSource{recipient: s.recipient, rateBps: 1000}}),
		Processor:       processor,
		Token:           s.bank,
		EventRepo:       s.events,
		Escrow:          s.bank,
		Reverser:        s.bank,
		Operator:        s.operator,
		PurchaseTimeout: 100 * time.Millisecond,
	})

	var reentrantErr error
	processor.On("Pay", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// a hostile payment recipient calling back in mid-purchase
			c := args.Get(0).(bCtx.Ctx)
			reentrantErr = u.DelistItem(c, s.id, s.seller)
		}).
		Return(nil)

	s.Require().NoError(u.ListItem(s.ctx, s.id, s.seller, big.NewInt(100), s.expiresAt, domain.NativeCurrency, nil))
	s.Require().NoError(u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), domain.NativeCurrency, big.NewInt(100)))

	s.Equal(domain.ErrReentrantCall, reentrantErr)

	owner, err := s.ledger.OwnerOf(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(s.buyer, owner)
}

func (s *marketplaceSuite) TestBuyItemSurfacesCalculatorError() {
	s.bank.DepositNative(s.ctx, s.buyer, big.NewInt(100))

	calcErr := xerrors.New("royalty lookup unavailable")
	calc := &royaltyMocks.Calculator{}
	calc.On("Compute", mock.Anything, s.id, mock.Anything, mock.Anything).
		Return(domain.EmptyAddress, (*big.Int)(nil), calcErr)

	registry := listingUsecase.NewListingRegistry(&listingUsecase.ListingRegistryCfg{
		Ledger:    s.ledger,
		EventRepo: s.events,
	})
	u := New(&MarketplaceCfg{
		Registry:        registry,
		Ledger:          s.ledger,
		Calculator:      calc,
		Processor:       paymentUsecase.NewProcessor(&paymentUsecase.ProcessorCfg{Native: s.bank, Token: s.bank}),
		Token:           s.bank,
		EventRepo:       s.events,
		Escrow:          s.bank,
		Reverser:        s.bank,
		Operator:        s.operator,
		PurchaseTimeout: 200 * time.Millisecond,
	})
	s.Require().NoError(u.ListItem(s.ctx, s.id, s.seller, big.NewInt(100), s.expiresAt, domain.NativeCurrency, nil))

	err := u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), domain.NativeCurrency, big.NewInt(100))
	s.Equal(calcErr, err)

	// no value moved before the royalty quote
	s.Equal("100", s.bank.NativeBalanceOf(s.ctx, s.buyer).String())
}

// A ledger without hook dispatch still gets its listing cleared, via the
// explicit invalidation after the transfer.
func (s *marketplaceSuite) TestExplicitInvalidationWhenHooksUnavailable() {
	s.bank.DepositNative(s.ctx, s.buyer, big.NewInt(100))

	ledgerMock := &ledgerMocks.Ledger{}
	ledgerMock.On("RegisterPreTransferHook", mock.Anything).Return(false)
	ledgerMock.On("OwnerOf", mock.Anything, s.id).Return(s.seller, nil)
	ledgerMock.On("Transfer", mock.Anything, s.id, s.seller, s.buyer).Return(nil)

	registryMock := &listingMocks.Registry{}
	registryMock.On("GetRaw", mock.Anything, s.id).Return(&listing.Listing{
		SalePrice:       big.NewInt(100),
		ExpiresAt:       s.expiresAt,
		Currency:        domain.NativeCurrency,
		HistoricalPrice: big.NewInt(0),
		Seller:          s.seller,
	})
	registryMock.On("Invalidate", mock.Anything, s.id).Return(nil)

	u := New(&MarketplaceCfg{
		Registry:        registryMock,
		Ledger:          ledgerMock,
		Calculator:      royaltyUsecase.NewCalculator(&royaltyUsecase.CalculatorCfg{Source: &stubSource{recipient: s.recipient, rateBps: 1000}}),
		Processor:       paymentUsecase.NewProcessor(&paymentUsecase.ProcessorCfg{Native: s.bank, Token: s.bank}),
		Token:           s.bank,
		EventRepo:       s.events,
		Escrow:          s.bank,
		Reverser:        s.bank,
		Operator:        s.operator,
		PurchaseTimeout: 200 * time.Millisecond,
	})

	err := u.BuyItem(s.ctx, s.id, s.buyer, big.NewInt(100), domain.NativeCurrency, big.NewInt(100))
	s.Require().NoError(err)

	registryMock.AssertCalled(s.T(), "Invalidate", mock.Anything, s.id)
	s.Equal("90", s.bank.NativeBalanceOf(s.ctx, s.seller).String())
}

func (s *marketplaceSuite) TestGetEvents() {
	events := &marketplaceMocks.EventRepo{}
	want := []*marketplace.Event{{Type: marketplace.EventTypePurchased}}
	events.On("FindAll", mock.Anything, mock.Anything).Return(want, nil)

	registry := listingUsecase.NewListingRegistry(&listingUsecase.ListingRegistryCfg{
		Ledger:    s.ledger,
		EventRepo: events,
	})
	u := New(&MarketplaceCfg{
		Registry:   registry,
		Ledger:     s.ledger,
		Calculator: royaltyUsecase.NewCalculator(&royaltyUsecase.CalculatorCfg{Source: &stubSource{}}),
		Processor:  paymentUsecase.NewProcessor(&paymentUsecase.ProcessorCfg{Native: s.bank, Token: s.bank}),
		Token:      s.bank,
		EventRepo:  events,
		Escrow:     s.bank,
		Reverser:   s.bank,
		Operator:   s.operator,
	})

	got, err := u.GetEvents(s.ctx, marketplace.WithAssetId(s.id))
	s.Require().NoError(err)
	s.Equal(want, got)
}
