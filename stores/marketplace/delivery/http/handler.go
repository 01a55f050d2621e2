package http

import (
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/delivery"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
	"github.com/tradeport/goapi/domain/marketplace"
)

type handler struct {
	marketplace marketplace.UseCase
}

func New(e *echo.Echo, marketplaceUseCase marketplace.UseCase) {
	h := &handler{marketplace: marketplaceUseCase}

	g := e.Group("/marketplace")

	g.POST("/listings", h.listItem)

	g.DELETE("/listings/:chainId/:collection/:tokenId", h.delistItem)

	g.GET("/listings/:chainId/:collection/:tokenId", h.getListing)

	g.POST("/purchases", h.buyItem)

	g.GET("/events/:chainId/:collection/:tokenId", h.getEvents)
}

func (h *handler) listItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		ChainId         domain.ChainId `json:"chainId" validate:"required"`
		Collection      domain.Address `json:"collection" validate:"required"`
		TokenId         domain.TokenId `json:"tokenId" validate:"required"`
		Caller          domain.Address `json:"caller" validate:"required"`
		SalePrice       string         `json:"salePrice" validate:"required"`
		ExpiresAt       int64          `json:"expiresAt" validate:"required"`
		Currency        domain.Address `json:"currency"`
		HistoricalPrice string         `json:"historicalPrice"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	salePrice, err := parseAmount(p.SalePrice)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	var historicalPrice *big.Int
	if p.HistoricalPrice != "" {
		if historicalPrice, err = parseAmount(p.HistoricalPrice); err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
		}
	}
	currency := domain.NativeCurrency
	if !p.Currency.IsEmpty() {
		currency = p.Currency
	}

	id := asset.Id{ChainId: p.ChainId, Collection: p.Collection, TokenId: p.TokenId}
	if err := h.marketplace.ListItem(ctx, id, p.Caller, salePrice, time.Unix(p.ExpiresAt, 0), currency, historicalPrice); err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

func (h *handler) delistItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := parseAssetId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	caller := domain.Address(c.QueryParam("caller"))
	if caller.IsEmpty() {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "missing caller")
	}

	if err := h.marketplace.DelistItem(ctx, id, caller); err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := parseAssetId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	view, err := h.marketplace.GetListing(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, view)
}

func (h *handler) buyItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		ChainId           domain.ChainId `json:"chainId" validate:"required"`
		Collection        domain.Address `json:"collection" validate:"required"`
		TokenId           domain.TokenId `json:"tokenId" validate:"required"`
		Buyer             domain.Address `json:"buyer" validate:"required"`
		ExpectedSalePrice string         `json:"expectedSalePrice" validate:"required"`
		ExpectedCurrency  domain.Address `json:"expectedCurrency"`
		AttachedValue     string         `json:"attachedValue"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	expectedSalePrice, err := parseAmount(p.ExpectedSalePrice)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	var attachedValue *big.Int
	if p.AttachedValue != "" {
		if attachedValue, err = parseAmount(p.AttachedValue); err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
		}
	}
	expectedCurrency := domain.NativeCurrency
	if !p.ExpectedCurrency.IsEmpty() {
		expectedCurrency = p.ExpectedCurrency
	}

	id := asset.Id{ChainId: p.ChainId, Collection: p.Collection, TokenId: p.TokenId}
	if err := h.marketplace.BuyItem(ctx, id, p.Buyer, expectedSalePrice, expectedCurrency, attachedValue); err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

func (h *handler) getEvents(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Type   string `query:"type"`
		Offset int32  `query:"offset"`
		Limit  int32  `query:"limit"`
	}

	id, err := parseAssetId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []marketplace.EventFindAllOptionsFunc{marketplace.WithAssetId(id)}
	if p.Type != "" {
		opts = append(opts, marketplace.WithType(marketplace.EventType(p.Type)))
	}
	if p.Offset != 0 || p.Limit != 0 {
		opts = append(opts, marketplace.WithPagination(p.Offset, p.Limit))
	}

	events, err := h.marketplace.GetEvents(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, events)
}

func parseAssetId(c echo.Context) (asset.Id, error) {
	chainId, err := strconv.ParseInt(c.Param("chainId"), 10, 32)
	if err != nil {
		return asset.Id{}, domain.ErrInvalidChainId
	}
	return asset.Id{
		ChainId:    domain.ChainId(chainId),
		Collection: domain.Address(c.Param("collection")),
		TokenId:    domain.TokenId(c.Param("tokenId")),
	}, nil
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, domain.ErrInvalidNumberFormat
	}
	return v, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCallerIsntOwnerNorApproved):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidListing),
		errors.Is(err, domain.ErrReentrantCall):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSalePriceCannotBeZero),
		errors.Is(err, domain.ErrInvalidExpiresTimestamp),
		errors.Is(err, domain.ErrInconsistentSalePrice),
		errors.Is(err, domain.ErrInconsistentTokens),
		errors.Is(err, domain.ErrIncorrectValueSent),
		errors.Is(err, domain.ErrInsufficientAllowance),
		errors.Is(err, domain.ErrInvalidNumberFormat),
		errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPaymentTransferFailed):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
