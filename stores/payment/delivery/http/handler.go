package http

import (
	"math/big"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/delivery"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/stores/payment/usecase"
)

type handler struct {
	bank *usecase.Bank
}

func New(e *echo.Echo, bank *usecase.Bank) {
	h := &handler{bank: bank}

	g := e.Group("/bank")

	g.POST("/deposits", h.depositNative)

	g.POST("/tokens", h.mintToken)

	g.POST("/allowances", h.approveToken)

	g.GET("/balances/:address", h.getBalances)
}

func (h *handler) depositNative(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		To     domain.Address `json:"to" validate:"required"`
		Amount string         `json:"amount" validate:"required"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	h.bank.DepositNative(ctx, p.To, amount)
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

func (h *handler) mintToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Currency domain.Address `json:"currency" validate:"required"`
		To       domain.Address `json:"to" validate:"required"`
		Amount   string         `json:"amount" validate:"required"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	h.bank.MintToken(ctx, p.Currency, p.To, amount)
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

func (h *handler) approveToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Currency domain.Address `json:"currency" validate:"required"`
		Owner    domain.Address `json:"owner" validate:"required"`
		// Spender defaults to the marketplace operator
		Spender domain.Address `json:"spender"`
		Amount  string         `json:"amount" validate:"required"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	spender := p.Spender
	if spender.IsEmpty() {
		spender = h.bank.Operator()
	}

	h.bank.ApproveToken(ctx, p.Currency, p.Owner, spender, amount)
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

func (h *handler) getBalances(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Currency domain.Address `query:"currency"`
	}

	address := domain.Address(c.Param("address"))
	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	type balance struct {
		Address  domain.Address `json:"address"`
		Currency domain.Address `json:"currency"`
		Amount   string         `json:"amount"`
	}

	res := balance{Address: address.ToLower(), Currency: domain.NativeCurrency}
	if p.Currency.IsEmpty() || p.Currency.IsNative() {
		res.Amount = h.bank.NativeBalanceOf(ctx, address).String()
	} else {
		res.Currency = p.Currency.ToLower()
		res.Amount = h.bank.TokenBalanceOf(ctx, p.Currency, address).String()
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, domain.ErrInvalidNumberFormat
	}
	return v, nil
}
