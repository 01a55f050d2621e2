package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/delivery"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/royalty"
	"github.com/tradeport/goapi/stores/royalty/usecase"
)

type handler struct {
	admin *usecase.ConfigAdmin
	repo  royalty.FeeConfigRepo
}

func New(e *echo.Echo, admin *usecase.ConfigAdmin, repo royalty.FeeConfigRepo) {
	h := &handler{admin: admin, repo: repo}

	g := e.Group("/royalties/:chainId/:collection")

	g.PUT("", h.setFeeConfig)

	g.GET("", h.getFeeConfig)
}

func (h *handler) setFeeConfig(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Recipient domain.Address `json:"recipient" validate:"required"`
		RateBps   int64          `json:"rateBps" validate:"min=0,max=10000"`
	}

	chainId, collection, err := parseConfigId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	cfg := &royalty.FeeConfig{
		ChainId:    chainId,
		Collection: collection,
		Recipient:  p.Recipient,
		RateBps:    p.RateBps,
	}
	if err := h.admin.SetFeeConfig(ctx, cfg); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

func (h *handler) getFeeConfig(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	chainId, collection, err := parseConfigId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	cfg, err := h.repo.FindOne(ctx, chainId, collection)
	if err == domain.ErrNoRoyaltyConfig {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

func parseConfigId(c echo.Context) (domain.ChainId, domain.Address, error) {
	chainId, err := strconv.ParseInt(c.Param("chainId"), 10, 32)
	if err != nil {
		return 0, domain.EmptyAddress, domain.ErrInvalidChainId
	}
	return domain.ChainId(chainId), domain.Address(c.Param("collection")), nil
}
