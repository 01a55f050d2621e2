package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/delivery"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
	dLedger "github.com/tradeport/goapi/domain/ledger"
	"github.com/tradeport/goapi/stores/ledger/usecase"
)

type handler struct {
	ledger *usecase.AssetLedger

	// mirror answers owner lookups for assets the local ledger has
	// never seen, typically backed by deployed contracts. Optional.
	mirror dLedger.Ledger
}

func New(e *echo.Echo, ledger *usecase.AssetLedger, mirror dLedger.Ledger) {
	h := &handler{ledger: ledger, mirror: mirror}

	e.POST("/assets", h.mint)

	g := e.Group("/assets/:chainId/:collection/:tokenId")

	g.GET("/owner", h.getOwner)

	g.POST("/approvals", h.approve)

	// direct transfer path, distinct from purchase
	g.POST("/transfers", h.transfer)
}

func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		ChainId    domain.ChainId `json:"chainId" validate:"required"`
		Collection domain.Address `json:"collection" validate:"required"`
		TokenId    domain.TokenId `json:"tokenId" validate:"required"`
		To         domain.Address `json:"to" validate:"required"`
	}

	p := params{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	id := asset.Id{ChainId: p.ChainId, Collection: p.Collection, TokenId: p.TokenId}
	if err := h.ledger.Mint(ctx, id, p.To); err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

func (h *handler) getOwner(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id, err := parseAssetId(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	owner, err := h.ledger.OwnerOf(ctx, id)
	if errors.Is(err, domain.ErrNotFound) && h.mirror != nil {
		owner, err = h.mirror.OwnerOf(ctx, id)
	}
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, owner)
}

func (h *handler) approve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Caller   domain.Address `json:"caller" validate:"required"`
		Operator domain.Address `json:"operator"`
		// ForAll grants the operator every asset the caller owns
		ForAll   bool `json:"forAll"`
		Approved bool `json:"approved"`
	}

	id, err := parseAssetId(c)
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

	if p.ForAll {
		err = h.ledger.SetApprovalForAll(ctx, p.Caller, p.Operator, p.Approved)
	} else {
		err = h.ledger.Approve(ctx, id, p.Caller, p.Operator)
	}
	if err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

func (h *handler) transfer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		From domain.Address `json:"from" validate:"required"`
		To   domain.Address `json:"to" validate:"required"`
	}

	id, err := parseAssetId(c)
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

	if err := h.ledger.Transfer(ctx, id, p.From, p.To); err != nil {
		return delivery.MakeJsonResp(c, statusOf(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
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

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCallerIsntOwnerNorApproved):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
