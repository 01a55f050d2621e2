package usecase

import (
	"math/big"
	"strings"

	"golang.org/x/xerrors"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/log"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
	"github.com/tradeport/goapi/domain/ledger"
	"github.com/tradeport/goapi/service/chain/contract"
)

// ErrChainLedgerReadOnly is returned for mutations on the chain-backed
// ledger; transfers settle on chain, not through this process.
var ErrChainLedgerReadOnly = xerrors.New("chain ledger is read-only")

// ChainLedger reads ownership from deployed ERC-721 contracts. It
// cannot observe transfers happening on chain, so it reports hook
// registration as unsupported and callers fall back to explicit
// invalidation.
type ChainLedger struct {
	erc721 contract.Erc721Contract
}

func NewChainLedger(erc721 contract.Erc721Contract) *ChainLedger {
	return &ChainLedger{erc721: erc721}
}

func (l *ChainLedger) OwnerOf(ctx bCtx.Ctx, id asset.Id) (domain.Address, error) {
	tokenId, err := parseTokenId(id.TokenId)
	if err != nil {
		return domain.EmptyAddress, err
	}
	owner, err := l.erc721.OwnerOf(ctx, int32(id.ChainId), id.Collection.ToLowerStr(), tokenId)
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("erc721.OwnerOf failed")
		return domain.EmptyAddress, err
	}
	return domain.Address(owner).ToLower(), nil
}

func (l *ChainLedger) IsApprovedOrOwner(ctx bCtx.Ctx, id asset.Id, operator domain.Address) (bool, error) {
	owner, err := l.OwnerOf(ctx, id)
	if err != nil {
		return false, err
	}
	op := operator.ToLower()
	if owner.Equals(op) {
		return true, nil
	}

	tokenId, err := parseTokenId(id.TokenId)
	if err != nil {
		return false, err
	}
	approved, err := l.erc721.GetApproved(ctx, int32(id.ChainId), id.Collection.ToLowerStr(), tokenId)
	if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("erc721.GetApproved failed")
		return false, err
	}
	if domain.Address(approved).ToLower().Equals(op) && !op.IsEmpty() {
		return true, nil
	}
	return l.erc721.IsApprovedForAll(ctx, int32(id.ChainId), id.Collection.ToLowerStr(), owner.ToLowerStr(), op.ToLowerStr())
}

func (l *ChainLedger) Transfer(ctx bCtx.Ctx, id asset.Id, from, to domain.Address) error {
	return ErrChainLedgerReadOnly
}

func (l *ChainLedger) RegisterPreTransferHook(hook ledger.PreTransferHook) bool {
	return false
}

func parseTokenId(id domain.TokenId) (*big.Int, error) {
	base := 10
	if strings.HasPrefix(id.String(), "0x") {
		base = 0
	}
	v, ok := new(big.Int).SetString(id.String(), base)
	if !ok {
		return nil, domain.ErrInvalidNumberFormat
	}
	return v, nil
}
