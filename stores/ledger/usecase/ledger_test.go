package usecase

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
)

type assetLedgerSuite struct {
	suite.Suite

	ctx    bCtx.Ctx
	ledger *AssetLedger

	owner    domain.Address
	operator domain.Address
	buyer    domain.Address
	id       asset.Id
}

func TestAssetLedgerSuite(t *testing.T) {
	suite.Run(t, new(assetLedgerSuite))
}

func (s *assetLedgerSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.ledger = NewAssetLedger()
	s.owner = "0xce4468e7ce84aceb74363f4ea64e5a038176f369"
	s.operator = "0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad"
	s.buyer = "0x07fe9ffd85b54a3a18467d3b5e91a55ecc52a268"
	s.id = asset.Id{ChainId: 1, Collection: "0xDCF0dE6b17785A143d006E1515A6Afd123Cde8BA", TokenId: "1"}
}

func (s *assetLedgerSuite) TestMintAndOwnerOf() {
	s.Require().NoError(s.ledger.Mint(s.ctx, s.id, s.owner))

	owner, err := s.ledger.OwnerOf(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(s.owner, owner)

	// collection address casing must not matter
	mixedCase := asset.Id{ChainId: 1, Collection: "0xdcf0de6b17785a143d006e1515a6afd123cde8ba", TokenId: "1"}
	owner, err = s.ledger.OwnerOf(s.ctx, mixedCase)
	s.Require().NoError(err)
	s.Equal(s.owner, owner)

	err = s.ledger.Mint(s.ctx, s.id, s.buyer)
	s.True(xerrors.Is(err, domain.ErrBadParamInput))
}

func (s *assetLedgerSuite) TestOwnerOfUnknownAsset() {
	_, err := s.ledger.OwnerOf(s.ctx, s.id)
	s.Equal(domain.ErrNotFound, err)
}

func (s *assetLedgerSuite) TestIsApprovedOrOwner() {
	s.Require().NoError(s.ledger.Mint(s.ctx, s.id, s.owner))

	ok, err := s.ledger.IsApprovedOrOwner(s.ctx, s.id, s.owner)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.ledger.IsApprovedOrOwner(s.ctx, s.id, s.buyer)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.ledger.Approve(s.ctx, s.id, s.owner, s.operator))
	ok, err = s.ledger.IsApprovedOrOwner(s.ctx, s.id, s.operator)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.ledger.SetApprovalForAll(s.ctx, s.owner, s.buyer, true))
	ok, err = s.ledger.IsApprovedOrOwner(s.ctx, s.id, s.buyer)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.ledger.SetApprovalForAll(s.ctx, s.owner, s.buyer, false))
	ok, err = s.ledger.IsApprovedOrOwner(s.ctx, s.id, s.buyer)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *assetLedgerSuite) TestApproveRequiresAuthority() {
	s.Require().NoError(s.ledger.Mint(s.ctx, s.id, s.owner))

	err := s.ledger.Approve(s.ctx, s.id, s.buyer, s.operator)
	s.Equal(domain.ErrCallerIsntOwnerNorApproved, err)
}

func (s *assetLedgerSuite) TestTransfer() {
	s.Require().NoError(s.ledger.Mint(s.ctx, s.id, s.owner))
	s.Require().NoError(s.ledger.Approve(s.ctx, s.id, s.owner, s.operator))

	err := s.ledger.Transfer(s.ctx, s.id, s.buyer, s.operator)
	s.True(xerrors.Is(err, domain.ErrCallerIsntOwnerNorApproved))

	s.Require().NoError(s.ledger.Transfer(s.ctx, s.id, s.owner, s.buyer))

	owner, err := s.ledger.OwnerOf(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(s.buyer, owner)

	// the single-asset approval does not survive the transfer
	ok, err := s.ledger.IsApprovedOrOwner(s.ctx, s.id, s.operator)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *assetLedgerSuite) TestPreTransferHooks() {
	s.Require().NoError(s.ledger.Mint(s.ctx, s.id, s.owner))

	var got []string
	s.True(s.ledger.RegisterPreTransferHook(func(c bCtx.Ctx, id asset.Id, from, to domain.Address) error {
		got = append(got, from.ToLowerStr()+"->"+to.ToLowerStr())
		return nil
	}))

	s.Require().NoError(s.ledger.Transfer(s.ctx, s.id, s.owner, s.buyer))
	s.Equal([]string{s.owner.ToLowerStr() + "->" + s.buyer.ToLowerStr()}, got)
}

func (s *assetLedgerSuite) TestHookErrorAbortsTransfer() {
	s.Require().NoError(s.ledger.Mint(s.ctx, s.id, s.owner))

	hookErr := xerrors.New("rejected")
	s.ledger.RegisterPreTransferHook(func(c bCtx.Ctx, id asset.Id, from, to domain.Address) error {
		return hookErr
	})

	err := s.ledger.Transfer(s.ctx, s.id, s.owner, s.buyer)
	s.Equal(hookErr, err)

	owner, err := s.ledger.OwnerOf(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(s.owner, owner)
}
