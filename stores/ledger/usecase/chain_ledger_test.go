package usecase

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
)

// stubErc721 answers ownership queries from fixed values.
type stubErc721 struct {
	owner       string
	approved    string
	approvedAll bool
}

func (s *stubErc721) OwnerOf(ctx bCtx.Ctx, chainId int32, collection string, tokenId *big.Int) (string, error) {
	return s.owner, nil
}

func (s *stubErc721) GetApproved(ctx bCtx.Ctx, chainId int32, collection string, tokenId *big.Int) (string, error) {
	return s.approved, nil
}

func (s *stubErc721) IsApprovedForAll(ctx bCtx.Ctx, chainId int32, collection, owner, operator string) (bool, error) {
	return s.approvedAll, nil
}

type chainLedgerSuite struct {
	suite.Suite

	ctx  bCtx.Ctx
	stub *stubErc721
	l    *ChainLedger
	id   asset.Id
}

func TestChainLedgerSuite(t *testing.T) {
	suite.Run(t, new(chainLedgerSuite))
}

func (s *chainLedgerSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.stub = &stubErc721{owner: "0xCE4468E7CE84ACEB74363F4EA64E5A038176F369"}
	s.l = NewChainLedger(s.stub)
	s.id = asset.Id{ChainId: 1, Collection: "0xdcf0de6b17785a143d006e1515a6afd123cde8ba", TokenId: "42"}
}

func (s *chainLedgerSuite) TestOwnerOfLowersAddress() {
	owner, err := s.l.OwnerOf(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(domain.Address("0xce4468e7ce84aceb74363f4ea64e5a038176f369"), owner)
}

func (s *chainLedgerSuite) TestOwnerOfRejectsMalformedTokenId() {
	bad := s.id
	bad.TokenId = "not-a-number"
	_, err := s.l.OwnerOf(s.ctx, bad)
	s.Equal(domain.ErrInvalidNumberFormat, err)
}

func (s *chainLedgerSuite) TestIsApprovedOrOwner() {
	ok, err := s.l.IsApprovedOrOwner(s.ctx, s.id, "0xce4468e7ce84aceb74363f4ea64e5a038176f369")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.l.IsApprovedOrOwner(s.ctx, s.id, "0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")
	s.Require().NoError(err)
	s.False(ok)

	s.stub.approved = "0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad"
	ok, err = s.l.IsApprovedOrOwner(s.ctx, s.id, "0xDF8650B0CA1260F7A2F4FDFF9082AEDE554F65AD")
	s.Require().NoError(err)
	s.True(ok)

	s.stub.approved = ""
	s.stub.approvedAll = true
	ok, err = s.l.IsApprovedOrOwner(s.ctx, s.id, "0x07fe9ffd85b54a3a18467d3b5e91a55ecc52a268")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *chainLedgerSuite) TestMutationsAreRejected() {
	err := s.l.Transfer(s.ctx, s.id, "0xce4468e7ce84aceb74363f4ea64e5a038176f369", "0xdf8650b0ca1260f7a2f4fdff9082aede554f65ad")
	s.Equal(ErrChainLedgerReadOnly, err)

	s.False(s.l.RegisterPreTransferHook(nil))
}

func TestParseTokenId(t *testing.T) {
	v, err := parseTokenId("42")
	require.NoError(t, err)
	require.Equal(t, "42", v.String())

	v, err = parseTokenId("0x2a")
	require.NoError(t, err)
	require.Equal(t, "42", v.String())

	_, err = parseTokenId("")
	require.Equal(t, domain.ErrInvalidNumberFormat, err)
}
