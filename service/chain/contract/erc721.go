package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/tradeport/goapi/base/abi"
	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/service/chain"
)

// Erc721Contract reads non-fungible ownership state on chain.
type Erc721Contract interface {
	OwnerOf(ctx bCtx.Ctx, chainId int32, collection string, tokenId *big.Int) (string, error)
	GetApproved(ctx bCtx.Ctx, chainId int32, collection string, tokenId *big.Int) (string, error)
	IsApprovedForAll(ctx bCtx.Ctx, chainId int32, collection, owner, operator string) (bool, error)
}

type Erc721 struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewErc721(chainService chain.Client) Erc721Contract {
	return &Erc721{
		abi:          baseabi.Erc721ABI,
		chainService: chainService,
	}
}

func (e *Erc721) OwnerOf(ctx bCtx.Ctx, chainId int32, collection string, tokenId *big.Int) (string, error) {
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(collection), nil, e.abi, "ownerOf", tokenId)
	if err != nil {
		return "", err
	}
	return unpacked[0].(common.Address).String(), nil
}

func (e *Erc721) GetApproved(ctx bCtx.Ctx, chainId int32, collection string, tokenId *big.Int) (string, error) {
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(collection), nil, e.abi, "getApproved", tokenId)
	if err != nil {
		return "", err
	}
	return unpacked[0].(common.Address).String(), nil
}

func (e *Erc721) IsApprovedForAll(ctx bCtx.Ctx, chainId int32, collection, owner, operator string) (bool, error) {
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(collection), nil, e.abi, "isApprovedForAll", common.HexToAddress(owner), common.HexToAddress(operator))
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}
