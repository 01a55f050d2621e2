package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/tradeport/goapi/base/abi"
	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/service/chain"
)

// Erc20Contract reads fungible-token state on chain.
type Erc20Contract interface {
	Allowance(ctx bCtx.Ctx, chainId int32, token, owner, spender string) (*big.Int, error)
	BalanceOf(ctx bCtx.Ctx, chainId int32, token, account string) (*big.Int, error)
	Decimals(ctx bCtx.Ctx, chainId int32, token string) (uint8, error)
}

type Erc20 struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewErc20(chainService chain.Client) Erc20Contract {
	return &Erc20{
		abi:          baseabi.Erc20ABI,
		chainService: chainService,
	}
}

func (e *Erc20) Allowance(ctx bCtx.Ctx, chainId int32, token, owner, spender string) (*big.Int, error) {
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(token), nil, e.abi, "allowance", common.HexToAddress(owner), common.HexToAddress(spender))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc20) BalanceOf(ctx bCtx.Ctx, chainId int32, token, account string) (*big.Int, error) {
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(token), nil, e.abi, "balanceOf", common.HexToAddress(account))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc20) Decimals(ctx bCtx.Ctx, chainId int32, token string) (uint8, error) {
	unpacked, err := e.chainService.Call(ctx, chainId, common.HexToAddress(token), nil, e.abi, "decimals")
	if err != nil {
		return 0, err
	}
	return unpacked[0].(uint8), nil
}
