package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/tradeport/goapi/base/abi"
	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/service/chain"
)

// RoyaltyEngineContract queries an on-chain royalty engine for the
// recipients and amounts owed on a sale value.
type RoyaltyEngineContract interface {
	GetRoyalty(ctx bCtx.Ctx, chainId int32, addr string, collection string, tokenId *big.Int, value *big.Int) ([]string, []*big.Int, error)
}

type RoyaltyEngine struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewRoyaltyEngine(chainService chain.Client) RoyaltyEngineContract {
	return &RoyaltyEngine{
		abi:          baseabi.RoyaltyEngineABI,
		chainService: chainService,
	}
}

func (r *RoyaltyEngine) GetRoyalty(ctx bCtx.Ctx, chainId int32, addr string, collection string, tokenId *big.Int, value *big.Int) ([]string, []*big.Int, error) {
	method := "getRoyaltyView"
	unpacked, err := r.chainService.Call(ctx, chainId, common.HexToAddress(addr), nil, r.abi, method, common.HexToAddress(collection), tokenId, value)
	if err != nil {
		return nil, nil, err
	}
	recipients := unpacked[0].([]common.Address)
	var recipientStrs []string
	for _, recipient := range recipients {
		recipientStrs = append(recipientStrs, recipient.String())
	}
	return recipientStrs, unpacked[1].([]*big.Int), nil
}
