package usecase

import (
	"math/big"

	"golang.org/x/xerrors"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/log"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/payment"
)

type ProcessorCfg struct {
	Native payment.NativeTransferor
	Token  payment.TokenTransferor
}

// processor routes a payment leg to the transferor matching its
// currency. Native legs are paid out of value the coordinator escrowed
// up front, so the payer argument only matters for token legs.
type processor struct {
	native payment.NativeTransferor
	token  payment.TokenTransferor
}

func NewProcessor(cfg *ProcessorCfg) payment.Processor {
	return &processor{
		native: cfg.Native,
		token:  cfg.Token,
	}
}

func (p *processor) Pay(ctx bCtx.Ctx, currency domain.Address, amount *big.Int, payer, recipient domain.Address) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return xerrors.Errorf("pay negative amount %s: %w", amount.String(), domain.ErrBadParamInput)
	}

	var err error
	if currency.IsNative() {
		err = p.native.Send(ctx, recipient, amount)
	} else {
		err = p.token.TransferFrom(ctx, currency, payer, recipient, amount)
	}
	if err != nil {
		ctx.WithFields(log.Fields{
			"currency":  currency,
			"amount":    amount.String(),
			"payer":     payer,
			"recipient": recipient,
			"err":       err,
		}).Error("payment leg failed")
		return xerrors.Errorf("pay %s %s to %s: %v: %w", amount.String(), currency, recipient, err, domain.ErrPaymentTransferFailed)
	}
	return nil
}
