package payment

import (
	"math/big"

	"github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/domain"
)

// NativeTransferor delivers native currency already attached to the
// operation to a recipient.
type NativeTransferor interface {
	Send(c ctx.Ctx, to domain.Address, amount *big.Int) error
}

// TokenTransferor moves fungible tokens against a pre-granted allowance.
// Amounts move directly between payer and recipient; the marketplace
// never custodies token funds.
type TokenTransferor interface {
	Allowance(c ctx.Ctx, currency, owner, spender domain.Address) (*big.Int, error)
	TransferFrom(c ctx.Ctx, currency, from, to domain.Address, amount *big.Int) error
}

// ValueEscrow holds native value attached to a purchase until the
// payout legs run. Collect moves the attached value out of the payer's
// balance; Refund returns it when the purchase aborts.
type ValueEscrow interface {
	Collect(c ctx.Ctx, from domain.Address, amount *big.Int) error
	Refund(c ctx.Ctx, to domain.Address, amount *big.Int) error
}

// Reverser undoes a completed payment leg while a failed purchase is
// compensated. Reversal bypasses allowances; it only ever moves funds
// a leg of the same purchase just delivered.
type Reverser interface {
	Reverse(c ctx.Ctx, currency domain.Address, amount *big.Int, payer, recipient domain.Address) error
}

// Processor executes one payment leg of a purchase. A zero amount is a
// legal no-op that trivially succeeds. A failed transfer surfaces as
// domain.ErrPaymentTransferFailed wrapping the underlying cause.
type Processor interface {
	Pay(c ctx.Ctx, currency domain.Address, amount *big.Int, payer, recipient domain.Address) error
}
