package usecase

import (
	"math/big"
	"sync"

	"golang.org/x/xerrors"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/domain"
)

var errInsufficientFunds = xerrors.New("insufficient funds")

type allowanceKey struct {
	currency domain.Address
	owner    domain.Address
	spender  domain.Address
}

type holdingKey struct {
	currency domain.Address
	holder   domain.Address
}

// Bank is the in-process settlement backend. It keeps native balances,
// fungible token balances and spend allowances, and doubles as the
// marketplace escrow: value collected for a purchase sits on the
// operator account until the payout legs run.
//
// It implements payment.NativeTransferor, payment.TokenTransferor,
// payment.ValueEscrow and payment.Reverser.
type Bank struct {
	// operator is the marketplace identity: the allowance spender and
	// the escrow account for collected native value.
	operator domain.Address

	mu         sync.Mutex
	native     map[domain.Address]*big.Int
	tokens     map[holdingKey]*big.Int
	allowances map[allowanceKey]*big.Int
}

func NewBank(operator domain.Address) *Bank {
	return &Bank{
		operator:   operator.ToLower(),
		native:     make(map[domain.Address]*big.Int),
		tokens:     make(map[holdingKey]*big.Int),
		allowances: make(map[allowanceKey]*big.Int),
	}
}

func (b *Bank) Operator() domain.Address {
	return b.operator
}

// DepositNative credits native currency to an account.
func (b *Bank) DepositNative(ctx bCtx.Ctx, to domain.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credit(b.native, to.ToLower(), amount)
}

// MintToken credits fungible tokens of the given currency to an account.
func (b *Bank) MintToken(ctx bCtx.Ctx, currency, to domain.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.creditToken(holdingKey{currency: currency.ToLower(), holder: to.ToLower()}, amount)
}

// ApproveToken sets the allowance spender may draw from owner.
func (b *Bank) ApproveToken(ctx bCtx.Ctx, currency, owner, spender domain.Address, amount *big.Int) {
	key := allowanceKey{currency: currency.ToLower(), owner: owner.ToLower(), spender: spender.ToLower()}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allowances[key] = new(big.Int).Set(amount)
}

func (b *Bank) NativeBalanceOf(ctx bCtx.Ctx, holder domain.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance(b.native, holder.ToLower())
}

func (b *Bank) TokenBalanceOf(ctx bCtx.Ctx, currency, holder domain.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.tokens[holdingKey{currency: currency.ToLower(), holder: holder.ToLower()}]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// Send pays native currency out of the escrow account.
func (b *Bank) Send(ctx bCtx.Ctx, to domain.Address, amount *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moveNative(b.operator, to.ToLower(), amount)
}

// Collect escrows native value attached to a purchase.
func (b *Bank) Collect(ctx bCtx.Ctx, from domain.Address, amount *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moveNative(from.ToLower(), b.operator, amount)
}

// Refund returns escrowed native value after an aborted purchase.
func (b *Bank) Refund(ctx bCtx.Ctx, to domain.Address, amount *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moveNative(b.operator, to.ToLower(), amount)
}

func (b *Bank) Allowance(ctx bCtx.Ctx, currency, owner, spender domain.Address) (*big.Int, error) {
	key := allowanceKey{currency: currency.ToLower(), owner: owner.ToLower(), spender: spender.ToLower()}
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.allowances[key]; ok {
		return new(big.Int).Set(v), nil
	}
	return new(big.Int), nil
}

// TransferFrom moves tokens from an owner against the allowance it
// granted the bank operator.
func (b *Bank) TransferFrom(ctx bCtx.Ctx, currency, from, to domain.Address, amount *big.Int) error {
	currencyL := currency.ToLower()
	fromL := from.ToLower()
	aKey := allowanceKey{currency: currencyL, owner: fromL, spender: b.operator}

	b.mu.Lock()
	defer b.mu.Unlock()
	allowance, ok := b.allowances[aKey]
	if !ok || allowance.Cmp(amount) < 0 {
		return xerrors.Errorf("allowance of %s from %s: %w", currency, from, domain.ErrInsufficientAllowance)
	}
	if err := b.moveToken(currencyL, fromL, to.ToLower(), amount); err != nil {
		return err
	}
	allowance.Sub(allowance, amount)
	return nil
}

// Reverse undoes a delivered payment leg. It bypasses allowance checks;
// the purchase coordinator only calls it with the exact amount and
// parties of a leg it just executed.
func (b *Bank) Reverse(ctx bCtx.Ctx, currency domain.Address, amount *big.Int, payer, recipient domain.Address) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if currency.IsNative() {
		// a native leg was paid out of escrow, so the reversal returns
		// the funds there
		return b.moveNative(recipient.ToLower(), b.operator, amount)
	}
	if err := b.moveToken(currency.ToLower(), recipient.ToLower(), payer.ToLower(), amount); err != nil {
		return err
	}
	// the leg consumed allowance in TransferFrom; an aborted purchase
	// must not leave the payer's grant reduced
	aKey := allowanceKey{currency: currency.ToLower(), owner: payer.ToLower(), spender: b.operator}
	if allowance, ok := b.allowances[aKey]; ok {
		allowance.Add(allowance, amount)
	} else {
		b.allowances[aKey] = new(big.Int).Set(amount)
	}
	return nil
}

func (b *Bank) moveNative(from, to domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return xerrors.Errorf("move native %v: %w", amount, domain.ErrBadParamInput)
	}
	bal := b.balanceRef(b.native, from)
	if bal.Cmp(amount) < 0 {
		return xerrors.Errorf("native balance of %s: %w", from, errInsufficientFunds)
	}
	bal.Sub(bal, amount)
	b.credit(b.native, to, amount)
	return nil
}

func (b *Bank) moveToken(currency, from, to domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return xerrors.Errorf("move token %v: %w", amount, domain.ErrBadParamInput)
	}
	key := holdingKey{currency: currency, holder: from}
	bal, ok := b.tokens[key]
	if !ok || bal.Cmp(amount) < 0 {
		return xerrors.Errorf("%s balance of %s: %w", currency, from, errInsufficientFunds)
	}
	bal.Sub(bal, amount)
	b.creditToken(holdingKey{currency: currency, holder: to}, amount)
	return nil
}

func (b *Bank) balance(m map[domain.Address]*big.Int, holder domain.Address) *big.Int {
	if v, ok := m[holder]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

func (b *Bank) balanceRef(m map[domain.Address]*big.Int, holder domain.Address) *big.Int {
	v, ok := m[holder]
	if !ok {
		v = new(big.Int)
		m[holder] = v
	}
	return v
}

func (b *Bank) credit(m map[domain.Address]*big.Int, to domain.Address, amount *big.Int) {
	b.balanceRef(m, to).Add(b.balanceRef(m, to), amount)
}

func (b *Bank) creditToken(key holdingKey, amount *big.Int) {
	v, ok := b.tokens[key]
	if !ok {
		v = new(big.Int)
		b.tokens[key] = v
	}
	v.Add(v, amount)
}
