package usecase

import (
	"sync"

	"golang.org/x/xerrors"

	bCtx "github.com/tradeport/goapi/base/ctx"
	"github.com/tradeport/goapi/base/log"
	"github.com/tradeport/goapi/domain"
	"github.com/tradeport/goapi/domain/asset"
	"github.com/tradeport/goapi/domain/ledger"
)

type operatorKey struct {
	owner    domain.Address
	operator domain.Address
}

// AssetLedger is the in-process ownership store. It mirrors the
// approval model of the usual non-fungible token contracts: a single
// approved address per asset plus per-owner operator approvals. All
// registered pre-transfer hooks run before the owner record changes,
// on every transfer path; a hook error aborts the transfer.
type AssetLedger struct {
	mu                sync.RWMutex
	owners            map[asset.Id]domain.Address
	tokenApprovals    map[asset.Id]domain.Address
	operatorApprovals map[operatorKey]bool

	hookMu sync.RWMutex
	hooks  []ledger.PreTransferHook
}

func NewAssetLedger() *AssetLedger {
	return &AssetLedger{
		owners:            make(map[asset.Id]domain.Address),
		tokenApprovals:    make(map[asset.Id]domain.Address),
		operatorApprovals: make(map[operatorKey]bool),
	}
}

// Mint records to as the owner of a previously unowned asset.
func (l *AssetLedger) Mint(ctx bCtx.Ctx, id asset.Id, to domain.Address) error {
	if to.IsEmpty() {
		return xerrors.Errorf("mint %s to the empty address: %w", id.String(), domain.ErrBadParamInput)
	}
	key := id.ToLower()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.owners[key]; ok {
		return xerrors.Errorf("mint %s: already owned: %w", id.String(), domain.ErrBadParamInput)
	}
	l.owners[key] = to.ToLower()
	return nil
}

func (l *AssetLedger) OwnerOf(ctx bCtx.Ctx, id asset.Id) (domain.Address, error) {
	l.mu.RLock()
	owner, ok := l.owners[id.ToLower()]
	l.mu.RUnlock()
	if !ok {
		return domain.EmptyAddress, domain.ErrNotFound
	}
	return owner, nil
}

func (l *AssetLedger) IsApprovedOrOwner(ctx bCtx.Ctx, id asset.Id, operator domain.Address) (bool, error) {
	key := id.ToLower()
	op := operator.ToLower()

	l.mu.RLock()
	defer l.mu.RUnlock()
	owner, ok := l.owners[key]
	if !ok {
		return false, domain.ErrNotFound
	}
	if owner.Equals(op) {
		return true, nil
	}
	if l.tokenApprovals[key].Equals(op) && !op.IsEmpty() {
		return true, nil
	}
	return l.operatorApprovals[operatorKey{owner: owner, operator: op}], nil
}

// Approve grants operator the right to act on a single asset. Only the
// current owner or one of its operators may grant it. The empty address
// clears the approval.
func (l *AssetLedger) Approve(ctx bCtx.Ctx, id asset.Id, caller, operator domain.Address) error {
	key := id.ToLower()

	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.owners[key]
	if !ok {
		return domain.ErrNotFound
	}
	callerL := caller.ToLower()
	if !owner.Equals(callerL) && !l.operatorApprovals[operatorKey{owner: owner, operator: callerL}] {
		return domain.ErrCallerIsntOwnerNorApproved
	}
	if operator.IsEmpty() {
		delete(l.tokenApprovals, key)
	} else {
		l.tokenApprovals[key] = operator.ToLower()
	}
	return nil
}

// SetApprovalForAll toggles an operator approval covering every asset
// the caller owns now or later.
func (l *AssetLedger) SetApprovalForAll(ctx bCtx.Ctx, caller, operator domain.Address, approved bool) error {
	if operator.IsEmpty() {
		return xerrors.Errorf("approve the empty operator: %w", domain.ErrBadParamInput)
	}
	key := operatorKey{owner: caller.ToLower(), operator: operator.ToLower()}

	l.mu.Lock()
	defer l.mu.Unlock()
	if approved {
		l.operatorApprovals[key] = true
	} else {
		delete(l.operatorApprovals, key)
	}
	return nil
}

func (l *AssetLedger) Transfer(ctx bCtx.Ctx, id asset.Id, from, to domain.Address) error {
	if to.IsEmpty() {
		return xerrors.Errorf("transfer %s to the empty address: %w", id.String(), domain.ErrBadParamInput)
	}
	key := id.ToLower()
	fromL := from.ToLower()
	toL := to.ToLower()

	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.owners[key]
	if !ok {
		return domain.ErrNotFound
	}
	if !owner.Equals(fromL) {
		return xerrors.Errorf("transfer %s from %s: not the owner: %w", id.String(), from, domain.ErrCallerIsntOwnerNorApproved)
	}

	// hooks fire while the ledger lock is held so no transfer can
	// interleave between the hook and the owner change
	if err := l.runHooks(ctx, id, fromL, toL); err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Warn("pre-transfer hook rejected transfer")
		return err
	}

	l.owners[key] = toL
	delete(l.tokenApprovals, key)
	return nil
}

func (l *AssetLedger) RegisterPreTransferHook(hook ledger.PreTransferHook) bool {
	l.hookMu.Lock()
	l.hooks = append(l.hooks, hook)
	l.hookMu.Unlock()
	return true
}

func (l *AssetLedger) runHooks(ctx bCtx.Ctx, id asset.Id, from, to domain.Address) error {
	l.hookMu.RLock()
	hooks := l.hooks
	l.hookMu.RUnlock()
	for _, hook := range hooks {
		if err := hook(ctx, id, from, to); err != nil {
			return err
		}
	}
	return nil
}
