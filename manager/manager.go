package manager

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dvault/token"
	"github.com/sisu-network/dvault/types"
)

// Role is a capability tag scoped to one token manager.
type Role int

const (
	RoleOperator Role = iota
	RoleFlowLimiter
)

func (r Role) String() string {
	switch r {
	case RoleOperator:
		return "OPERATOR"
	case RoleFlowLimiter:
		return "FLOW_LIMITER"
	default:
		return "UNKNOWN"
	}
}

// TokenManager owns the custody of one token id on this chain. The custody
// strategy is fixed at construction. The service serializes all calls, so the
// manager itself keeps no locks.
type TokenManager struct {
	tokenId      types.TokenId
	custodyType  types.CustodyType
	tokenAddress common.Address

	// The account custody is held under, derived from the token id.
	address common.Address

	// Only set for the LiquidityPool custody type.
	liquidityPool common.Address

	registry token.Registry
	roles    map[common.Address]map[Role]bool

	flow *flowLimiter
}

// NewTokenManager validates the strategy params and builds the manager.
// now may be nil, in which case wall-clock time drives the flow epochs.
func NewTokenManager(
	tokenId types.TokenId,
	custodyType types.CustodyType,
	params types.ManagerParams,
	registry token.Registry,
	flowEpoch time.Duration,
	now func() time.Time,
) (*TokenManager, error) {
	if !custodyType.Valid() {
		return nil, types.ErrSetupFailed
	}
	if params.TokenAddress == (common.Address{}) {
		return nil, types.ErrZeroAddress
	}
	if custodyType == types.CustodyLiquidityPool && params.LiquidityPool == (common.Address{}) {
		return nil, types.ErrSetupFailed
	}

	m := &TokenManager{
		tokenId:       tokenId,
		custodyType:   custodyType,
		tokenAddress:  params.TokenAddress,
		address:       types.TokenManagerAddress(tokenId),
		liquidityPool: params.LiquidityPool,
		registry:      registry,
		roles:         make(map[common.Address]map[Role]bool),
		flow:          newFlowLimiter(flowEpoch, now),
	}

	if params.Operator != (common.Address{}) {
		m.setRole(params.Operator, RoleOperator)
		m.setRole(params.Operator, RoleFlowLimiter)
	}

	return m, nil
}

func (m *TokenManager) TokenId() types.TokenId {
	return m.tokenId
}

func (m *TokenManager) CustodyType() types.CustodyType {
	return m.custodyType
}

func (m *TokenManager) TokenAddress() common.Address {
	return m.tokenAddress
}

// Address is the account this manager holds custody under.
func (m *TokenManager) Address() common.Address {
	return m.address
}

// TakeCustody moves amount from the sender into this manager's custody
// according to its strategy and returns the amount actually secured. For
// fee-on-transfer assets that can be less than requested.
func (m *TokenManager) TakeCustody(from common.Address, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, types.ErrZeroAmount
	}

	// The requested amount is an upper bound on the actual flow, so checking
	// it up front keeps the invariant without moving assets first.
	if err := m.flow.checkOutflow(amount); err != nil {
		return nil, err
	}

	tok, err := m.registry.Get(m.tokenAddress)
	if err != nil {
		return nil, types.NewTransferError(m.tokenId, "take", err)
	}

	var actual *big.Int
	switch m.custodyType {
	case types.CustodyLockUnlock:
		if err := tok.TransferFrom(m.address, from, m.address, amount); err != nil {
			return nil, types.NewTransferError(m.tokenId, "take", err)
		}
		actual = new(big.Int).Set(amount)

	case types.CustodyMintBurn:
		if err := tok.Burn(from, amount); err != nil {
			return nil, types.NewTransferError(m.tokenId, "burn", err)
		}
		actual = new(big.Int).Set(amount)

	case types.CustodyMintBurnFrom:
		if err := tok.BurnFrom(m.address, from, amount); err != nil {
			return nil, types.NewTransferError(m.tokenId, "burnFrom", err)
		}
		actual = new(big.Int).Set(amount)

	case types.CustodyLockUnlockFee:
		before, err := tok.BalanceOf(m.address)
		if err != nil {
			return nil, types.NewTransferError(m.tokenId, "balanceOf", err)
		}
		if err := tok.TransferFrom(m.address, from, m.address, amount); err != nil {
			return nil, types.NewTransferError(m.tokenId, "take", err)
		}
		after, err := tok.BalanceOf(m.address)
		if err != nil {
			return nil, types.NewTransferError(m.tokenId, "balanceOf", err)
		}
		actual = new(big.Int).Sub(after, before)

	case types.CustodyLiquidityPool:
		if err := tok.TransferFrom(m.address, from, m.liquidityPool, amount); err != nil {
			return nil, types.NewTransferError(m.tokenId, "take", err)
		}
		actual = new(big.Int).Set(amount)
	}

	m.flow.recordOutflow(actual)
	return actual, nil
}

// GiveCustody releases amount to the recipient and returns the amount the
// recipient actually received.
func (m *TokenManager) GiveCustody(to common.Address, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, types.ErrZeroAmount
	}

	if err := m.flow.checkInflow(amount); err != nil {
		return nil, err
	}

	tok, err := m.registry.Get(m.tokenAddress)
	if err != nil {
		return nil, types.NewTransferError(m.tokenId, "give", err)
	}

	var actual *big.Int
	switch m.custodyType {
	case types.CustodyLockUnlock:
		if err := m.checkCustodyBalance(tok, m.address, amount); err != nil {
			return nil, err
		}
		if err := tok.Transfer(m.address, to, amount); err != nil {
			return nil, types.NewTransferError(m.tokenId, "give", err)
		}
		actual = new(big.Int).Set(amount)

	case types.CustodyMintBurn, types.CustodyMintBurnFrom:
		if err := tok.Mint(to, amount); err != nil {
			return nil, types.NewTransferError(m.tokenId, "mint", err)
		}
		actual = new(big.Int).Set(amount)

	case types.CustodyLockUnlockFee:
		if err := m.checkCustodyBalance(tok, m.address, amount); err != nil {
			return nil, err
		}
		before, err := tok.BalanceOf(to)
		if err != nil {
			return nil, types.NewTransferError(m.tokenId, "balanceOf", err)
		}
		if err := tok.Transfer(m.address, to, amount); err != nil {
			return nil, types.NewTransferError(m.tokenId, "give", err)
		}
		after, err := tok.BalanceOf(to)
		if err != nil {
			return nil, types.NewTransferError(m.tokenId, "balanceOf", err)
		}
		actual = new(big.Int).Sub(after, before)

	case types.CustodyLiquidityPool:
		if err := m.checkCustodyBalance(tok, m.liquidityPool, amount); err != nil {
			return nil, err
		}
		if err := tok.TransferFrom(m.address, m.liquidityPool, to, amount); err != nil {
			return nil, types.NewTransferError(m.tokenId, "give", err)
		}
		actual = new(big.Int).Set(amount)
	}

	m.flow.recordInflow(actual)
	return actual, nil
}

// UndoTake reverses a TakeCustody after a later step of the same request
// failed, so the request commits or reverts as one unit. Only the dispatcher
// calls this, within the request that took custody.
func (m *TokenManager) UndoTake(from common.Address, actual *big.Int) error {
	tok, err := m.registry.Get(m.tokenAddress)
	if err != nil {
		return types.NewTransferError(m.tokenId, "undo", err)
	}

	switch m.custodyType {
	case types.CustodyLockUnlock, types.CustodyLockUnlockFee:
		err = tok.Transfer(m.address, from, actual)
	case types.CustodyMintBurn, types.CustodyMintBurnFrom:
		err = tok.Mint(from, actual)
	case types.CustodyLiquidityPool:
		err = tok.TransferFrom(m.address, m.liquidityPool, from, actual)
	}
	if err != nil {
		return types.NewTransferError(m.tokenId, "undo", err)
	}

	m.flow.unrecordOutflow(actual)
	return nil
}

// UndoGive reverses a GiveCustody after a later step of the same request
// failed. The service has authority over the just-credited funds because the
// request has not committed yet.
func (m *TokenManager) UndoGive(to common.Address, actual *big.Int) error {
	tok, err := m.registry.Get(m.tokenAddress)
	if err != nil {
		return types.NewTransferError(m.tokenId, "undo", err)
	}

	switch m.custodyType {
	case types.CustodyLockUnlock, types.CustodyLockUnlockFee:
		err = tok.Transfer(to, m.address, actual)
	case types.CustodyMintBurn, types.CustodyMintBurnFrom:
		err = tok.Burn(to, actual)
	case types.CustodyLiquidityPool:
		err = tok.Transfer(to, m.liquidityPool, actual)
	}
	if err != nil {
		return types.NewTransferError(m.tokenId, "undo", err)
	}

	m.flow.unrecordInflow(actual)
	return nil
}

func (m *TokenManager) checkCustodyBalance(tok token.Token, holder common.Address, amount *big.Int) error {
	bal, err := tok.BalanceOf(holder)
	if err != nil {
		return types.NewTransferError(m.tokenId, "balanceOf", err)
	}
	if bal.Cmp(amount) < 0 {
		return types.ErrInsufficientCustody
	}
	return nil
}

func (m *TokenManager) setRole(addr common.Address, role Role) {
	if m.roles[addr] == nil {
		m.roles[addr] = make(map[Role]bool)
	}
	m.roles[addr][role] = true
}
