package manager

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dvault/token"
	"github.com/sisu-network/dvault/types"
	"github.com/stretchr/testify/require"
)

var (
	sender    = common.HexToAddress("0x51")
	recipient = common.HexToAddress("0x52")
	operator  = common.HexToAddress("0x53")
	pool      = common.HexToAddress("0x54")
	tokenAddr = common.HexToAddress("0x55")
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestManager(t *testing.T, custody types.CustodyType, tok token.Token) (*TokenManager, *fakeClock) {
	reg := token.NewRegistry()
	require.Nil(t, reg.Register(tokenAddr, tok))

	clock := newFakeClock()
	params := types.ManagerParams{
		Operator:     operator,
		TokenAddress: tokenAddr,
	}
	if custody == types.CustodyLiquidityPool {
		params.LiquidityPool = pool
	}

	id := types.CustomTokenId(operator, [32]byte{1})
	m, err := NewTokenManager(id, custody, params, reg, 6*time.Hour, clock.now)
	require.Nil(t, err)

	return m, clock
}

func TestNewTokenManager_Validation(t *testing.T) {
	reg := token.NewRegistry()
	id := types.CustomTokenId(operator, [32]byte{1})

	_, err := NewTokenManager(id, types.CustodyLockUnlock, types.ManagerParams{}, reg, time.Hour, nil)
	require.Equal(t, types.ErrZeroAddress, err)

	// Liquidity pool strategy without a pool address is a setup failure.
	_, err = NewTokenManager(id, types.CustodyLiquidityPool,
		types.ManagerParams{TokenAddress: tokenAddr}, reg, time.Hour, nil)
	require.Equal(t, types.ErrSetupFailed, err)

	_, err = NewTokenManager(id, types.CustodyType(99),
		types.ManagerParams{TokenAddress: tokenAddr}, reg, time.Hour, nil)
	require.Equal(t, types.ErrSetupFailed, err)
}

func TestTakeGive_LockUnlock(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, _ := newTestManager(t, types.CustodyLockUnlock, tok)

	require.Nil(t, tok.Mint(sender, big.NewInt(1000)))
	tok.Approve(sender, m.Address(), big.NewInt(1000))

	actual, err := m.TakeCustody(sender, big.NewInt(600))
	require.Nil(t, err)
	require.Equal(t, big.NewInt(600), actual)

	custody, _ := tok.BalanceOf(m.Address())
	require.Equal(t, big.NewInt(600), custody)

	actual, err = m.GiveCustody(recipient, big.NewInt(400))
	require.Nil(t, err)
	require.Equal(t, big.NewInt(400), actual)

	// Releasing more than held is an error, never a clamp.
	_, err = m.GiveCustody(recipient, big.NewInt(300))
	require.Equal(t, types.ErrInsufficientCustody, err)
}

func TestTakeGive_MintBurn(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, _ := newTestManager(t, types.CustodyMintBurn, tok)

	require.Nil(t, tok.Mint(sender, big.NewInt(500)))

	_, err := m.TakeCustody(sender, big.NewInt(500))
	require.Nil(t, err)

	bal, _ := tok.BalanceOf(sender)
	require.Zero(t, bal.Sign())

	_, err = m.GiveCustody(recipient, big.NewInt(500))
	require.Nil(t, err)
	bal, _ = tok.BalanceOf(recipient)
	require.Equal(t, big.NewInt(500), bal)
}

func TestTake_MintBurnFrom_NeedsAllowance(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, _ := newTestManager(t, types.CustodyMintBurnFrom, tok)

	require.Nil(t, tok.Mint(sender, big.NewInt(500)))

	_, err := m.TakeCustody(sender, big.NewInt(500))
	require.NotNil(t, err)

	tok.Approve(sender, m.Address(), big.NewInt(500))
	_, err = m.TakeCustody(sender, big.NewInt(500))
	require.Nil(t, err)
}

func TestTakeGive_FeeOnTransfer(t *testing.T) {
	tok := token.NewFeeLedgerToken("Fee", "FEE", 18, big.NewInt(10))
	m, _ := newTestManager(t, types.CustodyLockUnlockFee, tok)

	require.Nil(t, tok.Mint(sender, big.NewInt(1000)))
	tok.Approve(sender, m.Address(), big.NewInt(1000))

	// The custody deposit is measured by the observed balance delta.
	actual, err := m.TakeCustody(sender, big.NewInt(100))
	require.Nil(t, err)
	require.Equal(t, big.NewInt(90), actual)

	actual, err = m.GiveCustody(recipient, big.NewInt(90))
	require.Nil(t, err)
	require.Equal(t, big.NewInt(80), actual)

	bal, _ := tok.BalanceOf(recipient)
	require.Equal(t, big.NewInt(80), bal)
}

func TestTakeGive_LiquidityPool(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, _ := newTestManager(t, types.CustodyLiquidityPool, tok)

	require.Nil(t, tok.Mint(sender, big.NewInt(300)))
	tok.Approve(sender, m.Address(), big.NewInt(300))
	tok.Approve(pool, m.Address(), big.NewInt(1000))

	_, err := m.TakeCustody(sender, big.NewInt(300))
	require.Nil(t, err)

	poolBal, _ := tok.BalanceOf(pool)
	require.Equal(t, big.NewInt(300), poolBal)

	_, err = m.GiveCustody(recipient, big.NewInt(200))
	require.Nil(t, err)

	poolBal, _ = tok.BalanceOf(pool)
	require.Equal(t, big.NewInt(100), poolBal)

	_, err = m.GiveCustody(recipient, big.NewInt(200))
	require.Equal(t, types.ErrInsufficientCustody, err)
}

func TestUndoTake_RestoresSenderAndFlow(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, _ := newTestManager(t, types.CustodyLockUnlock, tok)

	require.Nil(t, tok.Mint(sender, big.NewInt(100)))
	tok.Approve(sender, m.Address(), big.NewInt(100))

	actual, err := m.TakeCustody(sender, big.NewInt(100))
	require.Nil(t, err)

	require.Nil(t, m.UndoTake(sender, actual))

	bal, _ := tok.BalanceOf(sender)
	require.Equal(t, big.NewInt(100), bal)
	require.Zero(t, m.FlowInfo().FlowOut.Sign())
}

func TestRoles(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, _ := newTestManager(t, types.CustodyLockUnlock, tok)

	limiter := common.HexToAddress("0x77")

	err := m.AddFlowLimiter(sender, limiter)
	require.Equal(t, types.ErrMissingRole, err)

	require.Nil(t, m.AddFlowLimiter(operator, limiter))
	require.True(t, m.HasRole(limiter, RoleFlowLimiter))

	err = m.AddFlowLimiter(operator, limiter)
	require.Equal(t, types.ErrAlreadyFlowLimiter, err)

	require.Nil(t, m.RemoveFlowLimiter(operator, limiter))
	err = m.RemoveFlowLimiter(operator, limiter)
	require.Equal(t, types.ErrNotFlowLimiter, err)

	err = m.AddFlowLimiter(operator, common.Address{})
	require.Equal(t, types.ErrZeroAddress, err)
}

func TestFlowLimit_Scenario(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, clock := newTestManager(t, types.CustodyLockUnlock, tok)

	require.Nil(t, tok.Mint(sender, big.NewInt(10_000)))
	tok.Approve(sender, m.Address(), big.NewInt(10_000))

	require.Nil(t, m.SetFlowLimit(operator, big.NewInt(1500)))

	_, err := m.TakeCustody(sender, big.NewInt(1000))
	require.Nil(t, err)
	require.Equal(t, big.NewInt(1000), m.FlowInfo().FlowOut)

	// Second send in the same epoch breaches the cap and must leave the
	// accumulator untouched.
	_, err = m.TakeCustody(sender, big.NewInt(1000))
	require.Equal(t, types.ErrFlowLimitExceeded, err)
	require.Equal(t, big.NewInt(1000), m.FlowInfo().FlowOut)

	clock.advance(6 * time.Hour)

	_, err = m.TakeCustody(sender, big.NewInt(1000))
	require.Nil(t, err)
	require.Equal(t, big.NewInt(1000), m.FlowInfo().FlowOut)
}

func TestFlowLimit_SeparateDirections(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, _ := newTestManager(t, types.CustodyMintBurn, tok)

	require.Nil(t, tok.Mint(sender, big.NewInt(10_000)))
	require.Nil(t, m.SetFlowLimit(operator, big.NewInt(1000)))

	_, err := m.TakeCustody(sender, big.NewInt(1000))
	require.Nil(t, err)

	// Inbound has its own accumulator and can still move up to the limit.
	_, err = m.GiveCustody(recipient, big.NewInt(1000))
	require.Nil(t, err)

	_, err = m.GiveCustody(recipient, big.NewInt(1))
	require.Equal(t, types.ErrFlowLimitExceeded, err)
}

func TestSetFlowLimit_LoweringBlocksFurtherFlow(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, clock := newTestManager(t, types.CustodyMintBurn, tok)

	require.Nil(t, tok.Mint(sender, big.NewInt(10_000)))

	_, err := m.TakeCustody(sender, big.NewInt(500))
	require.Nil(t, err)

	require.Nil(t, m.SetFlowLimit(operator, big.NewInt(100)))

	_, err = m.TakeCustody(sender, big.NewInt(1))
	require.Equal(t, types.ErrFlowLimitExceeded, err)

	clock.advance(6 * time.Hour)
	_, err = m.TakeCustody(sender, big.NewInt(100))
	require.Nil(t, err)
}

func TestSetFlowLimit_RoleGate(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, _ := newTestManager(t, types.CustodyLockUnlock, tok)

	err := m.SetFlowLimit(sender, big.NewInt(100))
	require.Equal(t, types.ErrMissingRole, err)

	limiter := common.HexToAddress("0x78")
	require.Nil(t, m.AddFlowLimiter(operator, limiter))
	require.Nil(t, m.SetFlowLimit(limiter, big.NewInt(100)))
	require.Equal(t, big.NewInt(100), m.FlowLimit())
}

func TestFlowLimit_ZeroMeansUnlimited(t *testing.T) {
	tok := token.NewLedgerToken("Test", "TST", 18)
	m, _ := newTestManager(t, types.CustodyMintBurn, tok)

	require.Nil(t, tok.Mint(sender, big.NewInt(10_000)))
	require.Nil(t, m.SetFlowLimit(operator, big.NewInt(0)))

	_, err := m.TakeCustody(sender, big.NewInt(10_000))
	require.Nil(t, err)
}
