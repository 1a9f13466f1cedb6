package manager

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dvault/types"
)

// flowLimiter bounds the token volume a manager can move per direction within
// one rolling epoch. Epochs are fixed-width windows of local wall-clock time;
// both accumulators reset when the window index advances.
type flowLimiter struct {
	epochWidth time.Duration
	now        func() time.Time

	// nil or zero means unlimited.
	limit *big.Int

	epoch   int64
	flowIn  *big.Int
	flowOut *big.Int
}

func newFlowLimiter(epochWidth time.Duration, now func() time.Time) *flowLimiter {
	if now == nil {
		now = time.Now
	}

	f := &flowLimiter{
		epochWidth: epochWidth,
		now:        now,
		flowIn:     big.NewInt(0),
		flowOut:    big.NewInt(0),
	}
	f.epoch = f.currentEpoch()
	return f
}

func (f *flowLimiter) currentEpoch() int64 {
	return f.now().UnixNano() / int64(f.epochWidth)
}

// rollover resets the accumulators when the wall clock has moved into a later
// epoch. Epoch indices never rewind.
func (f *flowLimiter) rollover() {
	e := f.currentEpoch()
	if e > f.epoch {
		f.epoch = e
		f.flowIn = big.NewInt(0)
		f.flowOut = big.NewInt(0)
	}
}

func (f *flowLimiter) unlimited() bool {
	return f.limit == nil || f.limit.Sign() == 0
}

func (f *flowLimiter) checkOutflow(amount *big.Int) error {
	f.rollover()
	return f.check(f.flowOut, amount)
}

func (f *flowLimiter) checkInflow(amount *big.Int) error {
	f.rollover()
	return f.check(f.flowIn, amount)
}

func (f *flowLimiter) check(acc, amount *big.Int) error {
	if f.unlimited() {
		return nil
	}
	if new(big.Int).Add(acc, amount).Cmp(f.limit) > 0 {
		return types.ErrFlowLimitExceeded
	}
	return nil
}

func (f *flowLimiter) recordOutflow(actual *big.Int) {
	f.flowOut = new(big.Int).Add(f.flowOut, actual)
}

func (f *flowLimiter) recordInflow(actual *big.Int) {
	f.flowIn = new(big.Int).Add(f.flowIn, actual)
}

func (f *flowLimiter) unrecordOutflow(actual *big.Int) {
	f.flowOut = new(big.Int).Sub(f.flowOut, actual)
	if f.flowOut.Sign() < 0 {
		f.flowOut = big.NewInt(0)
	}
}

func (f *flowLimiter) unrecordInflow(actual *big.Int) {
	f.flowIn = new(big.Int).Sub(f.flowIn, actual)
	if f.flowIn.Sign() < 0 {
		f.flowIn = big.NewInt(0)
	}
}

// SetFlowLimit updates the cap, effective immediately within the current
// epoch. Lowering it below an accumulator blocks further flow in that
// direction until the next epoch; already-applied transfers stand.
func (m *TokenManager) SetFlowLimit(caller common.Address, limit *big.Int) error {
	if !m.HasRole(caller, RoleOperator) && !m.HasRole(caller, RoleFlowLimiter) {
		return types.ErrMissingRole
	}

	if limit == nil {
		m.flow.limit = nil
	} else {
		m.flow.limit = new(big.Int).Set(limit)
	}
	return nil
}

// FlowInfo reports the limit and the accumulators of the current epoch.
func (m *TokenManager) FlowInfo() types.TokenManagerInfo {
	m.flow.rollover()

	info := types.TokenManagerInfo{
		TokenId:      m.tokenId,
		CustodyType:  m.custodyType,
		TokenAddress: m.tokenAddress,
		FlowIn:       new(big.Int).Set(m.flow.flowIn),
		FlowOut:      new(big.Int).Set(m.flow.flowOut),
	}
	if m.flow.limit != nil {
		info.FlowLimit = new(big.Int).Set(m.flow.limit)
	}
	return info
}

// FlowLimit returns the configured cap, nil when unlimited.
func (m *TokenManager) FlowLimit() *big.Int {
	if m.flow.limit == nil {
		return nil
	}
	return new(big.Int).Set(m.flow.limit)
}
