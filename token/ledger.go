package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// LedgerToken is an in-memory fungible token ledger. It backs standardized
// tokens deployed by the service and stands in for on-chain assets on local
// test networks.
type LedgerToken struct {
	lock *sync.RWMutex

	Name     string
	Symbol   string
	Decimals uint8

	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int

	// When set, every transfer delivers amount minus fee to the recipient.
	// The fee is burned, which is how fee-on-transfer assets typically behave.
	transferFee *big.Int
}

func NewLedgerToken(name, symbol string, decimals uint8) *LedgerToken {
	return &LedgerToken{
		lock:       &sync.RWMutex{},
		Name:       name,
		Symbol:     symbol,
		Decimals:   decimals,
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// NewFeeLedgerToken creates a ledger that charges fee on every transfer.
func NewFeeLedgerToken(name, symbol string, decimals uint8, fee *big.Int) *LedgerToken {
	t := NewLedgerToken(name, symbol, decimals)
	t.transferFee = new(big.Int).Set(fee)
	return t
}

func (t *LedgerToken) TokenName() string {
	return t.Name
}

func (t *LedgerToken) TokenSymbol() string {
	return t.Symbol
}

func (t *LedgerToken) TokenDecimals() uint8 {
	return t.Decimals
}

func (t *LedgerToken) BalanceOf(addr common.Address) (*big.Int, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return new(big.Int).Set(t.balance(addr)), nil
}

func (t *LedgerToken) Transfer(from, to common.Address, amount *big.Int) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.move(from, to, amount)
}

func (t *LedgerToken) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.spendAllowance(from, spender, amount); err != nil {
		return err
	}

	return t.move(from, to, amount)
}

func (t *LedgerToken) Mint(to common.Address, amount *big.Int) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	bal := t.balance(to)
	t.balances[to] = new(big.Int).Add(bal, amount)
	return nil
}

func (t *LedgerToken) Burn(from common.Address, amount *big.Int) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.burn(from, amount)
}

func (t *LedgerToken) BurnFrom(spender, from common.Address, amount *big.Int) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.spendAllowance(from, spender, amount); err != nil {
		return err
	}

	return t.burn(from, amount)
}

func (t *LedgerToken) Approve(owner, spender common.Address, amount *big.Int) {
	t.lock.Lock()
	defer t.lock.Unlock()

	m := t.allowances[owner]
	if m == nil {
		m = make(map[common.Address]*big.Int)
		t.allowances[owner] = m
	}
	m[spender] = new(big.Int).Set(amount)
}

func (t *LedgerToken) Allowance(owner, spender common.Address) *big.Int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	m := t.allowances[owner]
	if m == nil || m[spender] == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(m[spender])
}

func (t *LedgerToken) balance(addr common.Address) *big.Int {
	if b, ok := t.balances[addr]; ok {
		return b
	}
	return big.NewInt(0)
}

func (t *LedgerToken) move(from, to common.Address, amount *big.Int) error {
	bal := t.balance(from)
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	delivered := new(big.Int).Set(amount)
	if t.transferFee != nil {
		delivered = delivered.Sub(delivered, t.transferFee)
		if delivered.Sign() < 0 {
			delivered = big.NewInt(0)
		}
	}

	t.balances[from] = new(big.Int).Sub(bal, amount)
	t.balances[to] = new(big.Int).Add(t.balance(to), delivered)
	return nil
}

func (t *LedgerToken) burn(from common.Address, amount *big.Int) error {
	bal := t.balance(from)
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	t.balances[from] = new(big.Int).Sub(bal, amount)
	return nil
}

func (t *LedgerToken) spendAllowance(owner, spender common.Address, amount *big.Int) error {
	m := t.allowances[owner]
	if m == nil || m[spender] == nil || m[spender].Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}

	m[spender] = new(big.Int).Sub(m[spender], amount)
	return nil
}
