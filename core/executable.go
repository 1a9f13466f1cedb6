package core

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dvault/types"
)

// Executable is the contract-side collaborator a with-data transfer invokes
// after the tokens have been credited.
type Executable interface {
	OnMessageReceived(sourceChain string, sourceAddress []byte, recipient common.Address,
		data []byte, tokenId types.TokenId, amount *big.Int) error
}

// ExecutableRegistry resolves a local recipient address to its executable
// handler. A with-data transfer to an address without one is rejected before
// any custody moves.
type ExecutableRegistry interface {
	Get(addr common.Address) (Executable, bool)
	Register(addr common.Address, e Executable)
}

type defaultExecutableRegistry struct {
	lock     *sync.RWMutex
	handlers map[common.Address]Executable
}

func NewExecutableRegistry() ExecutableRegistry {
	return &defaultExecutableRegistry{
		lock:     &sync.RWMutex{},
		handlers: make(map[common.Address]Executable),
	}
}

func (r *defaultExecutableRegistry) Get(addr common.Address) (Executable, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	e, ok := r.handlers[addr]
	return e, ok
}

func (r *defaultExecutableRegistry) Register(addr common.Address, e Executable) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.handlers[addr] = e
}

// MockExecutable records the calls it receives.
type MockExecutable struct {
	OnMessageReceivedFunc func(sourceChain string, sourceAddress []byte, recipient common.Address,
		data []byte, tokenId types.TokenId, amount *big.Int) error
}

func (m *MockExecutable) OnMessageReceived(sourceChain string, sourceAddress []byte,
	recipient common.Address, data []byte, tokenId types.TokenId, amount *big.Int) error {
	if m.OnMessageReceivedFunc != nil {
		return m.OnMessageReceivedFunc(sourceChain, sourceAddress, recipient, data, tokenId, amount)
	}

	return nil
}
