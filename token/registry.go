package token

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type defaultRegistry struct {
	lock   *sync.RWMutex
	tokens map[common.Address]Token
}

func NewRegistry() Registry {
	return &defaultRegistry{
		lock:   &sync.RWMutex{},
		tokens: make(map[common.Address]Token),
	}
}

func (r *defaultRegistry) Get(addr common.Address) (Token, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	t, ok := r.tokens[addr]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return t, nil
}

func (r *defaultRegistry) Register(addr common.Address, t Token) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.tokens[addr]; ok {
		return ErrTokenExists
	}
	r.tokens[addr] = t
	return nil
}
