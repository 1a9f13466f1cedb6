package database

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dvault/types"
)

type MockDb struct {
	InitFunc func() error

	SaveTokenManagerFunc   func(record *types.TokenManagerRecord) error
	DeleteTokenManagerFunc func(tokenId types.TokenId) error
	LoadTokenManagersFunc  func() ([]*types.TokenManagerRecord, error)
	SetFlowLimitFunc       func(tokenId types.TokenId, limit *big.Int) error

	SaveRoleFunc   func(tokenId types.TokenId, addr common.Address, role int) error
	DeleteRoleFunc func(tokenId types.TokenId, addr common.Address, role int) error
	LoadRolesFunc  func(tokenId types.TokenId) (map[common.Address][]int, error)

	SaveExpressRecordFunc   func(record *types.ExpressRecord) error
	GetExpressRecordFunc    func(key common.Hash) (*types.ExpressRecord, error)
	DeleteExpressRecordFunc func(key common.Hash) error
}

func (m *MockDb) Init() error {
	if m.InitFunc != nil {
		return m.InitFunc()
	}

	return nil
}

func (m *MockDb) SaveTokenManager(record *types.TokenManagerRecord) error {
	if m.SaveTokenManagerFunc != nil {
		return m.SaveTokenManagerFunc(record)
	}

	return nil
}

func (m *MockDb) DeleteTokenManager(tokenId types.TokenId) error {
	if m.DeleteTokenManagerFunc != nil {
		return m.DeleteTokenManagerFunc(tokenId)
	}

	return nil
}

func (m *MockDb) LoadTokenManagers() ([]*types.TokenManagerRecord, error) {
	if m.LoadTokenManagersFunc != nil {
		return m.LoadTokenManagersFunc()
	}

	return nil, nil
}

func (m *MockDb) SetFlowLimit(tokenId types.TokenId, limit *big.Int) error {
	if m.SetFlowLimitFunc != nil {
		return m.SetFlowLimitFunc(tokenId, limit)
	}

	return nil
}

func (m *MockDb) SaveRole(tokenId types.TokenId, addr common.Address, role int) error {
	if m.SaveRoleFunc != nil {
		return m.SaveRoleFunc(tokenId, addr, role)
	}

	return nil
}

func (m *MockDb) DeleteRole(tokenId types.TokenId, addr common.Address, role int) error {
	if m.DeleteRoleFunc != nil {
		return m.DeleteRoleFunc(tokenId, addr, role)
	}

	return nil
}

func (m *MockDb) LoadRoles(tokenId types.TokenId) (map[common.Address][]int, error) {
	if m.LoadRolesFunc != nil {
		return m.LoadRolesFunc(tokenId)
	}

	return nil, nil
}

func (m *MockDb) SaveExpressRecord(record *types.ExpressRecord) error {
	if m.SaveExpressRecordFunc != nil {
		return m.SaveExpressRecordFunc(record)
	}

	return nil
}

func (m *MockDb) GetExpressRecord(key common.Hash) (*types.ExpressRecord, error) {
	if m.GetExpressRecordFunc != nil {
		return m.GetExpressRecordFunc(key)
	}

	return nil, nil
}

func (m *MockDb) DeleteExpressRecord(key common.Hash) error {
	if m.DeleteExpressRecordFunc != nil {
		return m.DeleteExpressRecordFunc(key)
	}

	return nil
}
