package gateway

import (
	"github.com/ethereum/go-ethereum/common"
)

type MockGateway struct {
	IsApprovedFunc        func(commandId common.Hash, sourceChain, sourceAddress string, payloadHash common.Hash) bool
	IsCommandExecutedFunc func(commandId common.Hash) bool
	MarkExecutedFunc      func(commandId common.Hash) error
	CallFunc              func(destinationChain, destinationAddress string, payload []byte) error
}

func (m *MockGateway) IsApproved(commandId common.Hash, sourceChain, sourceAddress string,
	payloadHash common.Hash) bool {
	if m.IsApprovedFunc != nil {
		return m.IsApprovedFunc(commandId, sourceChain, sourceAddress, payloadHash)
	}

	return false
}

func (m *MockGateway) IsCommandExecuted(commandId common.Hash) bool {
	if m.IsCommandExecutedFunc != nil {
		return m.IsCommandExecutedFunc(commandId)
	}

	return false
}

func (m *MockGateway) MarkExecuted(commandId common.Hash) error {
	if m.MarkExecutedFunc != nil {
		return m.MarkExecutedFunc(commandId)
	}

	return nil
}

func (m *MockGateway) Call(destinationChain, destinationAddress string, payload []byte) error {
	if m.CallFunc != nil {
		return m.CallFunc(destinationChain, destinationAddress, payload)
	}

	return nil
}
