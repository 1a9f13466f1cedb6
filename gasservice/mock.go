package gasservice

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type MockGasService struct {
	PayGasFunc func(sender common.Address, destinationChain, destinationAddress string,
		payloadHash common.Hash, value *big.Int, refundWallet common.Address) error
}

func (m *MockGasService) PayGas(sender common.Address, destinationChain, destinationAddress string,
	payloadHash common.Hash, value *big.Int, refundWallet common.Address) error {
	if m.PayGasFunc != nil {
		return m.PayGasFunc(sender, destinationChain, destinationAddress, payloadHash, value, refundWallet)
	}

	return nil
}
