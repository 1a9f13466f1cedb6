package gasservice

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// GasService is the external gas-payment collaborator. It accounts for the
// relay cost of an outbound message and refunds the surplus. A failure here
// aborts the whole send; the token transfer must never outlive a lost gas
// payment.
type GasService interface {
	PayGas(
		sender common.Address,
		destinationChain string,
		destinationAddress string,
		payloadHash common.Hash,
		value *big.Int,
		refundWallet common.Address,
	) error
}
