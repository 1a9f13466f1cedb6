package gateway

import (
	"github.com/ethereum/go-ethereum/common"
)

// Gateway is the external message-relay collaborator. It authenticates
// cross-chain messages and guarantees at-most-once delivery per command id.
// dvault consumes it through this narrow surface and assumes it is correct.
type Gateway interface {
	// IsApproved reports whether the gateway has approved the delivery of
	// the payload with this command id from the claimed source.
	IsApproved(commandId common.Hash, sourceChain, sourceAddress string, payloadHash common.Hash) bool

	// IsCommandExecuted reports whether the command was already consumed.
	IsCommandExecuted(commandId common.Hash) bool

	// MarkExecuted consumes the command. The service calls this atomically
	// with applying the message, closing the idempotency window.
	MarkExecuted(commandId common.Hash) error

	// Call sends an outbound payload to the service instance on the
	// destination chain.
	Call(destinationChain, destinationAddress string, payload []byte) error
}
