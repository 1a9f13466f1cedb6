package gateway

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// OutboundCall is one message captured by the simulator on its way out.
type OutboundCall struct {
	DestinationChain   string
	DestinationAddress string
	Payload            []byte
}

// Simulator is an in-memory gateway for local networks and scenario tests.
// Outbound calls are recorded; a test approves them on the receiving side by
// assigning a command id, mimicking the real relay's proof flow.
type Simulator struct {
	lock *sync.Mutex

	outbound []OutboundCall
	approved map[common.Hash]approval
	executed map[common.Hash]bool
	counter  uint64
}

type approval struct {
	sourceChain   string
	sourceAddress string
	payloadHash   common.Hash
}

func NewSimulator() *Simulator {
	return &Simulator{
		lock:     &sync.Mutex{},
		approved: make(map[common.Hash]approval),
		executed: make(map[common.Hash]bool),
	}
}

func (s *Simulator) IsApproved(commandId common.Hash, sourceChain, sourceAddress string,
	payloadHash common.Hash) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	a, ok := s.approved[commandId]
	return ok && a.sourceChain == sourceChain && a.sourceAddress == sourceAddress &&
		a.payloadHash == payloadHash
}

func (s *Simulator) IsCommandExecuted(commandId common.Hash) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.executed[commandId]
}

func (s *Simulator) MarkExecuted(commandId common.Hash) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.executed[commandId] {
		return fmt.Errorf("command %s already executed", commandId)
	}
	s.executed[commandId] = true
	return nil
}

func (s *Simulator) Call(destinationChain, destinationAddress string, payload []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.outbound = append(s.outbound, OutboundCall{
		DestinationChain:   destinationChain,
		DestinationAddress: destinationAddress,
		Payload:            payload,
	})
	return nil
}

// Outbound returns the calls captured so far.
func (s *Simulator) Outbound() []OutboundCall {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make([]OutboundCall, len(s.outbound))
	copy(out, s.outbound)
	return out
}

// Approve registers a delivery as proven and returns its command id.
func (s *Simulator) Approve(sourceChain, sourceAddress string, payload []byte) common.Hash {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.counter++
	commandId := crypto.Keccak256Hash([]byte(fmt.Sprintf("command-%d", s.counter)))
	s.approved[commandId] = approval{
		sourceChain:   sourceChain,
		sourceAddress: sourceAddress,
		payloadHash:   crypto.Keccak256Hash(payload),
	}
	return commandId
}
