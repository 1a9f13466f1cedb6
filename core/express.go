package core

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sisu-network/lib/log"

	"github.com/sisu-network/dvault/protocol"
	"github.com/sisu-network/dvault/types"
)

// expressKey identifies one express fulfillment. Binding the command id to
// the payload hash means a record can only settle against the exact delivery
// it fronted.
func expressKey(commandId common.Hash, payload []byte) common.Hash {
	return crypto.Keccak256Hash(commandId.Bytes(), protocol.PayloadHash(payload).Bytes())
}

func (s *Service) expressRecordFor(commandId common.Hash, payload []byte) (*types.ExpressRecord, error) {
	return s.db.GetExpressRecord(expressKey(commandId, payload))
}

// settleExpress closes the record settled by executeSendToken and
// executeSendTokenWithData. record may be nil.
func (s *Service) settleExpress(record *types.ExpressRecord, result *types.ExecuteResult) {
	if record == nil {
		return
	}

	result.ExpressFulfilled = true
	result.ExpressCaller = record.ExpressCaller
	if err := s.db.DeleteExpressRecord(record.Key); err != nil {
		log.Error("Failed to delete express record ", record.Key.Hex(), ", err = ", err)
	}
}

// ExpressReceive lets a caller front an inbound transfer from their own
// balance before the gateway confirms it. The later authoritative delivery
// reimburses the caller through the token manager. At most one caller can
// front a given delivery.
func (s *Service) ExpressReceive(req *types.ExpressReceiveRequest) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkNotPaused(); err != nil {
		return err
	}

	selector, err := protocol.ReadSelector(req.Payload)
	if err != nil {
		return err
	}
	if !selector.IsTransfer() {
		return types.ErrInvalidExpressSelector
	}

	// Fronting an already-delivered transfer would never be reimbursed.
	if _, ok := s.executedCache.Get(req.CommandId); ok {
		return types.ErrAlreadyExecuted
	}
	if s.gw.IsCommandExecuted(req.CommandId) {
		return types.ErrAlreadyExecuted
	}

	key := expressKey(req.CommandId, req.Payload)
	existing, err := s.db.GetExpressRecord(key)
	if err != nil {
		return err
	}
	if existing != nil {
		return types.ErrExpressAlreadyFulfilled
	}

	// The record goes in first so a failed front leaves nothing behind and a
	// successful one is settled exactly once.
	record := &types.ExpressRecord{
		Key:           key,
		CommandId:     req.CommandId,
		ExpressCaller: req.Caller,
	}
	if err := s.db.SaveExpressRecord(record); err != nil {
		return err
	}

	if err := s.expressTransfer(req, selector); err != nil {
		if delErr := s.db.DeleteExpressRecord(key); delErr != nil {
			log.Error("Failed to delete express record ", key.Hex(), ", err = ", delErr)
		}
		return err
	}

	log.Info("Express received command ", req.CommandId.Hex(), ", caller = ", req.Caller.Hex())
	return nil
}

// expressTransfer moves the caller's own funds to the destination and, for
// with-data transfers, runs the destination callback.
func (s *Service) expressTransfer(req *types.ExpressReceiveRequest, selector types.Selector) error {
	switch selector {
	case types.SelectorSendToken:
		msg, err := protocol.DecodeSendToken(req.Payload)
		if err != nil {
			return err
		}

		m, ok := s.managers[msg.TokenId]
		if !ok {
			return types.ErrTokenManagerNotFound
		}

		tok, err := s.tokens.Get(m.TokenAddress())
		if err != nil {
			return err
		}

		return tok.Transfer(req.Caller, msg.Destination, msg.Amount)

	case types.SelectorSendTokenWithData:
		msg, err := protocol.DecodeSendTokenWithData(req.Payload)
		if err != nil {
			return err
		}

		m, ok := s.managers[msg.TokenId]
		if !ok {
			return types.ErrTokenManagerNotFound
		}

		e, ok := s.executables.Get(msg.Destination)
		if !ok {
			return types.ErrExecutableNotFound
		}

		tok, err := s.tokens.Get(m.TokenAddress())
		if err != nil {
			return err
		}

		if err := tok.Transfer(req.Caller, msg.Destination, msg.Amount); err != nil {
			return err
		}

		if err := e.OnMessageReceived(req.SourceChain, msg.SourceAddress, msg.Destination,
			msg.Data, msg.TokenId, msg.Amount); err != nil {
			if undoErr := tok.Transfer(msg.Destination, req.Caller, msg.Amount); undoErr != nil {
				log.Error("Failed to return express funds to caller, err = ", undoErr)
			}
			return err
		}

		return nil

	default:
		return types.ErrInvalidExpressSelector
	}
}
