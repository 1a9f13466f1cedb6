package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/lib/log"

	"github.com/sisu-network/dvault/manager"
	"github.com/sisu-network/dvault/protocol"
	"github.com/sisu-network/dvault/token"
	"github.com/sisu-network/dvault/types"
)

// Execute applies one inbound delivery. The relayer hands us the command id
// the gateway approved together with the raw payload; we validate, apply and
// consume the command under one lock so the delivery lands exactly once. A
// rejected delivery does not consume the command and can be retried.
func (s *Service) Execute(req *types.ExecuteRequest) (*types.ExecuteResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkNotPaused(); err != nil {
		return nil, err
	}

	if _, ok := s.executedCache.Get(req.CommandId); ok {
		return nil, types.ErrAlreadyExecuted
	}
	if s.gw.IsCommandExecuted(req.CommandId) {
		return nil, types.ErrAlreadyExecuted
	}

	if !s.isRemoteService(req.SourceChain, req.SourceAddress) {
		return nil, types.ErrNotRemoteService
	}
	if !s.gw.IsApproved(req.CommandId, req.SourceChain, req.SourceAddress,
		protocol.PayloadHash(req.Payload)) {
		return nil, types.ErrNotApprovedByGateway
	}

	selector, err := protocol.ReadSelector(req.Payload)
	if err != nil {
		return nil, err
	}

	result := &types.ExecuteResult{Selector: selector}

	switch selector {
	case types.SelectorSendToken:
		err = s.executeSendToken(req, result)
	case types.SelectorSendTokenWithData:
		err = s.executeSendTokenWithData(req, result)
	case types.SelectorDeployTokenManager:
		err = s.executeDeployTokenManager(req, result)
	case types.SelectorDeployStandardizedToken:
		err = s.executeDeployStandardizedToken(req, result)
	default:
		err = types.ErrSelectorUnknown
	}
	if err != nil {
		return nil, err
	}

	s.executedCache.Add(req.CommandId, true)
	if err := s.gw.MarkExecuted(req.CommandId); err != nil {
		// The message is applied and the cache rejects local replays. The
		// gateway-side consume is retried by the relayer's reconciliation.
		log.Error("Failed to mark command executed, commandId = ", req.CommandId.Hex(),
			", err = ", err)
	}

	log.Info("Executed command, id = ", req.CommandId.Hex(), ", selector = ", selector)
	return result, nil
}

// ExecuteWithToken exists for call-contract-with-token gateway flows. dvault
// moves value through token managers only, so the entry point always rejects.
func (s *Service) ExecuteWithToken(req *types.ExecuteRequest, symbol string) error {
	return types.ErrExecuteWithTokenNotSupported
}

func (s *Service) executeSendToken(req *types.ExecuteRequest, result *types.ExecuteResult) error {
	msg, err := protocol.DecodeSendToken(req.Payload)
	if err != nil {
		return err
	}

	m, ok := s.managers[msg.TokenId]
	if !ok {
		return types.ErrTokenManagerNotFound
	}

	record, err := s.expressRecordFor(req.CommandId, req.Payload)
	if err != nil {
		return err
	}

	recipient := msg.Destination
	if record != nil {
		// The express caller already paid the destination; the settlement
		// reimburses the caller instead.
		recipient = record.ExpressCaller
	}

	actual, err := m.GiveCustody(recipient, msg.Amount)
	if err != nil {
		return err
	}

	result.TokenId = msg.TokenId
	result.ActualAmount = actual
	s.settleExpress(record, result)
	return nil
}

func (s *Service) executeSendTokenWithData(req *types.ExecuteRequest, result *types.ExecuteResult) error {
	msg, err := protocol.DecodeSendTokenWithData(req.Payload)
	if err != nil {
		return err
	}

	m, ok := s.managers[msg.TokenId]
	if !ok {
		return types.ErrTokenManagerNotFound
	}

	record, err := s.expressRecordFor(req.CommandId, req.Payload)
	if err != nil {
		return err
	}

	if record != nil {
		// The callback already ran at express time with the caller's funds.
		actual, err := m.GiveCustody(record.ExpressCaller, msg.Amount)
		if err != nil {
			return err
		}

		result.TokenId = msg.TokenId
		result.ActualAmount = actual
		s.settleExpress(record, result)
		return nil
	}

	e, ok := s.executables.Get(msg.Destination)
	if !ok {
		return types.ErrExecutableNotFound
	}

	actual, err := m.GiveCustody(msg.Destination, msg.Amount)
	if err != nil {
		return err
	}

	if err := e.OnMessageReceived(req.SourceChain, msg.SourceAddress, msg.Destination,
		msg.Data, msg.TokenId, actual); err != nil {
		s.mustUndoGive(m, msg.Destination, actual)
		return err
	}

	result.TokenId = msg.TokenId
	result.ActualAmount = actual
	return nil
}

func (s *Service) executeDeployTokenManager(req *types.ExecuteRequest, result *types.ExecuteResult) error {
	msg, err := protocol.DecodeDeployTokenManager(req.Payload)
	if err != nil {
		return err
	}

	if _, err := s.deployLocal(msg.TokenId, msg.CustodyType, msg.Params); err != nil {
		return err
	}

	result.TokenId = msg.TokenId
	return nil
}

func (s *Service) executeDeployStandardizedToken(req *types.ExecuteRequest, result *types.ExecuteResult) error {
	msg, err := protocol.DecodeDeployStandardizedToken(req.Payload)
	if err != nil {
		return err
	}

	if err := s.applyStandardizedTokenDeploy(msg); err != nil {
		return err
	}

	result.TokenId = msg.TokenId
	return nil
}

// applyStandardizedTokenDeploy creates the token at its derived address,
// registers it and puts a mint/burn manager in front of it. Shared by the
// local deploy entry point and the inbound deploy route.
func (s *Service) applyStandardizedTokenDeploy(msg *types.DeployStandardizedTokenMessage) error {
	if _, ok := s.managers[msg.TokenId]; ok {
		return types.ErrTokenManagerDeployment
	}

	tokenAddr := types.StandardizedTokenAddress(msg.TokenId)
	tok := token.NewLedgerToken(msg.Name, msg.Symbol, msg.Decimals)
	if err := s.tokens.Register(tokenAddr, tok); err != nil {
		return err
	}

	operator := msg.Operator
	if operator == (common.Address{}) {
		operator = s.owner()
	}

	if _, err := s.deployLocal(msg.TokenId, types.CustodyMintBurn, types.ManagerParams{
		Operator:     operator,
		TokenAddress: tokenAddr,
	}); err != nil {
		return err
	}

	if msg.MintAmount != nil && msg.MintAmount.Sign() > 0 {
		mintTo := msg.MintTo
		if mintTo == (common.Address{}) {
			mintTo = msg.Distributor
		}
		if mintTo == (common.Address{}) {
			s.rollbackLocalDeploy(msg.TokenId)
			return types.ErrZeroAddress
		}
		if err := tok.Mint(mintTo, msg.MintAmount); err != nil {
			s.rollbackLocalDeploy(msg.TokenId)
			return err
		}
	}

	log.Info("Deployed standardized token ", msg.Symbol, " at ", tokenAddr.Hex())
	return nil
}

func (s *Service) mustUndoGive(m *manager.TokenManager, to common.Address, actual *big.Int) {
	if err := m.UndoGive(to, actual); err != nil {
		log.Error("Failed to revert custody release, err = ", err)
	}
}
