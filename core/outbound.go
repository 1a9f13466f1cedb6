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

// SendToken takes custody of the sender's tokens and forwards the transfer
// message to the destination chain through the gateway. The request commits
// or reverts as a whole; a failed gas payment or gateway call returns the
// custody to the sender.
func (s *Service) SendToken(req *types.SendTokenRequest) (*types.SendTokenResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkNotPaused(); err != nil {
		return nil, err
	}
	if err := protocol.CheckMetadataVersion(req.MetadataVersion); err != nil {
		return nil, err
	}

	m, ok := s.managers[req.TokenId]
	if !ok {
		return nil, types.ErrTokenManagerNotFound
	}

	rs, err := s.remoteService(req.DestinationChain)
	if err != nil {
		return nil, err
	}

	actual, err := m.TakeCustody(req.Sender, req.Amount)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if len(req.Data) > 0 {
		payload, err = protocol.EncodeSendTokenWithData(&types.SendTokenWithDataMessage{
			TokenId:       req.TokenId,
			Destination:   req.DestinationAddress,
			Amount:        actual,
			SourceAddress: req.Sender.Bytes(),
			Data:          req.Data,
		})
	} else {
		payload, err = protocol.EncodeSendToken(&types.SendTokenMessage{
			TokenId:     req.TokenId,
			Destination: req.DestinationAddress,
			Amount:      actual,
		})
	}
	if err != nil {
		s.mustUndoTake(m, req.Sender, actual)
		return nil, err
	}

	payloadHash := protocol.PayloadHash(payload)

	if err := s.payGas(req.Sender, req.DestinationChain, rs.Address, payloadHash,
		req.GasValue, req.RefundWallet); err != nil {
		s.mustUndoTake(m, req.Sender, actual)
		return nil, err
	}

	if err := s.gw.Call(req.DestinationChain, rs.Address, payload); err != nil {
		s.mustUndoTake(m, req.Sender, actual)
		return nil, err
	}

	log.Info("Sent ", actual, " of token ", req.TokenId.Hex(), " to chain ", req.DestinationChain)
	return &types.SendTokenResult{
		TokenId:      req.TokenId,
		ActualAmount: actual,
		PayloadHash:  payloadHash,
	}, nil
}

// DeployTokenManager creates a manager for a custom token locally and mirrors
// the deployment to the requested remote chains.
func (s *Service) DeployTokenManager(req *types.DeployTokenManagerRequest) (types.TokenId, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkNotPaused(); err != nil {
		return types.TokenId{}, err
	}
	if err := checkChainGasLengths(req.DestinationChains, req.GasValues); err != nil {
		return types.TokenId{}, err
	}

	tokenId := types.CustomTokenId(req.Deployer, req.Salt)

	// Resolve every destination before mutating anything.
	remotes, err := s.resolveRemotes(req.DestinationChains)
	if err != nil {
		return types.TokenId{}, err
	}

	if _, err := s.deployLocal(tokenId, req.CustodyType, req.Params); err != nil {
		return types.TokenId{}, err
	}

	payload, err := protocol.EncodeDeployTokenManager(&types.DeployTokenManagerMessage{
		TokenId:     tokenId,
		CustodyType: req.CustodyType,
		Params:      req.Params,
	})
	if err != nil {
		s.rollbackLocalDeploy(tokenId)
		return types.TokenId{}, err
	}

	if err := s.mirrorToRemotes(req.Deployer, req.DestinationChains, remotes, req.GasValues,
		payload); err != nil {
		s.rollbackLocalDeploy(tokenId)
		return types.TokenId{}, err
	}

	return tokenId, nil
}

// RegisterCanonicalToken creates a lock/unlock manager for a pre-existing
// token. The token id depends on the token address alone, so any registrar
// arrives at the same manager.
func (s *Service) RegisterCanonicalToken(tokenAddr common.Address) (types.TokenId, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkNotPaused(); err != nil {
		return types.TokenId{}, err
	}
	if s.isGatewayToken(tokenAddr) {
		return types.TokenId{}, types.ErrGatewayToken
	}
	if _, err := s.tokens.Get(tokenAddr); err != nil {
		return types.TokenId{}, err
	}

	// Canonical registration carries no operator of its own; the service
	// owner takes the role so the flow-limit surface stays reachable.
	tokenId := types.CanonicalTokenId(tokenAddr)
	_, err := s.deployLocal(tokenId, types.CustodyLockUnlock, types.ManagerParams{
		Operator:     s.owner(),
		TokenAddress: tokenAddr,
	})
	if err != nil {
		return types.TokenId{}, err
	}

	return tokenId, nil
}

// DeployRemoteCanonicalToken mirrors an already-registered canonical token to
// remote chains as standardized token deployments.
func (s *Service) DeployRemoteCanonicalToken(sender common.Address, tokenAddr common.Address,
	destinationChains []string, gasValues []*big.Int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkNotPaused(); err != nil {
		return err
	}
	if err := checkChainGasLengths(destinationChains, gasValues); err != nil {
		return err
	}

	tokenId := types.CanonicalTokenId(tokenAddr)
	m, ok := s.managers[tokenId]
	if !ok {
		return types.ErrTokenManagerNotFound
	}
	if m.CustodyType() != types.CustodyLockUnlock || m.TokenAddress() != tokenAddr {
		return types.ErrNotCanonicalTokenManager
	}

	tok, err := s.tokens.Get(tokenAddr)
	if err != nil {
		return err
	}
	md, ok := tok.(token.Metadata)
	if !ok {
		return types.ErrSetupFailed
	}

	remotes, err := s.resolveRemotes(destinationChains)
	if err != nil {
		return err
	}

	payload, err := protocol.EncodeDeployStandardizedToken(&types.DeployStandardizedTokenMessage{
		TokenId:    tokenId,
		Name:       md.TokenName(),
		Symbol:     md.TokenSymbol(),
		Decimals:   md.TokenDecimals(),
		MintAmount: big.NewInt(0),
	})
	if err != nil {
		return err
	}

	return s.mirrorToRemotes(sender, destinationChains, remotes, gasValues, payload)
}

// DeployStandardizedToken deploys a fresh token under service control plus a
// mint/burn manager, and optionally mirrors both to remote chains.
func (s *Service) DeployStandardizedToken(req *types.DeployStandardizedTokenRequest) (types.TokenId, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkNotPaused(); err != nil {
		return types.TokenId{}, err
	}
	if err := checkChainGasLengths(req.DestinationChains, req.GasValues); err != nil {
		return types.TokenId{}, err
	}

	tokenId := types.CustomTokenId(req.Deployer, req.Salt)

	remotes, err := s.resolveRemotes(req.DestinationChains)
	if err != nil {
		return types.TokenId{}, err
	}

	msg := &types.DeployStandardizedTokenMessage{
		TokenId:     tokenId,
		Name:        req.Name,
		Symbol:      req.Symbol,
		Decimals:    req.Decimals,
		Distributor: req.Distributor,
		MintTo:      req.MintTo,
		MintAmount:  req.MintAmount,
		Operator:    req.Operator,
	}
	if msg.MintAmount == nil {
		msg.MintAmount = big.NewInt(0)
	}

	if err := s.applyStandardizedTokenDeploy(msg); err != nil {
		return types.TokenId{}, err
	}

	payload, err := protocol.EncodeDeployStandardizedToken(msg)
	if err != nil {
		s.rollbackLocalDeploy(tokenId)
		return types.TokenId{}, err
	}

	if err := s.mirrorToRemotes(req.Deployer, req.DestinationChains, remotes, req.GasValues,
		payload); err != nil {
		s.rollbackLocalDeploy(tokenId)
		return types.TokenId{}, err
	}

	return tokenId, nil
}

func (s *Service) payGas(sender common.Address, destinationChain, destinationAddress string,
	payloadHash common.Hash, value *big.Int, refund common.Address) error {
	if value == nil || value.Sign() <= 0 {
		return nil
	}

	return s.gas.PayGas(sender, destinationChain, destinationAddress, payloadHash, value, refund)
}

func (s *Service) mustUndoTake(m *manager.TokenManager, sender common.Address, actual *big.Int) {
	if err := m.UndoTake(sender, actual); err != nil {
		// The asset accepted the forward move moments ago inside this same
		// request, so the reversal cannot fail unless the asset itself is
		// broken.
		log.Error("Failed to revert custody, err = ", err)
	}
}

func (s *Service) rollbackLocalDeploy(tokenId types.TokenId) {
	delete(s.managers, tokenId)
	if err := s.db.DeleteTokenManager(tokenId); err != nil {
		log.Error("Failed to roll back token manager ", tokenId.Hex(), ", err = ", err)
	}
}

func (s *Service) resolveRemotes(chains []string) ([]string, error) {
	remotes := make([]string, len(chains))
	for i, chain := range chains {
		rs, err := s.remoteService(chain)
		if err != nil {
			return nil, err
		}
		remotes[i] = rs.Address
	}
	return remotes, nil
}

func (s *Service) mirrorToRemotes(sender common.Address, chains, remotes []string,
	gasValues []*big.Int, payload []byte) error {
	payloadHash := protocol.PayloadHash(payload)

	// Pay for every hop before the first message leaves, so a gas failure
	// cannot strand a half-mirrored deployment on the remote chains.
	for i, chain := range chains {
		var gasValue *big.Int
		if gasValues != nil {
			gasValue = gasValues[i]
		}

		if err := s.payGas(sender, chain, remotes[i], payloadHash, gasValue, sender); err != nil {
			return err
		}
	}

	for i, chain := range chains {
		if err := s.gw.Call(chain, remotes[i], payload); err != nil {
			if i == 0 {
				return err
			}
			// Once the first message is out the deployment is committed;
			// rolling back now would orphan the managers already relayed.
			log.Error("Failed to relay mirror to ", chain, ", err = ", err)
		}
	}

	return nil
}

func checkChainGasLengths(chains []string, gasValues []*big.Int) error {
	if gasValues != nil && len(gasValues) != len(chains) {
		return types.ErrLengthMismatch
	}
	return nil
}
