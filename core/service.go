package core

import (
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/groupcache/lru"
	"github.com/sisu-network/lib/log"
	"go.uber.org/atomic"

	"github.com/sisu-network/dvault/config"
	"github.com/sisu-network/dvault/database"
	"github.com/sisu-network/dvault/gasservice"
	"github.com/sisu-network/dvault/gateway"
	"github.com/sisu-network/dvault/manager"
	"github.com/sisu-network/dvault/token"
	"github.com/sisu-network/dvault/types"
)

const (
	// Recently executed command ids kept in memory for cheap replay rejects.
	ExecutedCacheSize = 10_000
)

// Service is the token-transfer coordination engine of one chain. Every
// request runs under one lock and either fully commits or fully reverts; the
// managers, flow limiters and express records act as one transactional unit
// per request.
type Service struct {
	cfg  config.Dvault
	lock *sync.Mutex

	db          database.Database
	gw          gateway.Gateway
	gas         gasservice.GasService
	tokens      token.Registry
	executables ExecutableRegistry

	managers map[types.TokenId]*manager.TokenManager
	paused   *atomic.Bool

	executedCache *lru.Cache

	now func() time.Time
}

// NewService wires the engine. now may be nil; tests inject a deterministic
// clock through it.
func NewService(
	cfg config.Dvault,
	db database.Database,
	gw gateway.Gateway,
	gas gasservice.GasService,
	tokens token.Registry,
	executables ExecutableRegistry,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{
		cfg:           cfg,
		lock:          &sync.Mutex{},
		db:            db,
		gw:            gw,
		gas:           gas,
		tokens:        tokens,
		executables:   executables,
		managers:      make(map[types.TokenId]*manager.TokenManager),
		paused:        atomic.NewBool(false),
		executedCache: lru.New(ExecutedCacheSize),
		now:           now,
	}
}

// Start rebuilds the token managers persisted by previous runs.
func (s *Service) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	records, err := s.db.LoadTokenManagers()
	if err != nil {
		return err
	}

	for _, record := range records {
		m, err := manager.NewTokenManager(record.TokenId, record.CustodyType, record.Params,
			s.tokens, s.cfg.FlowEpoch(), s.now)
		if err != nil {
			return err
		}
		if record.FlowLimit != nil {
			operator := record.Params.Operator
			if err := m.SetFlowLimit(operator, record.FlowLimit); err != nil {
				return err
			}
		}

		roles, err := s.db.LoadRoles(record.TokenId)
		if err != nil {
			return err
		}
		for addr, held := range roles {
			for _, role := range held {
				if err := m.GrantRole(record.Params.Operator, addr, manager.Role(role)); err != nil &&
					err != types.ErrAlreadyFlowLimiter && err != types.ErrRoleAlreadyHeld {
					return err
				}
			}
		}

		s.managers[record.TokenId] = m
	}

	log.Info("dvault core started, chain = ", s.cfg.Chain, ", managers = ", len(s.managers))
	return nil
}

func (s *Service) owner() common.Address {
	return common.HexToAddress(s.cfg.Owner)
}

// Pause stops every state-mutating entry point until Unpause.
func (s *Service) Pause(caller common.Address) error {
	if caller != s.owner() {
		return types.ErrMissingRole
	}

	s.paused.Store(true)
	log.Warn("dvault service paused by owner")
	return nil
}

func (s *Service) Unpause(caller common.Address) error {
	if caller != s.owner() {
		return types.ErrMissingRole
	}

	s.paused.Store(false)
	log.Info("dvault service unpaused")
	return nil
}

func (s *Service) Paused() bool {
	return s.paused.Load()
}

func (s *Service) checkNotPaused() error {
	if s.paused.Load() {
		return types.ErrPaused
	}
	return nil
}

// TokenManagerInfo returns the read-side view of one manager.
func (s *Service) TokenManagerInfo(tokenId types.TokenId) (*types.TokenManagerInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	m, ok := s.managers[tokenId]
	if !ok {
		return nil, types.ErrTokenManagerNotFound
	}

	info := m.FlowInfo()
	return &info, nil
}

// SetFlowLimit configures the per-epoch cap of one manager.
func (s *Service) SetFlowLimit(caller common.Address, tokenId types.TokenId, limit *big.Int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkNotPaused(); err != nil {
		return err
	}

	m, ok := s.managers[tokenId]
	if !ok {
		return types.ErrTokenManagerNotFound
	}

	if err := m.SetFlowLimit(caller, limit); err != nil {
		return err
	}

	return s.db.SetFlowLimit(tokenId, limit)
}

// AddFlowLimiter grants the FLOW_LIMITER role on one manager.
func (s *Service) AddFlowLimiter(caller common.Address, tokenId types.TokenId, addr common.Address) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkNotPaused(); err != nil {
		return err
	}

	m, ok := s.managers[tokenId]
	if !ok {
		return types.ErrTokenManagerNotFound
	}

	if err := m.AddFlowLimiter(caller, addr); err != nil {
		return err
	}

	return s.db.SaveRole(tokenId, addr, int(manager.RoleFlowLimiter))
}

func (s *Service) RemoveFlowLimiter(caller common.Address, tokenId types.TokenId, addr common.Address) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkNotPaused(); err != nil {
		return err
	}

	m, ok := s.managers[tokenId]
	if !ok {
		return types.ErrTokenManagerNotFound
	}

	if err := m.RemoveFlowLimiter(caller, addr); err != nil {
		return err
	}

	return s.db.DeleteRole(tokenId, addr, int(manager.RoleFlowLimiter))
}

// deployLocal creates and persists a manager for the token id. A second
// deployment for the same id fails and changes nothing.
func (s *Service) deployLocal(tokenId types.TokenId, custody types.CustodyType,
	params types.ManagerParams) (*manager.TokenManager, error) {
	if _, ok := s.managers[tokenId]; ok {
		return nil, types.ErrTokenManagerDeployment
	}

	m, err := manager.NewTokenManager(tokenId, custody, params, s.tokens, s.cfg.FlowEpoch(), s.now)
	if err != nil {
		if err == types.ErrZeroAddress {
			return nil, err
		}
		return nil, types.ErrSetupFailed
	}

	record := &types.TokenManagerRecord{
		TokenId:     tokenId,
		CustodyType: custody,
		Params:      params,
	}
	if err := s.db.SaveTokenManager(record); err != nil {
		return nil, types.ErrTokenManagerDeployment
	}

	s.managers[tokenId] = m
	log.Info("Deployed token manager, tokenId = ", tokenId.Hex(), ", custody = ", custody)
	return m, nil
}

// remoteService resolves the counterpart address on a destination chain.
func (s *Service) remoteService(chain string) (config.RemoteService, error) {
	rs, ok := s.cfg.RemoteServices[chain]
	if !ok {
		return config.RemoteService{}, types.ErrUnknownDestinationChain
	}
	return rs, nil
}

func (s *Service) isRemoteService(sourceChain, sourceAddress string) bool {
	rs, ok := s.cfg.RemoteServices[sourceChain]
	return ok && strings.EqualFold(rs.Address, sourceAddress)
}

func (s *Service) isGatewayToken(addr common.Address) bool {
	for _, t := range s.cfg.GatewayTokens {
		if strings.EqualFold(t, addr.Hex()) {
			return true
		}
	}
	return false
}
