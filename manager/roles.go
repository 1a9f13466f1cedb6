package manager

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dvault/types"
)

func (m *TokenManager) HasRole(addr common.Address, role Role) bool {
	return m.roles[addr] != nil && m.roles[addr][role]
}

// GrantRole gives addr the role. The caller must be an operator. Granting a
// role the address already holds is an explicit error, never a silent no-op.
func (m *TokenManager) GrantRole(caller, addr common.Address, role Role) error {
	if !m.HasRole(caller, RoleOperator) {
		return types.ErrMissingRole
	}
	if addr == (common.Address{}) {
		return types.ErrZeroAddress
	}
	if m.HasRole(addr, role) {
		if role == RoleFlowLimiter {
			return types.ErrAlreadyFlowLimiter
		}
		return types.ErrRoleAlreadyHeld
	}

	m.setRole(addr, role)
	return nil
}

// RevokeRole removes the role from addr. Revoking an unheld role fails.
func (m *TokenManager) RevokeRole(caller, addr common.Address, role Role) error {
	if !m.HasRole(caller, RoleOperator) {
		return types.ErrMissingRole
	}
	if !m.HasRole(addr, role) {
		if role == RoleFlowLimiter {
			return types.ErrNotFlowLimiter
		}
		return types.ErrRoleNotHeld
	}

	delete(m.roles[addr], role)
	return nil
}

// AddFlowLimiter and RemoveFlowLimiter are the operator-facing names for
// managing the FLOW_LIMITER role.
func (m *TokenManager) AddFlowLimiter(caller, addr common.Address) error {
	return m.GrantRole(caller, addr, RoleFlowLimiter)
}

func (m *TokenManager) RemoveFlowLimiter(caller, addr common.Address) error {
	return m.RevokeRole(caller, addr, RoleFlowLimiter)
}

// FlowLimiters lists the addresses currently holding the FLOW_LIMITER role.
func (m *TokenManager) FlowLimiters() []common.Address {
	addrs := make([]common.Address, 0)
	for addr, roles := range m.roles {
		if roles[RoleFlowLimiter] {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}
