package types

import (
	"errors"
	"fmt"
)

// Every failure in the service is one of these typed errors. They abort the
// whole triggering request; nothing is retried internally.
var (
	ErrPaused                       = errors.New("service is paused")
	ErrMissingRole                  = errors.New("caller does not hold the required role")
	ErrAlreadyFlowLimiter           = errors.New("address is already a flow limiter")
	ErrNotFlowLimiter               = errors.New("address is not a flow limiter")
	ErrRoleAlreadyHeld              = errors.New("address already holds the role")
	ErrRoleNotHeld                  = errors.New("address does not hold the role")
	ErrZeroAddress                  = errors.New("zero address")
	ErrZeroAmount                   = errors.New("amount must be positive")
	ErrLengthMismatch               = errors.New("input length mismatch")
	ErrTokenManagerNotFound         = errors.New("token manager does not exist")
	ErrTokenManagerDeployment       = errors.New("token manager deployment failed")
	ErrNotCanonicalTokenManager     = errors.New("token manager is not canonical")
	ErrGatewayToken                 = errors.New("token is managed by the gateway")
	ErrNotApprovedByGateway         = errors.New("call is not approved by the gateway")
	ErrNotRemoteService             = errors.New("sender is not the remote service")
	ErrUnknownDestinationChain      = errors.New("no remote service for destination chain")
	ErrSelectorUnknown              = errors.New("unknown payload selector")
	ErrAlreadyExecuted              = errors.New("command was already executed")
	ErrInvalidExpressSelector       = errors.New("selector cannot be express executed")
	ErrExpressAlreadyFulfilled      = errors.New("transfer was already express executed")
	ErrInvalidMetadataVersion       = errors.New("unsupported metadata version")
	ErrFlowLimitExceeded            = errors.New("flow limit exceeded")
	ErrInsufficientCustody          = errors.New("insufficient custody balance")
	ErrExecuteWithTokenNotSupported = errors.New("execute with token is not supported")
	ErrExecutableNotFound           = errors.New("destination address has no executable handler")
	ErrSetupFailed                  = errors.New("token manager setup failed")
)

// TransferError wraps an asset-layer failure (transfer, mint, burn) with the
// token manager context it happened in.
type TransferError struct {
	TokenId TokenId
	Op      string
	Err     error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("token %s: %s failed: %v", e.TokenId, e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

func NewTransferError(tokenId TokenId, op string, err error) *TransferError {
	return &TransferError{TokenId: tokenId, Op: op, Err: err}
}
