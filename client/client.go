package client

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sisu-network/dvault/types"
)

// A client that connects to a dvault instance, used by relayers and by the
// dvault instances of other chains.
type Client interface {
	TryDial()
	CheckHealth() error

	SendToken(request *types.SendTokenRequest) (*types.SendTokenResult, error)
	Execute(request *types.ExecuteRequest) (*types.ExecuteResult, error)
	ExpressReceive(request *types.ExpressReceiveRequest) error

	DeployTokenManager(request *types.DeployTokenManagerRequest) (types.TokenId, error)
	DeployStandardizedToken(request *types.DeployStandardizedTokenRequest) (types.TokenId, error)
	RegisterCanonicalToken(tokenAddress common.Address) (types.TokenId, error)

	TokenManagerInfo(tokenId types.TokenId) (*types.TokenManagerInfo, error)
	SetFlowLimit(caller common.Address, tokenId types.TokenId, limit *big.Int) error
}
