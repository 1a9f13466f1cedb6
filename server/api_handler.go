package server

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sisu-network/dvault/core"
	"github.com/sisu-network/dvault/types"
)

type ApiHandler struct {
	service *core.Service
}

func NewApi(service *core.Service) *ApiHandler {
	return &ApiHandler{
		service: service,
	}
}

// Empty function for checking health only.
func (api *ApiHandler) CheckHealth() {
}

func (api *ApiHandler) SendToken(request *types.SendTokenRequest) (*types.SendTokenResult, error) {
	return api.service.SendToken(request)
}

func (api *ApiHandler) Execute(request *types.ExecuteRequest) (*types.ExecuteResult, error) {
	return api.service.Execute(request)
}

func (api *ApiHandler) ExpressReceive(request *types.ExpressReceiveRequest) error {
	return api.service.ExpressReceive(request)
}

func (api *ApiHandler) DeployTokenManager(request *types.DeployTokenManagerRequest) (types.TokenId, error) {
	return api.service.DeployTokenManager(request)
}

func (api *ApiHandler) DeployStandardizedToken(request *types.DeployStandardizedTokenRequest) (types.TokenId, error) {
	return api.service.DeployStandardizedToken(request)
}

func (api *ApiHandler) RegisterCanonicalToken(tokenAddress common.Address) (types.TokenId, error) {
	return api.service.RegisterCanonicalToken(tokenAddress)
}

func (api *ApiHandler) DeployRemoteCanonicalToken(sender common.Address, tokenAddress common.Address,
	destinationChains []string, gasValues []*big.Int) error {
	return api.service.DeployRemoteCanonicalToken(sender, tokenAddress, destinationChains, gasValues)
}

func (api *ApiHandler) TokenManagerInfo(tokenId types.TokenId) (*types.TokenManagerInfo, error) {
	return api.service.TokenManagerInfo(tokenId)
}

func (api *ApiHandler) SetFlowLimit(caller common.Address, tokenId types.TokenId, limit *big.Int) error {
	return api.service.SetFlowLimit(caller, tokenId, limit)
}

func (api *ApiHandler) AddFlowLimiter(caller common.Address, tokenId types.TokenId,
	addr common.Address) error {
	return api.service.AddFlowLimiter(caller, tokenId, addr)
}

func (api *ApiHandler) RemoveFlowLimiter(caller common.Address, tokenId types.TokenId,
	addr common.Address) error {
	return api.service.RemoveFlowLimiter(caller, tokenId, addr)
}

func (api *ApiHandler) Pause(caller common.Address) error {
	return api.service.Pause(caller)
}

func (api *ApiHandler) Unpause(caller common.Address) error {
	return api.service.Unpause(caller)
}

func (api *ApiHandler) Paused() bool {
	return api.service.Paused()
}
