package client

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sisu-network/lib/log"

	"github.com/sisu-network/dvault/types"
	"github.com/sisu-network/dvault/utils"
)

const (
	RetryTime = 10 * time.Second
)

var (
	ErrServerNotConnected = errors.New("dvault server is not connected")
)

type DefaultClient struct {
	client    *rpc.Client
	url       string
	connected bool
}

func NewClient(url string) Client {
	return &DefaultClient{
		url: url,
	}
}

func (c *DefaultClient) TryDial() {
	log.Info("Trying to dial dvault server")

	for {
		log.Info("Dialing... ", c.url)
		var err error
		c.client, err = rpc.DialContext(context.Background(), c.url)
		if err != nil {
			log.Error("Cannot connect to dvault server, err = ", err)
			time.Sleep(RetryTime)
			continue
		}

		if err = c.CheckHealth(); err != nil {
			time.Sleep(RetryTime)
			continue
		}

		c.connected = true
		break
	}

	log.Info("dvault server, url = ", c.url, ", is connected")
}

func (c *DefaultClient) CheckHealth() error {
	err := c.call(nil, "dvault_checkHealth")
	if err != nil {
		log.Error("Cannot check dvault health, err = ", err)
	}

	return err
}

func (c *DefaultClient) SendToken(request *types.SendTokenRequest) (*types.SendTokenResult, error) {
	result := &types.SendTokenResult{}
	if err := c.call(result, "dvault_sendToken", request); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *DefaultClient) Execute(request *types.ExecuteRequest) (*types.ExecuteResult, error) {
	log.Verbose("Submitting delivery, payload hash = ", utils.KeccakHash32Bytes(request.Payload))

	result := &types.ExecuteResult{}
	if err := c.call(result, "dvault_execute", request); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *DefaultClient) ExpressReceive(request *types.ExpressReceiveRequest) error {
	return c.call(nil, "dvault_expressReceive", request)
}

func (c *DefaultClient) DeployTokenManager(request *types.DeployTokenManagerRequest) (types.TokenId, error) {
	var tokenId types.TokenId
	if err := c.call(&tokenId, "dvault_deployTokenManager", request); err != nil {
		return types.TokenId{}, err
	}

	return tokenId, nil
}

func (c *DefaultClient) DeployStandardizedToken(request *types.DeployStandardizedTokenRequest) (types.TokenId, error) {
	var tokenId types.TokenId
	if err := c.call(&tokenId, "dvault_deployStandardizedToken", request); err != nil {
		return types.TokenId{}, err
	}

	return tokenId, nil
}

func (c *DefaultClient) RegisterCanonicalToken(tokenAddress common.Address) (types.TokenId, error) {
	var tokenId types.TokenId
	if err := c.call(&tokenId, "dvault_registerCanonicalToken", tokenAddress); err != nil {
		return types.TokenId{}, err
	}

	return tokenId, nil
}

func (c *DefaultClient) TokenManagerInfo(tokenId types.TokenId) (*types.TokenManagerInfo, error) {
	info := &types.TokenManagerInfo{}
	if err := c.call(info, "dvault_tokenManagerInfo", tokenId); err != nil {
		return nil, err
	}

	return info, nil
}

func (c *DefaultClient) SetFlowLimit(caller common.Address, tokenId types.TokenId, limit *big.Int) error {
	return c.call(nil, "dvault_setFlowLimit", caller, tokenId, limit)
}

func (c *DefaultClient) call(result interface{}, method string, args ...interface{}) error {
	if c.client == nil {
		return ErrServerNotConnected
	}

	return c.client.CallContext(context.Background(), result, method, args...)
}
