package gasservice

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/lib/log"
	"github.com/ybbus/jsonrpc/v3"
)

// payGasParams is the wire form of one gas payment accounting call.
type payGasParams struct {
	Sender             string `json:"sender"`
	DestinationChain   string `json:"destination_chain"`
	DestinationAddress string `json:"destination_address"`
	PayloadHash        string `json:"payload_hash"`
	Value              string `json:"value"`
	RefundWallet       string `json:"refund_wallet"`
}

// Client talks to the gas side-service over JSON-RPC.
type Client struct {
	rpc jsonrpc.RPCClient
	url string
}

func NewClient(url string) *Client {
	return &Client{
		rpc: jsonrpc.NewClient(url),
		url: url,
	}
}

func (c *Client) PayGas(sender common.Address, destinationChain, destinationAddress string,
	payloadHash common.Hash, value *big.Int, refundWallet common.Address) error {
	params := payGasParams{
		Sender:             sender.Hex(),
		DestinationChain:   destinationChain,
		DestinationAddress: destinationAddress,
		PayloadHash:        payloadHash.Hex(),
		Value:              value.String(),
		RefundWallet:       refundWallet.Hex(),
	}

	resp, err := c.rpc.Call(context.Background(), "gas_payNativeGasForContractCall", params)
	if err != nil {
		log.Error("Failed to call gas service at ", c.url, " err = ", err)
		return err
	}
	if resp.Error != nil {
		log.Error("Gas service rejected payment, err = ", resp.Error)
		return resp.Error
	}

	return nil
}
