package protocol

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sisu-network/dvault/types"
)

// Payloads are ABI packed with the selector as the first word, so any
// receiving instance can read the selector before it knows the shape of the
// rest of the message.

var (
	uint256Type = mustNewType("uint256")
	uint8Type   = mustNewType("uint8")
	bytes32Type = mustNewType("bytes32")
	bytesType   = mustNewType("bytes")
	stringType  = mustNewType("string")
	addressType = mustNewType("address")

	selectorArgs = abi.Arguments{
		{Type: uint256Type},
	}

	sendTokenArgs = abi.Arguments{
		{Type: uint256Type}, // selector
		{Type: bytes32Type}, // token id
		{Type: bytesType},   // destination address
		{Type: uint256Type}, // amount
	}

	sendTokenWithDataArgs = abi.Arguments{
		{Type: uint256Type}, // selector
		{Type: bytes32Type}, // token id
		{Type: bytesType},   // destination address
		{Type: uint256Type}, // amount
		{Type: bytesType},   // source address
		{Type: bytesType},   // data
	}

	deployManagerArgs = abi.Arguments{
		{Type: uint256Type}, // selector
		{Type: bytes32Type}, // token id
		{Type: uint256Type}, // custody type
		{Type: bytesType},   // manager params
	}

	managerParamsArgs = abi.Arguments{
		{Type: addressType}, // operator
		{Type: addressType}, // token address
		{Type: addressType}, // liquidity pool
	}

	deployStandardizedArgs = abi.Arguments{
		{Type: uint256Type}, // selector
		{Type: bytes32Type}, // token id
		{Type: stringType},  // name
		{Type: stringType},  // symbol
		{Type: uint8Type},   // decimals
		{Type: bytesType},   // distributor
		{Type: bytesType},   // mint to
		{Type: uint256Type}, // mint amount
		{Type: bytesType},   // operator
	}
)

func mustNewType(s string) abi.Type {
	t, err := abi.NewType(s, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// PayloadHash is the fingerprint the gateway approves a delivery against.
func PayloadHash(payload []byte) common.Hash {
	return crypto.Keccak256Hash(payload)
}

// ReadSelector reads and validates the leading selector word.
func ReadSelector(payload []byte) (types.Selector, error) {
	if len(payload) < 32 {
		return 0, types.ErrSelectorUnknown
	}

	vals, err := selectorArgs.Unpack(payload[:32])
	if err != nil {
		return 0, types.ErrSelectorUnknown
	}

	raw := vals[0].(*big.Int)
	if !raw.IsInt64() {
		return 0, types.ErrSelectorUnknown
	}

	sel := types.Selector(raw.Int64())
	if !sel.Valid() {
		return 0, types.ErrSelectorUnknown
	}

	return sel, nil
}

func EncodeSendToken(msg *types.SendTokenMessage) ([]byte, error) {
	return sendTokenArgs.Pack(
		big.NewInt(int64(types.SelectorSendToken)),
		[32]byte(msg.TokenId),
		msg.Destination.Bytes(),
		msg.Amount,
	)
}

func DecodeSendToken(payload []byte) (*types.SendTokenMessage, error) {
	vals, err := sendTokenArgs.Unpack(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed send token payload: %w", err)
	}

	id, err := types.TokenIdFromBytes(bytes32Slice(vals[1]))
	if err != nil {
		return nil, err
	}

	return &types.SendTokenMessage{
		TokenId:     id,
		Destination: common.BytesToAddress(vals[2].([]byte)),
		Amount:      vals[3].(*big.Int),
	}, nil
}

func EncodeSendTokenWithData(msg *types.SendTokenWithDataMessage) ([]byte, error) {
	return sendTokenWithDataArgs.Pack(
		big.NewInt(int64(types.SelectorSendTokenWithData)),
		[32]byte(msg.TokenId),
		msg.Destination.Bytes(),
		msg.Amount,
		msg.SourceAddress,
		msg.Data,
	)
}

func DecodeSendTokenWithData(payload []byte) (*types.SendTokenWithDataMessage, error) {
	vals, err := sendTokenWithDataArgs.Unpack(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed send token with data payload: %w", err)
	}

	id, err := types.TokenIdFromBytes(bytes32Slice(vals[1]))
	if err != nil {
		return nil, err
	}

	return &types.SendTokenWithDataMessage{
		TokenId:       id,
		Destination:   common.BytesToAddress(vals[2].([]byte)),
		Amount:        vals[3].(*big.Int),
		SourceAddress: vals[4].([]byte),
		Data:          vals[5].([]byte),
	}, nil
}

func EncodeDeployTokenManager(msg *types.DeployTokenManagerMessage) ([]byte, error) {
	params, err := managerParamsArgs.Pack(
		msg.Params.Operator,
		msg.Params.TokenAddress,
		msg.Params.LiquidityPool,
	)
	if err != nil {
		return nil, err
	}

	return deployManagerArgs.Pack(
		big.NewInt(int64(types.SelectorDeployTokenManager)),
		[32]byte(msg.TokenId),
		big.NewInt(int64(msg.CustodyType)),
		params,
	)
}

func DecodeDeployTokenManager(payload []byte) (*types.DeployTokenManagerMessage, error) {
	vals, err := deployManagerArgs.Unpack(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed deploy manager payload: %w", err)
	}

	id, err := types.TokenIdFromBytes(bytes32Slice(vals[1]))
	if err != nil {
		return nil, err
	}

	rawType := vals[2].(*big.Int)
	custody := types.CustodyType(rawType.Int64())
	if !rawType.IsInt64() || !custody.Valid() {
		return nil, types.ErrSetupFailed
	}

	paramVals, err := managerParamsArgs.Unpack(vals[3].([]byte))
	if err != nil {
		return nil, fmt.Errorf("malformed manager params: %w", err)
	}

	return &types.DeployTokenManagerMessage{
		TokenId:     id,
		CustodyType: custody,
		Params: types.ManagerParams{
			Operator:      paramVals[0].(common.Address),
			TokenAddress:  paramVals[1].(common.Address),
			LiquidityPool: paramVals[2].(common.Address),
		},
	}, nil
}

func EncodeDeployStandardizedToken(msg *types.DeployStandardizedTokenMessage) ([]byte, error) {
	return deployStandardizedArgs.Pack(
		big.NewInt(int64(types.SelectorDeployStandardizedToken)),
		[32]byte(msg.TokenId),
		msg.Name,
		msg.Symbol,
		msg.Decimals,
		msg.Distributor.Bytes(),
		msg.MintTo.Bytes(),
		msg.MintAmount,
		msg.Operator.Bytes(),
	)
}

func DecodeDeployStandardizedToken(payload []byte) (*types.DeployStandardizedTokenMessage, error) {
	vals, err := deployStandardizedArgs.Unpack(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed deploy standardized token payload: %w", err)
	}

	id, err := types.TokenIdFromBytes(bytes32Slice(vals[1]))
	if err != nil {
		return nil, err
	}

	return &types.DeployStandardizedTokenMessage{
		TokenId:     id,
		Name:        vals[2].(string),
		Symbol:      vals[3].(string),
		Decimals:    vals[4].(uint8),
		Distributor: common.BytesToAddress(vals[5].([]byte)),
		MintTo:      common.BytesToAddress(vals[6].([]byte)),
		MintAmount:  vals[7].(*big.Int),
		Operator:    common.BytesToAddress(vals[8].([]byte)),
	}, nil
}

func bytes32Slice(v interface{}) []byte {
	arr := v.([32]byte)
	return arr[:]
}
