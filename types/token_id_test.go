package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestCustomTokenId_Deterministic(t *testing.T) {
	deployer := common.HexToAddress("0x1234567890123456789012345678901234567890")
	salt := [32]byte{1, 2, 3}

	id1 := CustomTokenId(deployer, salt)
	id2 := CustomTokenId(deployer, salt)
	require.Equal(t, id1, id2)

	// A different salt or deployer must produce a different id.
	otherSalt := [32]byte{1, 2, 4}
	require.NotEqual(t, id1, CustomTokenId(deployer, otherSalt))

	otherDeployer := common.HexToAddress("0x0000000000000000000000000000000000000001")
	require.NotEqual(t, id1, CustomTokenId(otherDeployer, salt))
}

func TestCanonicalTokenId_IndependentOfRegistrar(t *testing.T) {
	token := common.HexToAddress("0xabcdefabcdefabcdefabcdefabcdefabcdefabcd")

	require.Equal(t, CanonicalTokenId(token), CanonicalTokenId(token))
	require.NotEqual(t, CanonicalTokenId(token), CustomTokenId(token, [32]byte{}))
}

func TestTokenId_HexRoundTrip(t *testing.T) {
	id := CanonicalTokenId(common.HexToAddress("0x01"))

	parsed, err := TokenIdFromHex(id.Hex())
	require.Nil(t, err)
	require.Equal(t, id, parsed)

	_, err = TokenIdFromHex("0x1234")
	require.NotNil(t, err)
}

func TestDerivedAddresses_ComputableBeforeDeploy(t *testing.T) {
	id := CanonicalTokenId(common.HexToAddress("0x02"))

	mgr := TokenManagerAddress(id)
	tok := StandardizedTokenAddress(id)

	require.NotEqual(t, common.Address{}, mgr)
	require.NotEqual(t, common.Address{}, tok)
	require.NotEqual(t, mgr, tok)
	require.Equal(t, mgr, TokenManagerAddress(id))
}
