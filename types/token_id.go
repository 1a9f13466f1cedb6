package types

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	customTokenIdPrefix    = crypto.Keccak256([]byte("dvault-custom-token-id"))
	canonicalTokenIdPrefix = crypto.Keccak256([]byte("dvault-canonical-token-id"))
	managerAddressPrefix   = crypto.Keccak256([]byte("dvault-token-manager"))
	standardAddressPrefix  = crypto.Keccak256([]byte("dvault-standardized-token"))
)

// TokenId is a 32-byte key binding a logical token to exactly one token
// manager on every chain.
type TokenId [32]byte

func TokenIdFromBytes(bz []byte) (TokenId, error) {
	var id TokenId
	if len(bz) != 32 {
		return id, fmt.Errorf("invalid token id length %d", len(bz))
	}
	copy(id[:], bz)
	return id, nil
}

func TokenIdFromHex(s string) (TokenId, error) {
	if len(s) >= 2 && s[:2] == "0x" {
		s = s[2:]
	}
	bz, err := hex.DecodeString(s)
	if err != nil {
		return TokenId{}, err
	}
	return TokenIdFromBytes(bz)
}

func (id TokenId) Bytes() []byte {
	return id[:]
}

func (id TokenId) Hex() string {
	return "0x" + hex.EncodeToString(id[:])
}

func (id TokenId) String() string {
	return id.Hex()
}

func (id TokenId) IsZero() bool {
	return id == TokenId{}
}

// MarshalText makes a TokenId travel as its hex string in JSON requests.
func (id TokenId) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

func (id *TokenId) UnmarshalText(text []byte) error {
	parsed, err := TokenIdFromHex(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer so a TokenId can be written to the db as its
// hex string.
func (id TokenId) Value() (driver.Value, error) {
	return id.Hex(), nil
}

func (id *TokenId) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := TokenIdFromHex(v)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	case []byte:
		parsed, err := TokenIdFromHex(string(v))
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TokenId", src)
	}
}

// CustomTokenId derives the token id for a custom token registered by
// deployer with the given salt. Pure function: same inputs, same id, on every
// chain.
func CustomTokenId(deployer common.Address, salt [32]byte) TokenId {
	var id TokenId
	copy(id[:], crypto.Keccak256(customTokenIdPrefix, deployer.Bytes(), salt[:]))
	return id
}

// CanonicalTokenId derives the token id for a pre-existing token from its
// address alone, so every registrar gets the same id.
func CanonicalTokenId(token common.Address) TokenId {
	var id TokenId
	copy(id[:], crypto.Keccak256(canonicalTokenIdPrefix, token.Bytes()))
	return id
}

// TokenManagerAddress returns the deterministic address of the manager for a
// token id, computable before the manager exists.
func TokenManagerAddress(id TokenId) common.Address {
	return common.BytesToAddress(crypto.Keccak256(managerAddressPrefix, id[:])[12:])
}

// StandardizedTokenAddress returns the deterministic address a standardized
// token deployed for this id will live at.
func StandardizedTokenAddress(id TokenId) common.Address {
	return common.BytesToAddress(crypto.Keccak256(standardAddressPrefix, id[:])[12:])
}
