package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenManagerRecord is the persisted form of one token manager, enough to
// rebuild it on restart. Flow accumulators are not persisted; epochs are
// short and restart mid-epoch starts them from zero.
type TokenManagerRecord struct {
	TokenId     TokenId
	CustodyType CustodyType
	Params      ManagerParams
	FlowLimit   *big.Int
}

// ExpressRecord remembers who fronted an inbound transfer before the
// authoritative delivery landed. It lives from the express call until the
// settlement that reimburses the caller.
type ExpressRecord struct {
	Key           common.Hash
	CommandId     common.Hash
	ExpressCaller common.Address
}
