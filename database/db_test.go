package database

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dvault/config"
	"github.com/sisu-network/dvault/types"
	"github.com/stretchr/testify/require"
)

func getTestDb(t *testing.T) Database {
	cfg := config.Dvault{
		InMemory: true,
	}
	dbInstance := NewDb(&cfg)
	err := dbInstance.Init()
	require.Nil(t, err)

	return dbInstance
}

func TestDefaultDatabase_TokenManagers(t *testing.T) {
	db := getTestDb(t)

	id := types.CustomTokenId(common.HexToAddress("0x01"), [32]byte{1})
	record := &types.TokenManagerRecord{
		TokenId:     id,
		CustodyType: types.CustodyLockUnlockFee,
		Params: types.ManagerParams{
			Operator:     common.HexToAddress("0x02"),
			TokenAddress: common.HexToAddress("0x03"),
		},
		FlowLimit: big.NewInt(1500),
	}

	require.Nil(t, db.SaveTokenManager(record))

	// Primary key on token_id; the second deployment attempt must fail.
	require.NotNil(t, db.SaveTokenManager(record))

	loaded, err := db.LoadTokenManagers()
	require.Nil(t, err)
	require.Equal(t, 1, len(loaded))
	require.Equal(t, record.TokenId, loaded[0].TokenId)
	require.Equal(t, record.CustodyType, loaded[0].CustodyType)
	require.Equal(t, record.Params, loaded[0].Params)
	require.Equal(t, record.FlowLimit, loaded[0].FlowLimit)

	require.Nil(t, db.SetFlowLimit(id, big.NewInt(99)))
	loaded, err = db.LoadTokenManagers()
	require.Nil(t, err)
	require.Equal(t, big.NewInt(99), loaded[0].FlowLimit)

	require.Nil(t, db.SetFlowLimit(id, nil))
	loaded, err = db.LoadTokenManagers()
	require.Nil(t, err)
	require.Nil(t, loaded[0].FlowLimit)
}

func TestDefaultDatabase_Roles(t *testing.T) {
	db := getTestDb(t)

	id := types.CustomTokenId(common.HexToAddress("0x01"), [32]byte{2})
	addr := common.HexToAddress("0x09")

	require.Nil(t, db.SaveRole(id, addr, 1))

	roles, err := db.LoadRoles(id)
	require.Nil(t, err)
	require.Equal(t, []int{1}, roles[addr])

	require.Nil(t, db.DeleteRole(id, addr, 1))
	roles, err = db.LoadRoles(id)
	require.Nil(t, err)
	require.Equal(t, 0, len(roles))
}

func TestDefaultDatabase_ExpressRecords(t *testing.T) {
	db := getTestDb(t)

	key := common.HexToHash("0xaa")
	record := &types.ExpressRecord{
		Key:           key,
		CommandId:     common.HexToHash("0xbb"),
		ExpressCaller: common.HexToAddress("0xcc"),
	}

	got, err := db.GetExpressRecord(key)
	require.Nil(t, err)
	require.Nil(t, got)

	require.Nil(t, db.SaveExpressRecord(record))

	// Only one record may exist per key.
	require.NotNil(t, db.SaveExpressRecord(record))

	got, err = db.GetExpressRecord(key)
	require.Nil(t, err)
	require.Equal(t, record, got)

	require.Nil(t, db.DeleteExpressRecord(key))
	got, err = db.GetExpressRecord(key)
	require.Nil(t, err)
	require.Nil(t, got)
}
