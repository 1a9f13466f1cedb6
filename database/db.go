package database

import (
	"database/sql"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sisu-network/lib/log"

	"github.com/sisu-network/dvault/config"
	"github.com/sisu-network/dvault/types"
)

type Database interface {
	Init() error

	SaveTokenManager(record *types.TokenManagerRecord) error
	DeleteTokenManager(tokenId types.TokenId) error
	LoadTokenManagers() ([]*types.TokenManagerRecord, error)
	SetFlowLimit(tokenId types.TokenId, limit *big.Int) error

	SaveRole(tokenId types.TokenId, addr common.Address, role int) error
	DeleteRole(tokenId types.TokenId, addr common.Address, role int) error
	LoadRoles(tokenId types.TokenId) (map[common.Address][]int, error)

	SaveExpressRecord(record *types.ExpressRecord) error
	GetExpressRecord(key common.Hash) (*types.ExpressRecord, error)
	DeleteExpressRecord(key common.Hash) error
}

type DefaultDatabase struct {
	cfg *config.Dvault
	db  *sql.DB
}

func NewDb(cfg *config.Dvault) Database {
	return &DefaultDatabase{
		cfg: cfg,
	}
}

func (d *DefaultDatabase) Connect() error {
	if d.cfg.InMemory {
		db, err := sql.Open("sqlite3", ":memory:")
		if err != nil {
			return err
		}
		d.db = db
		return nil
	}

	host := d.cfg.DbHost
	if host == "" {
		return fmt.Errorf("DB host cannot be empty")
	}

	username := d.cfg.DbUsername
	password := d.cfg.DbPassword
	schema := d.cfg.DbSchema
	port := d.cfg.DbPort

	url := fmt.Sprintf("%s:%s@tcp(%s:%d)/", username, password, host, port)
	database, err := sql.Open("mysql", url)
	if err != nil {
		return err
	}
	if _, err = database.Exec("CREATE DATABASE IF NOT EXISTS " + schema); err != nil {
		return err
	}
	database.Close()

	database, err = sql.Open("mysql",
		fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", username, password, host, port, schema))
	if err != nil {
		return err
	}

	d.db = database
	log.Info("Db is connected successfully")
	return nil
}

func (d *DefaultDatabase) Init() error {
	err := d.Connect()
	if err != nil {
		log.Error("Failed to connect to DB. Err =", err)
		return err
	}

	return d.DoMigration()
}

func (d *DefaultDatabase) SaveTokenManager(record *types.TokenManagerRecord) error {
	limit := ""
	if record.FlowLimit != nil {
		limit = record.FlowLimit.String()
	}

	_, err := d.db.Exec(
		`INSERT INTO token_managers (token_id, custody_type, token_address, operator, liquidity_pool, flow_limit)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.TokenId.Hex(), int(record.CustodyType), record.Params.TokenAddress.Hex(),
		record.Params.Operator.Hex(), record.Params.LiquidityPool.Hex(), limit,
	)
	return err
}

func (d *DefaultDatabase) DeleteTokenManager(tokenId types.TokenId) error {
	_, err := d.db.Exec(`DELETE FROM token_managers WHERE token_id = ?`, tokenId.Hex())
	return err
}

func (d *DefaultDatabase) LoadTokenManagers() ([]*types.TokenManagerRecord, error) {
	rows, err := d.db.Query(
		`SELECT token_id, custody_type, token_address, operator, liquidity_pool, flow_limit
		 FROM token_managers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*types.TokenManagerRecord, 0)
	for rows.Next() {
		var (
			record      types.TokenManagerRecord
			custody     int
			tokenAddr   string
			operator    string
			pool        string
			limitString string
		)
		if err := rows.Scan(&record.TokenId, &custody, &tokenAddr, &operator, &pool,
			&limitString); err != nil {
			return nil, err
		}

		record.CustodyType = types.CustodyType(custody)
		record.Params = types.ManagerParams{
			Operator:      common.HexToAddress(operator),
			TokenAddress:  common.HexToAddress(tokenAddr),
			LiquidityPool: common.HexToAddress(pool),
		}
		if limitString != "" {
			limit, ok := new(big.Int).SetString(limitString, 10)
			if !ok {
				return nil, fmt.Errorf("invalid flow limit %q for token %s", limitString, record.TokenId)
			}
			record.FlowLimit = limit
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}

func (d *DefaultDatabase) SetFlowLimit(tokenId types.TokenId, limit *big.Int) error {
	s := ""
	if limit != nil {
		s = limit.String()
	}

	_, err := d.db.Exec(`UPDATE token_managers SET flow_limit = ? WHERE token_id = ?`,
		s, tokenId.Hex())
	return err
}

func (d *DefaultDatabase) SaveRole(tokenId types.TokenId, addr common.Address, role int) error {
	_, err := d.db.Exec(
		`INSERT INTO manager_roles (token_id, address, role) VALUES (?, ?, ?)`,
		tokenId.Hex(), addr.Hex(), role)
	return err
}

func (d *DefaultDatabase) DeleteRole(tokenId types.TokenId, addr common.Address, role int) error {
	_, err := d.db.Exec(
		`DELETE FROM manager_roles WHERE token_id = ? AND address = ? AND role = ?`,
		tokenId.Hex(), addr.Hex(), role)
	return err
}

func (d *DefaultDatabase) LoadRoles(tokenId types.TokenId) (map[common.Address][]int, error) {
	rows, err := d.db.Query(`SELECT address, role FROM manager_roles WHERE token_id = ?`,
		tokenId.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make(map[common.Address][]int)
	for rows.Next() {
		var (
			addr string
			role int
		)
		if err := rows.Scan(&addr, &role); err != nil {
			return nil, err
		}
		a := common.HexToAddress(addr)
		roles[a] = append(roles[a], role)
	}

	return roles, rows.Err()
}

func (d *DefaultDatabase) SaveExpressRecord(record *types.ExpressRecord) error {
	_, err := d.db.Exec(
		`INSERT INTO express_records (record_key, command_id, express_caller) VALUES (?, ?, ?)`,
		record.Key.Hex(), record.CommandId.Hex(), record.ExpressCaller.Hex())
	return err
}

func (d *DefaultDatabase) GetExpressRecord(key common.Hash) (*types.ExpressRecord, error) {
	rows, err := d.db.Query(
		`SELECT command_id, express_caller FROM express_records WHERE record_key = ?`,
		key.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var (
		commandId string
		caller    string
	)
	if err := rows.Scan(&commandId, &caller); err != nil {
		return nil, err
	}

	return &types.ExpressRecord{
		Key:           key,
		CommandId:     common.HexToHash(commandId),
		ExpressCaller: common.HexToAddress(caller),
	}, nil
}

func (d *DefaultDatabase) DeleteExpressRecord(key common.Hash) error {
	_, err := d.db.Exec(`DELETE FROM express_records WHERE record_key = ?`, key.Hex())
	return err
}
