package config

import (
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// Width of one flow-limit epoch when the config does not set one.
	DefaultFlowEpoch = 6 * time.Hour
)

// RemoteService identifies the counterpart dvault instance on another chain.
// Inbound messages claiming to come from that chain must carry exactly this
// source address.
type RemoteService struct {
	Chain   string `toml:"chain" json:"chain"`
	Address string `toml:"address" json:"address"`
}

type Dvault struct {
	// Name of the chain this instance runs on.
	Chain string `toml:"chain" json:"chain"`

	// Address allowed to pause/unpause the service.
	Owner string `toml:"owner" json:"owner"`

	DbHost     string `toml:"db_host" json:"db_host"`
	DbPort     int    `toml:"db_port" json:"db_port"`
	DbUsername string `toml:"db_username" json:"db_username"`
	DbPassword string `toml:"db_password" json:"db_password"`
	DbSchema   string `toml:"db_schema" json:"db_schema"`
	InMemory   bool   `toml:"in_memory" json:"in_memory"`

	ServerPort    int    `toml:"server_port" json:"server_port"`
	GasServiceUrl string `toml:"gas_service_url" json:"gas_service_url"`

	// Flow-limit epoch width in seconds. 0 picks DefaultFlowEpoch.
	FlowEpochSeconds int `toml:"flow_epoch_seconds" json:"flow_epoch_seconds"`

	// Tokens the gateway moves natively. Registering them here is rejected.
	GatewayTokens []string `toml:"gateway_tokens" json:"gateway_tokens"`

	RemoteServices map[string]RemoteService `toml:"remote_services" json:"remote_services"`
}

func (c *Dvault) FlowEpoch() time.Duration {
	if c.FlowEpochSeconds <= 0 {
		return DefaultFlowEpoch
	}
	return time.Duration(c.FlowEpochSeconds) * time.Second
}

func Load(path string) (Dvault, error) {
	cfg := Dvault{}
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, err
	}

	return cfg, nil
}
