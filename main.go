package main

import (
	"os"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/joho/godotenv"
	"github.com/sisu-network/lib/log"

	"github.com/sisu-network/dvault/config"
	"github.com/sisu-network/dvault/core"
	"github.com/sisu-network/dvault/database"
	"github.com/sisu-network/dvault/gasservice"
	"github.com/sisu-network/dvault/gateway"
	"github.com/sisu-network/dvault/server"
	"github.com/sisu-network/dvault/token"
)

func initializeDb(cfg *config.Dvault) database.Database {
	db := database.NewDb(cfg)
	if err := db.Init(); err != nil {
		panic(err)
	}

	return db
}

func setupApiServer(cfg config.Dvault, service *core.Service) {
	handler := rpc.NewServer()
	if err := handler.RegisterName("dvault", server.NewApi(service)); err != nil {
		panic(err)
	}

	s := server.NewServer(handler, cfg.ServerPort)
	s.Run()
}

func main() {
	if err := godotenv.Load(); err != nil {
		panic(err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./dvault.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	db := initializeDb(&cfg)

	// The simulator stands in for the gateway until a chain-backed one is
	// wired. TODO: replace with the on-chain gateway binding.
	gw := gateway.NewSimulator()
	gas := gasservice.NewClient(cfg.GasServiceUrl)

	service := core.NewService(cfg, db, gw, gas, token.NewRegistry(),
		core.NewExecutableRegistry(), nil)
	if err := service.Start(); err != nil {
		panic(err)
	}

	log.Info("dvault starting, chain = ", cfg.Chain)
	setupApiServer(cfg, service)
}
