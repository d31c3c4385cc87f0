package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/stake-plus/congressrp/src/actions"
	"github.com/stake-plus/congressrp/src/config"
	shareddata "github.com/stake-plus/congressrp/src/data"
	"github.com/stake-plus/congressrp/src/data/bills"
)

func main() {
	boot, err := config.LoadBootstrap()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Use a single DB connection for all modules
	db := shareddata.MustConnect(boot.DBDriver, boot.DSN())
	if err := shareddata.Migrate(db, bills.Models()...); err != nil {
		log.Fatalf("db: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager, err := actions.StartAll(ctx, db, boot)
	if err != nil {
		log.Fatalf("actions start: %v", err)
	}

	// Wait for termination
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	manager.Stop(ctx)
}
