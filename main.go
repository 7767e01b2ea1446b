package main

import (
	"log"

	"github.com/fwielstra/vizplugins/cmd"
	"github.com/fwielstra/vizplugins/config"
	"github.com/fwielstra/vizplugins/sqlite"
)

func main() {
	// read config; values from the environment win over .env
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	db, err := sqlite.OpenDatabase(cfg.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := sqlite.MigrateTables(db); err != nil {
		log.Fatalf("error creating tables: %v", err)
	}

	cmd.Execute(db, cfg)
}
