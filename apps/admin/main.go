package main

import (
	"context"
	"log"
	"os"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
	"github.com/Diva-jaw/Frontend--sub001/core/menu"
	"github.com/Diva-jaw/Frontend--sub001/storage/database"
	sqlxrepos "github.com/Diva-jaw/Frontend--sub001/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	cat, err := catalog.Default()
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	cli := commandLine{
		out:     os.Stdout,
		catalog: cat,
		routes:  menu.DefaultRoutes(),
		db:      db.DB,
		leads:   sqlxrepos.NewLeadRepository(db),
		ping: func(ctx context.Context) error {
			return database.Ping(ctx, db.DB)
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
