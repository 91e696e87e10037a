package main

import (
	"log"
	"os"

	"github.com/kelasku/jurnalkelas/core"
	"github.com/kelasku/jurnalkelas/core/authcode"
	"github.com/kelasku/jurnalkelas/core/hash"
	"github.com/kelasku/jurnalkelas/storage/database"
	inmemdb "github.com/kelasku/jurnalkelas/storage/database/inmem"
	"github.com/kelasku/jurnalkelas/storage/database/sqlxrepos"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.Conf
	cli := commandLine{hasher: hash.New(conf.Auth.HashAlgorithm)}

	if conf.Database.Engine == "" {
		// in-memory store: changes do not outlive the process
		store, err := inmemdb.Open()
		errAndDie(err)
		cli.acctRepo = inmemdb.NewAccountRepository(store)
		cli.codeSvc = authcode.NewService(inmemdb.NewAuthCodeRepository(store))
	} else {
		db, err := database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(database.Ping(db))
		cli.db = db
		cli.acctRepo = sqlxrepos.NewAccountRepository(db)
		cli.codeSvc = authcode.NewService(sqlxrepos.NewAuthCodeRepository(db))
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
