package main

import (
	"errors"

	"github.com/kelasku/jurnalkelas/storage/database"
)

var errNoDatabase = errors.New("migrate requires a configured database engine")

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	if len(args) == 0 {
		args = []string{"up"}
	}
	return database.RunMigrationCommand(cli.db, args[0], args[1:]...)
}
