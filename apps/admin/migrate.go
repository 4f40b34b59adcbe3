package main

import (
	"context"

	"github.com/Diva-jaw/Frontend--sub001/storage/database"
)

var runMigrationsFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	ctx := context.Background()
	if cli.ping != nil {
		if err := cli.ping(ctx); err != nil {
			return err
		}
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return runMigrationsFunc(ctx, cli.db, args[0], arguments...)
}
