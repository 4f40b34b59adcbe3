package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
	"github.com/Diva-jaw/Frontend--sub001/core/menu"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	out     io.Writer
	catalog *catalog.Catalog
	routes  menu.Table
	db      *sql.DB
	leads   enrollment.Repository
	ping    func(ctx context.Context) error
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  routes [-unmatched] - print the level dispatch table, or the levels it does not reach")
	fmt.Fprintln(cli.out, "  catalog [-category NAME] - print the course catalog")
	fmt.Fprintln(cli.out, "  leads [-course ID] [-email EMAIL] - print the stored enrollment leads")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	routesCmd := flag.NewFlagSet("routes", flag.ContinueOnError)
	routesUnmatched := routesCmd.Bool("unmatched", false, "Only print the card levels that have no route.")

	catalogCmd := flag.NewFlagSet("catalog", flag.ContinueOnError)
	catalogCategory := catalogCmd.String("category", "", "Only print this category.")

	leadsCmd := flag.NewFlagSet("leads", flag.ContinueOnError)
	leadsCourse := leadsCmd.Int("course", 0, "Only print the leads of this course id.")
	leadsEmail := leadsCmd.String("email", "", "Only print the leads of this email.")

	for _, cmd := range []*flag.FlagSet{routesCmd, catalogCmd, leadsCmd} {
		cmd.SetOutput(cli.out)
	}

	switch args[1] {
	case "routes":
		if err := routesCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.printRoutes(*routesUnmatched)
	case "catalog":
		if err := catalogCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.printCatalog(*catalogCategory)
	case "leads":
		if err := leadsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.printLeads(enrollment.LeadFilter{CourseID: *leadsCourse, Email: *leadsEmail})
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
