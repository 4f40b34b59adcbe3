package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/Diva-jaw/Frontend--sub001/core"
	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
	"github.com/Diva-jaw/Frontend--sub001/core/menu"
)

// printRoutes prints the dispatch table sorted by level, or the card levels it does not reach.
func (cli *commandLine) printRoutes(unmatched bool) error {
	if unmatched {
		for _, ref := range cli.routes.Unrouted(cli.catalog) {
			fmt.Fprintln(cli.out, ref)
		}
		return nil
	}

	keys := make([]menu.RouteKey, 0, len(cli.routes))
	for k := range cli.routes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		act := cli.routes[k]
		target := act.Path
		if act.Kind == menu.KindSubModal {
			target = string(act.Modal)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", k, act.Kind, target)
	}
	return w.Flush()
}

func (cli *commandLine) printCatalog(category string) error {
	cats := cli.catalog.Categories()
	if category != "" {
		cat, err := cli.catalog.Category(category)
		if err != nil {
			if suggestions := cli.catalog.Suggest(category); len(suggestions) > 0 {
				return fmt.Errorf("category %q not found, did you mean %q?", category, suggestions[0])
			}
			return fmt.Errorf("category %q not found", category)
		}
		cats = []catalog.Category{cat}
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, cat := range cats {
		fmt.Fprintf(w, "%d\t%s\n", cat.ID, cat.Name)
		for _, mod := range cat.Modules {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", mod.ID, mod.Name, mod.Duration, mod.Layout)
			for _, lvl := range mod.Levels {
				fmt.Fprintf(w, "    %d\t%s\t%s\t%d projects\n", lvl.ID, lvl.Title, lvl.Duration, lvl.Projects)
			}
		}
	}
	return w.Flush()
}

func (cli *commandLine) printLeads(filter enrollment.LeadFilter) error {
	filter.Email = core.CleanString(filter.Email, true /* lower */)
	leads, err := cli.leads.QueryLeads(context.Background(), filter, core.DBOrdering{Field: "created_at"})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, l := range leads {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.CreatedAt.Format("2006-01-02 15:04"), l.Email, l.Name, l.CourseName, l.LevelName, l.PhoneNo)
	}
	fmt.Fprintf(w, "%d lead(s)\n", len(leads))
	return w.Flush()
}
