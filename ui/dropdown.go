// Package ui renders the courses dropdown and the enrollment modal as HTML.
// Interactive elements carry hx-* attributes pointing at the JSON api, so the markup can be driven by htmx.
package ui

import (
	"fmt"
	"net/url"
	"strconv"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
	"github.com/Diva-jaw/Frontend--sub001/core/menu"
)

const menuTarget = "#courses-dropdown"

func post(path string) g.Node {
	return g.Group{
		g.Attr("hx-post", path),
		g.Attr("hx-target", menuTarget),
		g.Attr("hx-swap", "outerHTML"),
	}
}

// Dropdown renders the whole mega menu for a panel. A closed panel only shows its trigger.
func Dropdown(p menu.Panel) g.Node {
	if !p.State.Open {
		return Nav(ID("courses-dropdown"), Class("courses-dropdown"),
			trigger(false),
		)
	}
	return Nav(ID("courses-dropdown"), Class("courses-dropdown open"),
		trigger(true),
		Div(Class("dropdown-panel"),
			g.Attr("hx-trigger", "mouseleave"),
			post("/v1/menu/dismiss"),
			Ul(Class("category-tabs"),
				g.Group(g.Map(p.Tabs, categoryTab)),
			),
			g.If(p.Category == "", P(Class("dropdown-hint"), g.Text("Select a category to browse its modules"))),
			g.If(p.Category != "", Div(Class("modules"),
				g.Attr("data-category", p.Category),
				g.Group(g.Map(p.Modules, module)),
			)),
		),
		g.Iff(p.SubModal != nil, func() g.Node { return SubModal(*p.SubModal) }),
	)
}

func trigger(open bool) g.Node {
	path := "/v1/menu/open"
	if open {
		path = "/v1/menu/close"
	}
	return Button(Type("button"), Class("dropdown-trigger"),
		g.Attr("aria-expanded", strconv.FormatBool(open)),
		post(path),
		g.Text("Courses"),
	)
}

func categoryTab(tab menu.Tab) g.Node {
	return Li(
		components.Classes{"category-tab": true, "selected": tab.Selected},
		g.Attr("style", fmt.Sprintf("--tab-color: %s; --tab-bg: %s", tab.Color, tab.BgColor)),
		Button(Type("button"),
			post("/v1/menu/categories/"+url.PathEscape(tab.Name)),
			Span(Class("iconify"), g.Attr("data-icon", tab.Icon)),
			g.Text(tab.Name),
		),
	)
}

func module(mod menu.PanelModule) g.Node {
	return Div(
		components.Classes{"module": true, "expanded": mod.Expanded},
		Button(Type("button"), Class("module-header"),
			g.Attr("aria-expanded", strconv.FormatBool(mod.Expanded)),
			post(fmt.Sprintf("/v1/menu/modules/%d/toggle", mod.Index)),
			Span(Class("iconify"), g.Attr("data-icon", mod.Icon)),
			Span(Class("module-name"), g.Text(mod.Name)),
			g.If(mod.Duration != "", Span(Class("module-duration"), g.Text(mod.Duration))),
			g.If(mod.Difficulty != "", Span(Class("module-difficulty"), g.Text(mod.Difficulty))),
		),
		g.If(mod.Expanded && mod.Layout == catalog.LayoutColumns, LevelColumns(mod.Left, mod.Right)),
		g.If(mod.Expanded && mod.Layout != catalog.LayoutColumns, Div(Class("level-cards"),
			g.Group(g.Map(mod.Cards, func(c menu.Card) g.Node { return levelCard(mod.Index, c) })),
		)),
	)
}

// LevelColumns renders badges in two columns; every badge links to its level's page.
func LevelColumns(left, right []menu.Badge) g.Node {
	col := func(badges []menu.Badge) g.Node {
		return Ul(Class("level-column"),
			g.Group(g.Map(badges, func(b menu.Badge) g.Node {
				return Li(A(Class("level-badge"), Href(b.Path), g.Text(b.Label)))
			})),
		)
	}
	return Div(Class("level-columns"), col(left), col(right))
}

func levelCard(mi int, c menu.Card) g.Node {
	base := fmt.Sprintf("/v1/menu/levels/%d/%d", mi, c.Index)
	return Div(
		components.Classes{
			"level-card":  true,
			"hovered":     c.Hovered,
			"unrouted":    c.Action == menu.KindNone,
			"opens-modal": c.Action == menu.KindSubModal,
		},
		g.Attr("hx-post", base+"/hover"),
		g.Attr("hx-trigger", "mouseenter"),
		g.Attr("hx-swap", "none"),
		Button(Type("button"),
			post(base+"/click"),
			H4(g.Text(c.Title)),
			g.If(c.Desc != "", P(Class("level-desc"), g.Text(c.Desc))),
			Div(Class("level-meta"),
				g.If(c.Duration != "", Span(g.Text(c.Duration))),
				g.If(c.Projects > 0, Span(g.Textf("%d projects", c.Projects))),
			),
		),
	)
}

// SubModal renders the track chooser opened from some level cards.
func SubModal(sm menu.SubModal) g.Node {
	return Div(Class("sub-modal"), g.Attr("role", "dialog"), g.Attr("data-modal", string(sm.ID)),
		Div(Class("sub-modal-header"),
			H3(g.Text(sm.Title)),
			Button(Type("button"), Class("close"),
				g.Attr("aria-label", "Close"),
				g.Attr("hx-delete", "/v1/menu/modal"),
				g.Attr("hx-target", menuTarget),
				g.Attr("hx-swap", "outerHTML"),
				g.Text("×"),
			),
		),
		Ul(Class("tracks"),
			g.Group(g.Map(sm.Tracks, func(tr menu.Track) g.Node {
				return Li(
					A(Href(tr.Path), Class("track"),
						Strong(g.Text(tr.Name)),
						g.If(tr.Desc != "", P(g.Text(tr.Desc))),
					),
				)
			})),
		),
	)
}
