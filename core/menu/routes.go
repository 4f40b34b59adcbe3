package menu

import "github.com/Diva-jaw/Frontend--sub001/core/catalog"

// Kind tags what a level click does.
type Kind string

const (
	KindNone     Kind = "none"
	KindNavigate Kind = "navigate"
	KindSubModal Kind = "open-sub-modal"
)

// RouteKey is the (category, module, level) triple a level click is matched on.
type RouteKey = catalog.LevelRef

// Action is what happens when a level is clicked: either a navigation or a sub-modal.
type Action struct {
	Kind  Kind   `json:"kind"`
	Path  string `json:"path,omitempty"`
	Modal Modal  `json:"modal,omitempty"`
}

func Navigate(path string) Action { return Action{Kind: KindNavigate, Path: path} }
func OpenModal(m Modal) Action    { return Action{Kind: KindSubModal, Modal: m} }

// Table maps a level to its action. Levels missing from the table are inert.
type Table map[RouteKey]Action

func (t Table) Lookup(key RouteKey) (Action, bool) {
	act, ok := t[key]
	return act, ok
}

func key(category, module, level string) RouteKey {
	return RouteKey{Category: category, Module: module, Level: level}
}

// DefaultRoutes is the dispatch table of the courses menu.
// Levels of column-layout modules navigate through their own Level.Path and are not listed here.
func DefaultRoutes() Table {
	const (
		fullStack = "Full Stack"
		marketing = "Marketing"
		design    = "Design"
		product   = "Product Management"
	)
	return Table{
		key(fullStack, "Web Development", "Beginner"):     OpenModal(ModalWebDev),
		key(fullStack, "Web Development", "Intermediate"): OpenModal(ModalWebDev),
		key(fullStack, "Web Development", "Expert"):       OpenModal(ModalWebDevExpert),
		key(fullStack, "App Development", "Beginner"):     OpenModal(ModalAppDev),
		key(fullStack, "App Development", "Intermediate"): OpenModal(ModalAppDev),
		key(fullStack, "App Development", "Expert"):       OpenModal(ModalAppDevExpert),

		key(fullStack, "Backend Development", "Node.js"):          Navigate("/nodejs-details"),
		key(fullStack, "Backend Development", "Java Spring Boot"): Navigate("/springboot-details"),
		key(fullStack, "Backend Development", "Python Django"):    Navigate("/django-details"),

		key(marketing, "Digital Marketing", "Level 1"): Navigate("/digital-marketing-level-1"),
		key(marketing, "Digital Marketing", "Level 2"): Navigate("/digital-marketing-level-2"),
		key(marketing, "Digital Marketing", "Level 3"): Navigate("/digital-marketing-level-3"),

		key(design, "UI/UX Design", "Level 1"):   Navigate("/ui-ux-design-level-1"),
		key(design, "UI/UX Design", "Level 2"):   Navigate("/ui-ux-design-level-2"),
		key(design, "Graphic Design", "Level 1"): Navigate("/graphic-design-level-1"),

		key(product, "Product Management", "Level 1"): Navigate("/product-management-level-1"),
		key(product, "Product Management", "Level 2"): Navigate("/product-management-level-2"),
	}
}

// Unrouted returns the card-layout levels of `cat` that no route in `t` reaches.
func (t Table) Unrouted(cat *catalog.Catalog) []RouteKey {
	var res []RouteKey
	cat.Walk(func(ref catalog.LevelRef, mod catalog.Module, _ catalog.Level) {
		if mod.UsesColumns() {
			return
		}
		if _, ok := t[ref]; !ok {
			res = append(res, ref)
		}
	})
	return res
}
