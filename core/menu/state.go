// Package menu implements the courses dropdown: a two-pane mega-menu whose level cards either
// navigate to a page or open a sub-modal listing sub-tracks.
//
// State is a plain value. Transitions that need the catalog or the route table go through a
// Dropdown, which holds both and is safe for concurrent use.
package menu

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
)

var (
	ErrNoCategory   = errors.New("no category selected")
	ErrNoModal      = errors.New("no sub-modal is open")
	ErrOutOfRange   = errors.New("index out of range")
	ErrInvalidState = errors.New("invalid menu state")
)

// State is the per-visitor selection state of the dropdown.
type State struct {
	Open             bool   `json:"open"`
	SelectedCategory string `json:"selected_category,omitempty"`
	ExpandedModule   *int   `json:"expanded_module,omitempty"`
	HoveredLevel     string `json:"hovered_level,omitempty"` // "<module>-<level>"
	ActiveModal      Modal  `json:"active_modal,omitempty"`
}

// Store persists dropdown states between requests. Load returns the zero State for unknown visitors.
type Store interface {
	Load(ctx context.Context, visitorID string) (State, error)
	Save(ctx context.Context, visitorID string, st State) error
}

// Outcome is the result of a click on a level or a sub-modal track.
type Outcome struct {
	Kind  Kind     `json:"kind"`
	Path  string   `json:"path,omitempty"`
	Modal Modal    `json:"modal,omitempty"`
	Key   RouteKey `json:"-"`
}

func (st *State) OpenPanel()  { st.Open = true }
func (st *State) ClosePanel() { st.Open = false }

// Dismiss handles a click outside the dropdown. The sub-modal is a separate overlay and stays open.
func (st *State) Dismiss() {
	st.Open = false
	st.SelectedCategory = ""
	st.ExpandedModule = nil
	st.HoveredLevel = ""
}

func (st *State) ClearHover() { st.HoveredLevel = "" }

func (st *State) CloseModal() { st.ActiveModal = ModalNone }

func (st *State) reset() { *st = State{} }

// IsExpanded reports whether module `i` is the expanded one.
func (st State) IsExpanded(i int) bool {
	return st.ExpandedModule != nil && *st.ExpandedModule == i
}

func (st State) IsHovered(module, level int) bool {
	return st.HoveredLevel != "" && st.HoveredLevel == hoverKey(module, level)
}

func hoverKey(module, level int) string {
	return fmt.Sprintf("%d-%d", module, level)
}

// Dropdown applies the catalog-aware transitions.
type Dropdown struct {
	catalog *catalog.Catalog
	routes  Table
}

func NewDropdown(cat *catalog.Catalog, routes Table) *Dropdown {
	return &Dropdown{catalog: cat, routes: routes}
}

func (d *Dropdown) Catalog() *catalog.Catalog { return d.catalog }
func (d *Dropdown) Routes() Table             { return d.routes }

// SelectCategory shows the modules of the named category and collapses any expanded module.
func (d *Dropdown) SelectCategory(st *State, name string) error {
	cat, err := d.catalog.Category(name)
	if err != nil {
		return err
	}
	st.SelectedCategory = cat.Name
	st.ExpandedModule = nil
	st.HoveredLevel = ""
	return nil
}

// ToggleModule expands module `i` of the selected category, or collapses it when already expanded.
func (d *Dropdown) ToggleModule(st *State, i int) error {
	cat, err := d.selected(*st)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(cat.Modules) {
		return errors.Wrapf(ErrOutOfRange, "module %d of %q", i, cat.Name)
	}
	if st.IsExpanded(i) {
		st.ExpandedModule = nil
	} else {
		st.ExpandedModule = &i
	}
	st.HoveredLevel = ""
	return nil
}

// HoverLevel highlights level `level` of module `module` of the selected category.
func (d *Dropdown) HoverLevel(st *State, module, level int) error {
	if st.SelectedCategory == "" {
		return ErrNoCategory
	}
	if _, _, err := d.catalog.Level(st.SelectedCategory, module, level); err != nil {
		return errors.Wrap(ErrOutOfRange, err.Error())
	}
	st.HoveredLevel = hoverKey(module, level)
	return nil
}

// ClickLevel dispatches a click on level `level` of module `module` of the selected category.
// A navigation resets the state, a sub-modal becomes the active one, and a level that has no
// route leaves the state untouched and yields KindNone.
func (d *Dropdown) ClickLevel(st *State, module, level int) (Outcome, error) {
	if st.SelectedCategory == "" {
		return Outcome{}, ErrNoCategory
	}
	mod, lvl, err := d.catalog.Level(st.SelectedCategory, module, level)
	if err != nil {
		return Outcome{}, errors.Wrap(ErrOutOfRange, err.Error())
	}
	key := RouteKey{Category: st.SelectedCategory, Module: mod.Name, Level: lvl.Title}

	act, ok := d.action(mod, lvl, key)
	if !ok {
		return Outcome{Kind: KindNone, Key: key}, nil
	}
	switch act.Kind {
	case KindNavigate:
		st.reset()
		return Outcome{Kind: KindNavigate, Path: act.Path, Key: key}, nil
	case KindSubModal:
		st.ActiveModal = act.Modal
		return Outcome{Kind: KindSubModal, Modal: act.Modal, Key: key}, nil
	}
	return Outcome{Kind: KindNone, Key: key}, nil
}

// ClickTrack navigates to track `i` of the active sub-modal.
func (d *Dropdown) ClickTrack(st *State, i int) (Outcome, error) {
	if st.ActiveModal == ModalNone {
		return Outcome{}, ErrNoModal
	}
	sm, err := SubModalFor(st.ActiveModal)
	if err != nil {
		return Outcome{}, err
	}
	if i < 0 || i >= len(sm.Tracks) {
		return Outcome{}, errors.Wrapf(ErrOutOfRange, "track %d of %q", i, sm.ID)
	}
	st.reset()
	return Outcome{Kind: KindNavigate, Path: sm.Tracks[i].Path}, nil
}

// ActionFor returns what clicking `lvl` of `mod` in category `category` would do.
func (d *Dropdown) ActionFor(category string, mod catalog.Module, lvl catalog.Level) (Action, bool) {
	return d.action(mod, lvl, RouteKey{Category: category, Module: mod.Name, Level: lvl.Title})
}

func (d *Dropdown) action(mod catalog.Module, lvl catalog.Level, key RouteKey) (Action, bool) {
	if mod.UsesColumns() {
		return Navigate(lvl.Path), true
	}
	return d.routes.Lookup(key)
}

// Validate checks that a state loaded from a store still fits the catalog.
func (d *Dropdown) Validate(st State) error {
	if !st.ActiveModal.Valid() {
		return errors.Wrapf(ErrInvalidState, "modal %q", st.ActiveModal)
	}
	if st.SelectedCategory == "" {
		if st.ExpandedModule != nil {
			return errors.Wrap(ErrInvalidState, "expanded module without category")
		}
		return nil
	}
	cat, err := d.catalog.Category(st.SelectedCategory)
	if err != nil {
		return errors.Wrap(ErrInvalidState, err.Error())
	}
	if st.ExpandedModule != nil && (*st.ExpandedModule < 0 || *st.ExpandedModule >= len(cat.Modules)) {
		return errors.Wrapf(ErrInvalidState, "module %d of %q", *st.ExpandedModule, cat.Name)
	}
	return nil
}

func (d *Dropdown) selected(st State) (catalog.Category, error) {
	if st.SelectedCategory == "" {
		return catalog.Category{}, ErrNoCategory
	}
	return d.catalog.Category(st.SelectedCategory)
}
