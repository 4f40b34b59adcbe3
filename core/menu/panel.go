package menu

import "github.com/Diva-jaw/Frontend--sub001/core/catalog"

// Tab is a category entry of the sidebar.
type Tab struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	BgColor  string `json:"bg_color"`
	Selected bool   `json:"selected"`
}

// Card is a clickable level of a card-layout module.
type Card struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Duration string `json:"duration"`
	Projects int    `json:"projects"`
	Hovered  bool   `json:"hovered"`
	Action   Kind   `json:"action"`
}

type PanelModule struct {
	Index      int            `json:"index"`
	Name       string         `json:"name"`
	Icon       string         `json:"icon"`
	Duration   string         `json:"duration"`
	Difficulty string         `json:"difficulty"`
	Layout     catalog.Layout `json:"layout"`
	Expanded   bool           `json:"expanded"`
	Left       []Badge        `json:"left,omitempty"`
	Right      []Badge        `json:"right,omitempty"`
	Cards      []Card         `json:"cards,omitempty"`
}

// Panel is the view model of the whole dropdown for one state.
type Panel struct {
	State    State         `json:"state"`
	Tabs     []Tab         `json:"tabs"`
	Category string        `json:"category,omitempty"`
	Modules  []PanelModule `json:"modules"`
	SubModal *SubModal     `json:"sub_modal,omitempty"`
}

// Panel builds the view model: every category tab, and the modules of the selected category only.
// Levels are listed for the expanded module, as columns or as cards depending on its layout.
func (d *Dropdown) Panel(st State) (Panel, error) {
	if err := d.Validate(st); err != nil {
		return Panel{}, err
	}
	p := Panel{State: st, Modules: []PanelModule{}}
	for _, cat := range d.catalog.Categories() {
		p.Tabs = append(p.Tabs, Tab{
			Name:     cat.Name,
			Icon:     cat.Icon,
			Color:    cat.Color,
			BgColor:  cat.BgColor,
			Selected: cat.Name == st.SelectedCategory,
		})
	}

	if st.ActiveModal != ModalNone {
		sm, err := SubModalFor(st.ActiveModal)
		if err != nil {
			return Panel{}, err
		}
		p.SubModal = &sm
	}

	if st.SelectedCategory == "" {
		return p, nil
	}
	cat, err := d.catalog.Category(st.SelectedCategory)
	if err != nil {
		return Panel{}, err
	}
	p.Category = cat.Name

	for i, mod := range cat.Modules {
		pm := PanelModule{
			Index:      i,
			Name:       mod.Name,
			Icon:       mod.Icon,
			Duration:   mod.Duration,
			Difficulty: mod.Difficulty,
			Layout:     mod.Layout,
			Expanded:   st.IsExpanded(i),
		}
		if pm.Expanded {
			if mod.UsesColumns() {
				pm.Left, pm.Right = Columns(mod.Levels)
			} else {
				pm.Cards = d.cards(cat.Name, i, mod, st)
			}
		}
		p.Modules = append(p.Modules, pm)
	}
	return p, nil
}

func (d *Dropdown) cards(category string, mi int, mod catalog.Module, st State) []Card {
	cards := make([]Card, 0, len(mod.Levels))
	for li, lvl := range mod.Levels {
		kind := KindNone
		if act, ok := d.ActionFor(category, mod, lvl); ok {
			kind = act.Kind
		}
		cards = append(cards, Card{
			Index:    li,
			Title:    lvl.Title,
			Desc:     lvl.Desc,
			Duration: lvl.Duration,
			Projects: lvl.Projects,
			Hovered:  st.IsHovered(mi, li),
			Action:   kind,
		})
	}
	return cards
}
