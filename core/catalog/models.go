package catalog

// Layout tells the menu how a module's levels are laid out.
type Layout string

const (
	LayoutCards   Layout = "cards"
	LayoutColumns Layout = "columns" // two columns of badges linking to Level.Path
)

// Category is a top-level course vertical (e.g. Full Stack).
type Category struct {
	ID      int      `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Icon    string   `yaml:"icon" json:"icon"`
	Color   string   `yaml:"color" json:"color"`
	BgColor string   `yaml:"bg_color" json:"bg_color"`
	Modules []Module `yaml:"modules" json:"modules"`
}

// Module is a named curriculum block within a Category.
type Module struct {
	ID         int     `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	Icon       string  `yaml:"icon" json:"icon"`
	Duration   string  `yaml:"duration" json:"duration"`
	Difficulty string  `yaml:"difficulty" json:"difficulty"`
	Layout     Layout  `yaml:"layout" json:"layout"`
	Levels     []Level `yaml:"levels" json:"levels"`
}

// Level is the smallest enrollable unit.
type Level struct {
	ID       int    `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Desc     string `yaml:"desc" json:"desc"`
	Duration string `yaml:"duration" json:"duration"`
	Projects int    `yaml:"projects" json:"projects"`
	Path     string `yaml:"path" json:"path,omitempty"`
}

func (m Module) UsesColumns() bool { return m.Layout == LayoutColumns }

func (c Category) clone() Category {
	mods := make([]Module, len(c.Modules))
	for i, m := range c.Modules {
		m.Levels = append([]Level(nil), m.Levels...)
		mods[i] = m
	}
	c.Modules = mods
	return c
}
