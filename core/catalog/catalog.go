// Package catalog loads the course catalog: categories, their modules and the modules' levels.
// A Catalog is read-only once loaded and safe for concurrent use.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

var (
	ErrNotFound = errors.New("not found in catalog")

	suggestMinRatio = .6
	suggestMax      = 3
)

type Catalog struct {
	categories []Category
	byName     map[string]int // lowered name -> index
	byID       map[int]int
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// Load parses and validates a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding catalog")
	}

	cat := &Catalog{
		categories: doc.Categories,
		byName:     make(map[string]int, len(doc.Categories)),
		byID:       make(map[int]int, len(doc.Categories)),
	}
	if err := cat.index(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) index() error {
	if len(c.categories) == 0 {
		return errors.New("catalog has no categories")
	}
	moduleIDs := make(map[int]bool)
	levelIDs := make(map[int]bool)

	for i, cat := range c.categories {
		if cat.Name == "" {
			return errors.Errorf("category #%d: name is required", i)
		}
		key := strings.ToLower(cat.Name)
		if _, dup := c.byName[key]; dup {
			return errors.Errorf("category %q: duplicate name", cat.Name)
		}
		if _, dup := c.byID[cat.ID]; dup {
			return errors.Errorf("category %q: duplicate id %d", cat.Name, cat.ID)
		}
		c.byName[key] = i
		c.byID[cat.ID] = i

		for j := range c.categories[i].Modules {
			mod := &c.categories[i].Modules[j]
			if mod.Name == "" {
				return errors.Errorf("category %q: module name is required", cat.Name)
			}
			if moduleIDs[mod.ID] {
				return errors.Errorf("module %q: duplicate id %d", mod.Name, mod.ID)
			}
			moduleIDs[mod.ID] = true

			switch mod.Layout {
			case LayoutCards, LayoutColumns:
			case "":
				mod.Layout = LayoutCards
			default:
				return errors.Errorf("module %q: unknown layout %q", mod.Name, mod.Layout)
			}

			for _, lvl := range mod.Levels {
				if lvl.Title == "" {
					return errors.Errorf("module %q: level title is required", mod.Name)
				}
				if levelIDs[lvl.ID] {
					return errors.Errorf("level %q of %q: duplicate id %d", lvl.Title, mod.Name, lvl.ID)
				}
				levelIDs[lvl.ID] = true
				if mod.Layout == LayoutColumns && lvl.Path == "" {
					return errors.Errorf("level %q of %q: path is required for column layouts", lvl.Title, mod.Name)
				}
			}
		}
	}
	return nil
}

// Categories returns every category, in catalog order.
func (c *Catalog) Categories() []Category {
	res := make([]Category, 0, len(c.categories))
	for _, cat := range c.categories {
		res = append(res, cat.clone())
	}
	return res
}

// Names returns the category names, in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		names = append(names, cat.Name)
	}
	return names
}

// Category finds a category by name (case-insensitive).
func (c *Catalog) Category(name string) (Category, error) {
	if i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c.categories[i].clone(), nil
	}
	return Category{}, errors.Wrapf(ErrNotFound, "category %q", name)
}

func (c *Catalog) CategoryByID(id int) (Category, error) {
	if i, ok := c.byID[id]; ok {
		return c.categories[i].clone(), nil
	}
	return Category{}, errors.Wrapf(ErrNotFound, "category #%d", id)
}

// Module returns the module at `index` of the named category.
func (c *Catalog) Module(category string, index int) (Module, error) {
	cat, err := c.Category(category)
	if err != nil {
		return Module{}, err
	}
	if index < 0 || index >= len(cat.Modules) {
		return Module{}, errors.Wrapf(ErrNotFound, "module %d of %q", index, cat.Name)
	}
	return cat.Modules[index], nil
}

// Level returns the level at `levelIndex` of the module at `moduleIndex` of the named category.
func (c *Catalog) Level(category string, moduleIndex, levelIndex int) (Module, Level, error) {
	mod, err := c.Module(category, moduleIndex)
	if err != nil {
		return Module{}, Level{}, err
	}
	if levelIndex < 0 || levelIndex >= len(mod.Levels) {
		return Module{}, Level{}, errors.Wrapf(ErrNotFound, "level %d of %q", levelIndex, mod.Name)
	}
	return mod, mod.Levels[levelIndex], nil
}

// Resolve finds the (category, module, level) triple behind enrollment ids.
func (c *Catalog) Resolve(courseID, moduleID, levelID int) (Category, Module, Level, error) {
	cat, err := c.CategoryByID(courseID)
	if err != nil {
		return Category{}, Module{}, Level{}, err
	}
	for _, mod := range cat.Modules {
		if mod.ID != moduleID {
			continue
		}
		for _, lvl := range mod.Levels {
			if lvl.ID == levelID {
				return cat, mod, lvl, nil
			}
		}
		return Category{}, Module{}, Level{}, errors.Wrapf(ErrNotFound, "level #%d of %q", levelID, mod.Name)
	}
	return Category{}, Module{}, Level{}, errors.Wrapf(ErrNotFound, "module #%d of %q", moduleID, cat.Name)
}

// Suggest returns up to 3 category names close to `name`, best match first.
func (c *Catalog) Suggest(name string) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}

	type match struct {
		name  string
		ratio float64
	}
	matches := make([]match, 0, len(c.categories))
	for _, cat := range c.categories {
		m := difflib.NewMatcher(strings.Split(name, ""), strings.Split(strings.ToLower(cat.Name), ""))
		if m.QuickRatio() < suggestMinRatio {
			continue
		}
		if r := m.Ratio(); r >= suggestMinRatio {
			matches = append(matches, match{name: cat.Name, ratio: r})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	res := make([]string, 0, suggestMax)
	for i := 0; i < len(matches) && i < suggestMax; i++ {
		res = append(res, matches[i].name)
	}
	return res
}

// LevelRef identifies a level by names, the way the menu sees it.
type LevelRef struct {
	Category string
	Module   string
	Level    string
}

func (r LevelRef) String() string {
	return fmt.Sprintf("%s / %s / %s", r.Category, r.Module, r.Level)
}

// Walk calls fn for every level of the catalog, in order.
func (c *Catalog) Walk(fn func(ref LevelRef, mod Module, lvl Level)) {
	for _, cat := range c.categories {
		for _, mod := range cat.Modules {
			for _, lvl := range mod.Levels {
				fn(LevelRef{Category: cat.Name, Module: mod.Name, Level: lvl.Title}, mod, lvl)
			}
		}
	}
}
