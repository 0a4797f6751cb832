package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// document is the shape of one content file. Any section may be omitted.
type document struct {
	Archetypes []*ArchetypeDef `yaml:"archetypes"`
	Weapons    []*WeaponDef    `yaml:"weapons"`
	Items      []*ItemDef      `yaml:"items"`
	Skills     []*SkillDef     `yaml:"skills"`
}

// Catalogue holds every content definition, indexed by ID.
//
// Items and Skills preserve file order: item order is the loot tie-break
// order, skill order is the menu order.
type Catalogue struct {
	archetypes map[string]*ArchetypeDef
	weapons    map[string]*WeaponDef
	items      []*ItemDef
	skills     []*SkillDef
}

func newCatalogue() *Catalogue {
	return &Catalogue{
		archetypes: make(map[string]*ArchetypeDef),
		weapons:    make(map[string]*WeaponDef),
	}
}

// Archetype returns the archetype with id.
func (c *Catalogue) Archetype(id string) (*ArchetypeDef, bool) {
	a, ok := c.archetypes[id]
	return a, ok
}

// Weapon returns the weapon with id.
func (c *Catalogue) Weapon(id string) (*WeaponDef, bool) {
	w, ok := c.weapons[id]
	return w, ok
}

// Skill returns the skill with id.
func (c *Catalogue) Skill(id string) (*SkillDef, bool) {
	for _, s := range c.skills {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Item returns the item with id.
func (c *Catalogue) Item(id string) (*ItemDef, bool) {
	for _, i := range c.items {
		if i.ID == id {
			return i, true
		}
	}
	return nil, false
}

// WeaponIDs returns every weapon ID, sorted.
func (c *Catalogue) WeaponIDs() []string {
	ids := make([]string, 0, len(c.weapons))
	for id := range c.weapons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Items returns items in loot order.
func (c *Catalogue) Items() []*ItemDef { return c.items }

// Skills returns skills in menu order.
func (c *Catalogue) Skills() []*SkillDef { return c.skills }

// SpawnPool returns the IDs of non-boss archetypes, sorted.
func (c *Catalogue) SpawnPool() []string {
	var ids []string
	for id, a := range c.archetypes {
		if !a.IsBoss() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Boss returns the boss archetype, if one is defined. With several, the
// lowest ID wins.
func (c *Catalogue) Boss() (*ArchetypeDef, bool) {
	var ids []string
	for id, a := range c.archetypes {
		if a.IsBoss() {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, false
	}
	sort.Strings(ids)
	return c.archetypes[ids[0]], true
}

// merge overlays doc onto c. Definitions with an existing ID replace it in
// place so ordered lists keep their position.
func (c *Catalogue) merge(doc *document) {
	for _, a := range doc.Archetypes {
		c.archetypes[a.ID] = a
	}
	for _, w := range doc.Weapons {
		c.weapons[w.ID] = w
	}
	for _, it := range doc.Items {
		replaced := false
		for i, existing := range c.items {
			if existing.ID == it.ID {
				c.items[i] = it
				replaced = true
				break
			}
		}
		if !replaced {
			c.items = append(c.items, it)
		}
	}
	for _, sk := range doc.Skills {
		replaced := false
		for i, existing := range c.skills {
			if existing.ID == sk.ID {
				c.skills[i] = sk
				replaced = true
				break
			}
		}
		if !replaced {
			c.skills = append(c.skills, sk)
		}
	}
}

// Validate checks every definition and the cross-references between them.
//
// Postcondition: returns nil iff every definition is valid, at least one
// spawnable archetype exists, and at least one weapon exists.
func (c *Catalogue) Validate() error {
	var errs []error
	for _, a := range c.archetypes {
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, w := range c.weapons {
		if err := w.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, i := range c.items {
		if err := i.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range c.skills {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(c.SpawnPool()) == 0 {
		errs = append(errs, errors.New("catalogue: at least one non-boss archetype is required"))
	}
	if len(c.weapons) == 0 {
		errs = append(errs, errors.New("catalogue: at least one weapon is required"))
	}
	return errors.Join(errs...)
}

// parseDocument decodes one content file.
func parseDocument(data []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing content YAML: %w", err)
	}
	return &doc, nil
}

// loadFS merges every *.yaml file under dir in fsys, in lexical order.
func (c *Catalogue) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.ToSlash(filepath.Join(dir, entry.Name()))
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		doc, err := parseDocument(data)
		if err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
		c.merge(doc)
	}
	return nil
}

// Default returns the embedded catalogue.
//
// Postcondition: the result is valid; a broken embedded catalogue panics.
func Default() *Catalogue {
	c := newCatalogue()
	if err := c.loadFS(defaultFS, "defaults"); err != nil {
		panic(fmt.Sprintf("content: embedded catalogue: %v", err))
	}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("content: embedded catalogue invalid: %v", err))
	}
	return c
}

// Load returns the embedded catalogue overlaid with every *.yaml file in dir.
// An empty dir returns the embedded catalogue unchanged.
//
// Postcondition: returns a validated catalogue, or an error on the first
// read or parse failure, or the collected validation failures.
func Load(dir string) (*Catalogue, error) {
	c := Default()
	if dir == "" {
		return c, nil
	}
	if err := c.loadFS(os.DirFS(dir), "."); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadBytes builds a catalogue from a single YAML document, without the
// embedded defaults.
func LoadBytes(data []byte) (*Catalogue, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	c := newCatalogue()
	c.merge(doc)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
