// Package catalog is the static list of third-party tools a workspace can
// connect, loaded from an embedded YAML file.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category groups tools by their role in the go-to-market motion.
type Category string

const (
	CategoryProspecting Category = "prospecting"
	CategoryOutbound    Category = "outbound"
	CategoryCRM         Category = "crm"
	CategoryBilling     Category = "billing"
	CategoryImport      Category = "import"
)

// Tool is one catalog entry.
type Tool struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
	Aliases  []string `yaml:"aliases"`
}

// Catalog indexes tools by id and alias. It is immutable after Parse.
type Catalog struct {
	tools   []Tool
	byID    map[string]int
	aliases map[string]string
}

//go:embed tools.yaml
var embedded []byte

var defaultCatalog = mustParse(embedded)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	return defaultCatalog
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded tools.yaml: %v", err))
	}
	return c
}

// Parse reads a catalog document. Ids must be unique lower-case slugs.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Tools []Tool `yaml:"tools"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		tools:   make([]Tool, 0, len(doc.Tools)),
		byID:    make(map[string]int, len(doc.Tools)),
		aliases: make(map[string]string),
	}
	for _, t := range doc.Tools {
		id := strings.TrimSpace(t.ID)
		if id == "" || id != strings.ToLower(id) {
			return nil, fmt.Errorf("catalog tool id %q must be a lower-case slug", t.ID)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate catalog tool id %q", id)
		}
		t.ID = id
		c.byID[id] = len(c.tools)
		c.tools = append(c.tools, t)
		for _, a := range t.Aliases {
			c.aliases[canonicalKey(a)] = id
		}
	}
	return c, nil
}

// All returns every tool in declaration order.
func (c *Catalog) All() []Tool {
	out := make([]Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

// ByCategory returns the tools of one category in declaration order.
func (c *Catalog) ByCategory(cat Category) []Tool {
	var out []Tool
	for _, t := range c.tools {
		if t.Category == cat {
			out = append(out, t)
		}
	}
	return out
}

// Lookup finds a tool by id or alias, ignoring case and surrounding space.
func (c *Catalog) Lookup(provider string) (Tool, bool) {
	id, ok := c.Resolve(provider)
	if !ok {
		return Tool{}, false
	}
	return c.tools[c.byID[id]], true
}

// Resolve maps a provider spelling onto its catalog id.
func (c *Catalog) Resolve(provider string) (string, bool) {
	key := canonicalKey(provider)
	if key == "" {
		return "", false
	}
	if _, ok := c.byID[key]; ok {
		return key, true
	}
	if id, ok := c.aliases[key]; ok {
		return id, true
	}
	return "", false
}

func canonicalKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
