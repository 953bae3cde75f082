package pipeline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog decides which line items count as trays/platters for the
// "Trays/Gifts" column. It is configuration data: a YAML file can replace the
// built-in product list without a rebuild.
type Catalog struct {
	// Titles are exact product names (matched case-insensitively).
	Titles []string `yaml:"titles"`
	// Keywords are substrings that mark a title as a tray when no exact
	// match applies.
	Keywords []string `yaml:"keywords"`

	titleSet map[string]struct{}
	keywords []string
}

// Known products as of the last catalog review. Orders for anything newer
// fall through to the keyword match.
var defaultCatalog = Catalog{
	Titles: []string{
		"Cheesemonger's Choice Tray",
		"Classic Cheese & Charcuterie Tray",
		"Grazing Table",
		"Holiday Entertaining Platter",
		"Picnic Snack Pack",
		"Dessert & Fruit Platter",
	},
	Keywords: []string{"TRAY", "PLATTER", "GRAZING TABLE", "SNACK PACK"},
}

// DefaultCatalog returns the compiled-in tray catalog.
func DefaultCatalog() *Catalog {
	c := defaultCatalog
	c.index()
	return &c
}

// LoadCatalog reads a YAML catalog file. Fields left empty in the file fall
// back to the compiled-in defaults.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(c.Titles) == 0 {
		c.Titles = defaultCatalog.Titles
	}
	if len(c.Keywords) == 0 {
		c.Keywords = defaultCatalog.Keywords
	}
	c.index()
	return &c, nil
}

func (c *Catalog) index() {
	c.titleSet = make(map[string]struct{}, len(c.Titles))
	for _, t := range c.Titles {
		c.titleSet[strings.ToUpper(strings.TrimSpace(t))] = struct{}{}
	}
	c.keywords = make([]string, 0, len(c.Keywords))
	for _, k := range c.Keywords {
		c.keywords = append(c.keywords, strings.ToUpper(k))
	}
}

// IsTray classifies a line-item title: exact catalog match first, keyword
// substring second, add-on otherwise.
func (c *Catalog) IsTray(title string) bool {
	upper := strings.ToUpper(strings.TrimSpace(title))
	if _, ok := c.titleSet[upper]; ok {
		return true
	}
	for _, kw := range c.keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
