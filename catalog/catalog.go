// Package catalog holds the storefront's static product and category data
// and the read-only queries the views run against it.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"freshcart/models"
	"freshcart/schemas"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

// DefaultWeight is the option value that keeps the base price and label.
const DefaultWeight = "default"

var (
	ErrNotFound      = errors.New("product not found")
	ErrUnknownWeight = errors.New("unknown weight option")
)

type document struct {
	StandardWeightOptions []models.WeightOption `yaml:"standardWeightOptions"`
	Categories            []models.Category     `yaml:"categories"`
	Products              []models.Product      `yaml:"products"`
}

// Catalog is immutable after Load; it is safe for concurrent readers.
type Catalog struct {
	products   []models.Product
	categories []models.Category
	byID       map[string]int
}

// Load parses the embedded catalog.
func Load(logger *zap.Logger) (*Catalog, error) {
	return Parse(catalogYAML, logger)
}

// Parse builds a catalog from a YAML document. Records that fail validation
// are logged and skipped rather than failing the whole load.
func Parse(data []byte, logger *zap.Logger) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]int)}
	for _, cat := range doc.Categories {
		if err := schemas.Category(cat); err != nil {
			logger.Warn("skipping category", zap.String("id", cat.ID), zap.Error(err))
			continue
		}
		c.categories = append(c.categories, cat)
	}

	for _, p := range doc.Products {
		if len(p.WeightOptions) == 0 && len(doc.StandardWeightOptions) > 0 {
			p.WeightOptions = append([]models.WeightOption(nil), doc.StandardWeightOptions...)
		}
		if err := schemas.Product(p); err != nil {
			logger.Warn("skipping product", zap.String("id", p.ID), zap.Error(err))
			continue
		}
		if _, dup := c.byID[p.ID]; dup {
			logger.Warn("skipping duplicate product", zap.String("id", p.ID))
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	logger.Info("catalog loaded",
		zap.Int("products", len(c.products)),
		zap.Int("categories", len(c.categories)))
	return c, nil
}

func (c *Catalog) filter(keep func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) Products() []models.Product {
	return c.filter(func(models.Product) bool { return true })
}

func (c *Catalog) Categories() []models.Category {
	return append([]models.Category{}, c.categories...)
}

func (c *Catalog) Featured() []models.Product {
	return c.filter(func(p models.Product) bool { return p.IsFeatured })
}

func (c *Catalog) New() []models.Product {
	return c.filter(func(p models.Product) bool { return p.IsNew })
}

func (c *Catalog) Discounted() []models.Product {
	return c.filter(func(p models.Product) bool { return p.Discount > 0 })
}

func (c *Catalog) ByCategory(id string) []models.Product {
	return c.filter(func(p models.Product) bool { return p.Category == id })
}

func (c *Catalog) ByID(id string) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Category(id string) (models.Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return models.Category{}, false
}

// Search matches name or description, case-insensitively.
func (c *Catalog) Search(query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Products()
	}
	return c.filter(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	})
}

// Related returns up to n other products from the same category.
func (c *Catalog) Related(id string, n int) []models.Product {
	p, ok := c.ByID(id)
	if !ok {
		return []models.Product{}
	}
	out := c.filter(func(o models.Product) bool { return o.Category == p.Category && o.ID != p.ID })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// WithWeight returns the product snapshot for a weight variant. The price is
// scaled by the option's modifier without rounding and SelectedWeight carries
// its label. An empty value or the default option returns the base product.
func WithWeight(p models.Product, value string) (models.Product, error) {
	if value == "" || value == DefaultWeight {
		p.SelectedWeight = ""
		return p, nil
	}
	for _, opt := range p.WeightOptions {
		if opt.Value != value {
			continue
		}
		if opt.Value == DefaultWeight {
			return p, nil
		}
		p.Price = p.Price * (1 + opt.PriceModifier)
		p.SelectedWeight = opt.Label
		return p, nil
	}
	return p, fmt.Errorf("%w %q for %s", ErrUnknownWeight, value, p.ID)
}
