package commerce

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UncategorizedCategory is the bucket for products with no category or no product record
const UncategorizedCategory = "Uncategorized"

// Product is a sellable catalog item
type Product struct {
	shared.BaseEntity
	Name     string
	Category string
	Stock    int
}

// CategoryOrDefault returns the category used for breakdowns
func (p *Product) CategoryOrDefault() string {
	if p == nil || p.Category == "" {
		return UncategorizedCategory
	}
	return p.Category
}

// Catalog resolves product references to products
type Catalog map[uuid.UUID]*Product

// NewCatalog indexes products by ID
func NewCatalog(products []Product) Catalog {
	c := make(Catalog, len(products))
	for i := range products {
		c[products[i].ID] = &products[i]
	}
	return c
}

// CategoryOf resolves the category of a product reference
func (c Catalog) CategoryOf(productID uuid.UUID) string {
	return c[productID].CategoryOrDefault()
}

// NameOf prefers the name recorded on the order line, then the catalog name
func (c Catalog) NameOf(productID uuid.UUID, recorded string) string {
	if recorded != "" {
		return recorded
	}
	if p, ok := c[productID]; ok && p.Name != "" {
		return p.Name
	}
	return "Unknown"
}

// Customer is a storefront account
type Customer struct {
	shared.BaseEntity
	Name  string
	Email string
}

// ExistedBefore reports whether the account was created before t
func (c *Customer) ExistedBefore(t time.Time) bool {
	return c.CreatedAt.Before(t)
}
