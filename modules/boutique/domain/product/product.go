package product

import (
	"context"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = gerrors.New("product not found")

type Category string

const (
	CategoryApparel     Category = "apparel"
	CategoryAccessories Category = "accessories"
	CategoryDrinkware   Category = "drinkware"
	CategoryOther       Category = "other"
)

// ParseCategory is deliberately lenient: unknown or blank values fall back to
// CategoryOther instead of rejecting the row.
func ParseCategory(v string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(v))) {
	case CategoryApparel:
		return CategoryApparel
	case CategoryAccessories:
		return CategoryAccessories
	case CategoryDrinkware:
		return CategoryDrinkware
	default:
		return CategoryOther
	}
}

// CategoryFromProductType maps a storefront export's free-text product type
// onto a category by keyword.
func CategoryFromProductType(v string) Category {
	t := strings.ToLower(v)
	switch {
	case containsAny(t, "shirt", "tee", "hoodie", "jacket", "apparel", "sweat"):
		return CategoryApparel
	case containsAny(t, "mug", "cup", "bottle", "tumbler", "drink"):
		return CategoryDrinkware
	case containsAny(t, "hat", "cap", "bag", "pin", "lanyard", "accessor"):
		return CategoryAccessories
	default:
		return CategoryOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    Category
	Price       decimal.Decimal
	Inventory   int
	// Sizes and Colors are comma-separated lists (e.g. "S,M,L").
	Sizes  string
	Colors string
	// ImagePath is the stored image location, empty when resolution failed
	// or no image was supplied.
	ImagePath string
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	GetByName(ctx context.Context, name string) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreatedEvent is published after a product is persisted by an import run.
type CreatedEvent struct {
	Product *Product
}
