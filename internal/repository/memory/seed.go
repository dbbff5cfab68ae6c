package memory

import (
	"github.com/shopspring/decimal"

	"github.com/alfonso816/Tienda/internal/domain"
)

// DemoCatalog is the sample storefront loaded by the memory backend.
func DemoCatalog() ([]domain.Category, []*domain.Product) {
	categories := []domain.Category{
		{ID: "vestidos", Name: "Vestidos", Description: "Para cada ocasión", Color: "#e91e63", Order: 1},
		{ID: "blusas", Name: "Blusas", Description: "Frescas y cómodas", Color: "#9c27b0", Order: 2},
		{ID: "accesorios", Name: "Accesorios", Description: "El toque final", Color: "#ff9800", Order: 3},
	}
	products := []*domain.Product{
		{ID: "vestido-floral", CategoryID: "vestidos", Name: "Vestido Floral", Description: "Midi con estampado floral",
			Price: decimal.NewFromInt(45000), MediaType: domain.MediaImage, Sizes: []string{"S", "M", "L", "XL"}},
		{ID: "vestido-noche", CategoryID: "vestidos", Name: "Vestido de Noche", Description: "Largo en satín",
			Price: decimal.NewFromInt(89900), MediaType: domain.MediaImage, Sizes: []string{"M", "L", "XL", "2XL"}},
		{ID: "blusa-lino", CategoryID: "blusas", Name: "Blusa de Lino", Description: "Manga tres cuartos",
			Price: decimal.NewFromInt(32000), MediaType: domain.MediaImage, Sizes: []string{"S", "M", "L"}},
		{ID: "bolso-tejido", CategoryID: "accesorios", Name: "Bolso Tejido", Description: "Hecho a mano",
			Price: decimal.NewFromInt(28500), MediaType: domain.MediaImage},
	}
	return categories, products
}
