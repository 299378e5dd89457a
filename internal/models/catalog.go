package models

// VariantMetadata es la última metadata descriptiva conocida de una
// referencia de catálogo. Price y Stock son punteros: nil significa
// "desconocido", nunca cero
type VariantMetadata struct {
	Ref      string   `json:"ref"`
	Name     string   `json:"name,omitempty"`
	SKU      string   `json:"sku,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
	IsActive bool     `json:"isActive"`
}

// Product es el detalle de producto del catálogo externo, usado para
// enumerar variants. El catálogo es la única fuente de verdad de
// precios/stock; acá no se mutan nunca
type Product struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Variants []VariantMetadata `json:"variants"`
}

// CartItem es una línea de carrito hipotético para el preview
type CartItem struct {
	Ref      string `json:"ref" binding:"required"`
	Quantity int    `json:"quantity"`
}
