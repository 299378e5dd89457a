package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados posibles de un bundle
const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusPaused = "paused"
)

// Tipos de descuento soportados por las reglas
const (
	RuleTypePercentage  = "percentage"
	RuleTypeFixed       = "fixed"
	RuleTypeBundlePrice = "bundle_price"
)

// Component representa una entrada estructural del bundle: referencia de
// catálogo + cantidad requerida + grupo de matching
type Component struct {
	Ref      string `json:"ref" bson:"ref" binding:"required"`
	Quantity int    `json:"quantity" bson:"quantity"`
	Group    string `json:"group" bson:"group"`
}

// Tier representa un escalón de descuento por cantidad
type Tier struct {
	MinQty int     `json:"minQty" bson:"minQty"`
	Type   string  `json:"type" bson:"type"`
	Value  float64 `json:"value" bson:"value"`
}

// Eligibility define las condiciones mínimas para que el bundle aplique
type Eligibility struct {
	MustIncludeAllGroups bool `json:"mustIncludeAllGroups" bson:"mustIncludeAllGroups"`
	MinCartQty           int  `json:"minCartQty" bson:"minCartQty"`
}

// Limits acota cuántas veces puede aplicarse el descuento por orden
type Limits struct {
	MaxUsesPerOrder int `json:"maxUsesPerOrder" bson:"maxUsesPerOrder"`
}

// Rules es la regla de descuento normalizada del bundle. Tiers solo se
// persiste para ofertas de cantidad; type/value espejan el primer tier
// para consumidores de regla única
type Rules struct {
	Type        string      `json:"type" bson:"type"`
	Value       float64     `json:"value" bson:"value"`
	Tiers       []Tier      `json:"tiers,omitempty" bson:"tiers,omitempty"`
	Eligibility Eligibility `json:"eligibility" bson:"eligibility"`
	Limits      Limits      `json:"limits" bson:"limits"`
}

// Presentation es metadata opcional de display; los campos vacíos se omiten
// del documento persistido
type Presentation struct {
	CoverRef    string `json:"coverRef,omitempty" bson:"coverRef,omitempty"`
	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	CTA         string `json:"cta,omitempty" bson:"cta,omitempty"`
	BannerColor string `json:"bannerColor,omitempty" bson:"bannerColor,omitempty"`
	BadgeColor  string `json:"badgeColor,omitempty" bson:"badgeColor,omitempty"`
}

// BundleDraft es la forma canónica persistible de un bundle
type BundleDraft struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Version      int                `json:"version" bson:"version"`
	Name         string             `json:"name" bson:"name"`
	Status       string             `json:"status" bson:"status"`
	Components   []Component        `json:"components" bson:"components"`
	Rules        Rules              `json:"rules" bson:"rules"`
	Presentation Presentation       `json:"presentation" bson:"presentation"`
	IsDeleted    bool               `json:"-" bson:"is_deleted"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at"`
}

// BundleUpdate representa los campos actualizables de un bundle
type BundleUpdate struct {
	Name         *string       `json:"name,omitempty"`
	Status       *string       `json:"status,omitempty"`
	Components   []Component   `json:"components,omitempty"`
	Rules        *Rules        `json:"rules,omitempty"`
	Presentation *Presentation `json:"presentation,omitempty"`
}

// ValidStatus indica si el estado es uno de los estados conocidos
func ValidStatus(status string) bool {
	return status == StatusDraft || status == StatusActive || status == StatusPaused
}
