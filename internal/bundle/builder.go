package bundle

import (
	"strings"

	"bundle-admin/internal/models"
)

// Versión actual del documento de bundle
const draftVersion = 1

// Techo fijo de usos por orden, para acotar el stacking de descuentos
const maxUsesPerOrder = 50

// OfferKind distingue las formas de oferta soportadas
type OfferKind string

const (
	// OfferQuantity es una escalera de descuento por cantidad sobre una
	// referencia base
	OfferQuantity OfferKind = "quantity"
	// OfferBundle es un combo de base + addons, cada uno en su propio grupo
	OfferBundle OfferKind = "bundle"
)

// Addon es una referencia adicional de una oferta bundle
type Addon struct {
	Ref      string
	Quantity int
}

// Offer es la variante cerrada que describe la forma de la oferta; el
// builder hace un único match exhaustivo sobre Kind
type Offer struct {
	Kind    OfferKind
	Base    string
	BaseQty int           // solo bundle
	Tiers   []models.Tier // solo quantity
	Addons  []Addon       // solo bundle

	// Solo bundle: percentage | fixed | bundle_price
	DiscountType  string
	DiscountValue float64
}

// Hydrated es el estado de edición reconstruido desde un draft persistido
type Hydrated struct {
	Offer        Offer
	Name         string
	Presentation models.Presentation
}

// GroupFromRef sintetiza un nombre de grupo determinístico a partir de la
// referencia, de forma que cada componente quede en su propio grupo
func GroupFromRef(ref string) string {
	return truncateGroup("v:" + strings.TrimSpace(ref))
}

// DefaultName arma el nombre por defecto de un bundle a partir del nombre del
// producto ancla; vacío si el producto no tiene nombre
func DefaultName(productName string) string {
	n := strings.TrimSpace(productName)
	if n == "" {
		return ""
	}
	return "باقة - " + n
}

// TrimPresentation canonicaliza los campos de presentación
func TrimPresentation(p models.Presentation) models.Presentation {
	return models.Presentation{
		CoverRef:    strings.TrimSpace(p.CoverRef),
		Title:       strings.TrimSpace(p.Title),
		CTA:         strings.TrimSpace(p.CTA),
		BannerColor: strings.TrimSpace(p.BannerColor),
		BadgeColor:  strings.TrimSpace(p.BadgeColor),
	}
}

// Build arma el documento canónico y persistible a partir de la oferta, el
// nombre y la presentación. Es pura y determinística, y nunca falla: estado
// inválido o incompleto simplemente produce un draft con CanSubmit falso
func Build(offer Offer, name string, pres models.Presentation) models.BundleDraft {
	list := NewComponentList(nil)
	base := strings.TrimSpace(offer.Base)

	var rules models.Rules
	switch offer.Kind {
	case OfferBundle:
		if base != "" {
			list.Add(GroupFromRef(base), base)
			qty := float64(clampAddonQty(offer.BaseQty))
			list.UpdateAt(0, ComponentPatch{Quantity: &qty})
		}
		for _, a := range offer.Addons {
			ref := strings.TrimSpace(a.Ref)
			if ref == "" {
				continue
			}
			list.Add(GroupFromRef(ref), ref)
			qty := float64(clampAddonQty(a.Quantity))
			list.UpdateAt(list.Len()-1, ComponentPatch{Quantity: &qty})
		}
		rules = models.Rules{
			Type:  bundleDiscountType(offer.DiscountType),
			Value: offer.DiscountValue,
			Eligibility: models.Eligibility{
				MustIncludeAllGroups: true,
				MinCartQty:           requiredQty(list.Components()),
			},
			Limits: models.Limits{MaxUsesPerOrder: maxUsesPerOrder},
		}

	default: // OfferQuantity
		if base != "" {
			list.Add(GroupFromRef(base), base)
		}
		tiers := NormalizeTiers(offer.Tiers)
		if len(tiers) == 0 {
			tiers = []models.Tier{{MinQty: 1, Type: models.RuleTypePercentage, Value: 0}}
		}
		primary := tiers[0]
		rules = models.Rules{
			Type:  primary.Type,
			Value: primary.Value,
			Tiers: tiers,
			Eligibility: models.Eligibility{
				MustIncludeAllGroups: true,
				MinCartQty:           EffectiveMinQty(tiers),
			},
			Limits: models.Limits{MaxUsesPerOrder: maxUsesPerOrder},
		}
	}

	presentation := TrimPresentation(pres)
	presentation.CoverRef = base

	return models.BundleDraft{
		Version:      draftVersion,
		Name:         strings.TrimSpace(name),
		Status:       models.StatusDraft,
		Components:   list.Components(),
		Rules:        rules,
		Presentation: presentation,
	}
}

// CanSubmit decide la elegibilidad de submit. Se computa, nunca se guarda:
// hace falta producto ancla resuelto, nombre, al menos un componente, dos o
// más componentes para ofertas bundle, y una escalera completa y válida para
// ofertas de cantidad
func CanSubmit(productResolved bool, name string, offer Offer) bool {
	if !productResolved {
		return false
	}
	if strings.TrimSpace(name) == "" {
		return false
	}
	count := 0
	if strings.TrimSpace(offer.Base) != "" {
		count++
	}
	if offer.Kind == OfferBundle {
		for _, a := range offer.Addons {
			if strings.TrimSpace(a.Ref) != "" {
				count++
			}
		}
	}
	if count == 0 {
		return false
	}
	if offer.Kind == OfferBundle && count < 2 {
		return false
	}
	if offer.Kind != OfferBundle && !TiersFullyValid(offer.Tiers) {
		return false
	}
	return true
}

// Hydrate reconstruye el estado de edición desde un draft persistido. Es la
// inversa exacta de Build para cualquier draft que el builder haya producido:
// recupera el componente cover, separa el resto, y clasifica la oferta como
// bundle si queda más de un componente, o cantidad en caso contrario
func Hydrate(draft models.BundleDraft) Hydrated {
	comps := draft.Components
	cover := strings.TrimSpace(draft.Presentation.CoverRef)
	if cover == "" && len(comps) > 0 {
		cover = strings.TrimSpace(comps[0].Ref)
	}

	coverQty := 1
	for _, c := range comps {
		if strings.TrimSpace(c.Ref) == cover {
			coverQty = c.Quantity
			break
		}
	}

	var rest []models.Component
	if cover != "" {
		for _, c := range comps {
			if strings.TrimSpace(c.Ref) != cover {
				rest = append(rest, c)
			}
		}
	} else if len(comps) > 1 {
		rest = comps[1:]
	}

	presentation := TrimPresentation(draft.Presentation)
	presentation.CoverRef = cover

	offer := Offer{Base: cover}
	if len(rest) > 0 {
		offer.Kind = OfferBundle
		offer.BaseQty = clampAddonQty(coverQty)
		for _, c := range rest {
			offer.Addons = append(offer.Addons, Addon{
				Ref:      strings.TrimSpace(c.Ref),
				Quantity: clampAddonQty(c.Quantity),
			})
		}
		offer.DiscountType = bundleDiscountType(draft.Rules.Type)
		offer.DiscountValue = draft.Rules.Value
	} else {
		offer.Kind = OfferQuantity
		tiers := NormalizeTiers(draft.Rules.Tiers)
		if len(tiers) == 0 {
			typ := models.RuleTypePercentage
			if strings.TrimSpace(draft.Rules.Type) == models.RuleTypeFixed {
				typ = models.RuleTypeFixed
			}
			tiers = []models.Tier{{MinQty: clampTierQty(coverQty), Type: typ, Value: draft.Rules.Value}}
		}
		offer.Tiers = tiers
	}

	return Hydrated{
		Offer:        offer,
		Name:         strings.TrimSpace(draft.Name),
		Presentation: presentation,
	}
}

// Sanitize normaliza un draft recibido por la API sin alterar su semántica:
// respeta la estructura de grupos que haya autorado el cliente, pero aplica
// los clamps, la normalización de tiers y el recálculo de elegibilidad
func Sanitize(draft models.BundleDraft) models.BundleDraft {
	list := NewComponentList(nil)
	for _, c := range draft.Components {
		ref := strings.TrimSpace(c.Ref)
		if ref == "" {
			continue
		}
		group := strings.TrimSpace(c.Group)
		if group == "" {
			group = GroupFromRef(ref)
		}
		list.Add(group, ref)
		qty := float64(c.Quantity)
		list.UpdateAt(list.Len()-1, ComponentPatch{Quantity: &qty})
	}
	draft.Components = list.Components()

	if len(draft.Rules.Tiers) > 0 {
		tiers := NormalizeTiers(draft.Rules.Tiers)
		if len(tiers) == 0 {
			tiers = []models.Tier{{MinQty: 1, Type: models.RuleTypePercentage, Value: 0}}
		}
		draft.Rules.Tiers = tiers
		draft.Rules.Type = tiers[0].Type
		draft.Rules.Value = tiers[0].Value
		draft.Rules.Eligibility.MinCartQty = EffectiveMinQty(tiers)
	} else {
		draft.Rules.Type = bundleDiscountType(draft.Rules.Type)
		draft.Rules.Eligibility.MinCartQty = requiredQty(draft.Components)
	}
	draft.Rules.Eligibility.MustIncludeAllGroups = true
	if draft.Rules.Limits.MaxUsesPerOrder <= 0 {
		draft.Rules.Limits.MaxUsesPerOrder = maxUsesPerOrder
	}

	draft.Version = draftVersion
	draft.Name = strings.TrimSpace(draft.Name)
	if !models.ValidStatus(draft.Status) {
		draft.Status = models.StatusDraft
	}
	draft.Presentation = TrimPresentation(draft.Presentation)
	return draft
}

// requiredQty es la suma de cantidades de los componentes, mínimo 1
func requiredQty(components []models.Component) int {
	sum := 0
	for _, c := range components {
		if c.Quantity > 0 {
			sum += c.Quantity
		}
	}
	if sum < 1 {
		return 1
	}
	return sum
}

func bundleDiscountType(t string) string {
	switch strings.TrimSpace(t) {
	case models.RuleTypeFixed:
		return models.RuleTypeFixed
	case models.RuleTypeBundlePrice:
		return models.RuleTypeBundlePrice
	default:
		return models.RuleTypePercentage
	}
}

func clampAddonQty(q int) int {
	if q < 1 {
		return 1
	}
	if q > maxTierQty {
		return maxTierQty
	}
	return q
}
