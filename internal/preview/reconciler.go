package preview

import (
	"sort"
	"strings"

	"bundle-admin/internal/models"
)

// MetadataSource es la interfaz de lectura sobre la metadata de variants
// conocida localmente (populada on-demand mientras se navega el catálogo)
type MetadataSource interface {
	Lookup(ref string) (models.VariantMetadata, bool)
}

// Line es una línea del carrito reconciliada para display. Los flags son
// booleanos independientes, no una máquina de estados: una línea puede estar
// a la vez sin metadata y con stock desconocido
type Line struct {
	Ref               string   `json:"ref"`
	Quantity          int      `json:"quantity"`
	Name              string   `json:"name,omitempty"`
	UnitPrice         *float64 `json:"unitPrice,omitempty"`
	LineTotal         *float64 `json:"lineTotal,omitempty"`
	Loading           bool     `json:"loading"`
	Missing           bool     `json:"missing"`
	InsufficientStock bool     `json:"insufficientStock"`
}

// Summary son los agregados de display del preview del carrito
type Summary struct {
	Lines         []Line  `json:"lines"`
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"totalDiscount"`
	Total         float64 `json:"total"`
}

// MergeItems deduplica selecciones repetidas de la misma referencia en una
// sola línea con cantidad sumada, ordenada por referencia. El orden es
// puramente presentacional: estable y determinístico para display
func MergeItems(items []models.CartItem) []models.CartItem {
	qtyByRef := map[string]int{}
	refs := []string{}
	for _, it := range items {
		ref := strings.TrimSpace(it.Ref)
		if ref == "" {
			continue
		}
		if _, ok := qtyByRef[ref]; !ok {
			refs = append(refs, ref)
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		qtyByRef[ref] += qty
	}
	sort.Strings(refs)
	merged := make([]models.CartItem, 0, len(refs))
	for _, ref := range refs {
		merged = append(merged, models.CartItem{Ref: ref, Quantity: qtyByRef[ref]})
	}
	return merged
}

// Reconcile cruza el carrito hipotético con la metadata local y el veredicto
// del backend de evaluación, y computa los agregados de display. Una línea
// sin precio conocido se excluye del subtotal (no se trata como cero), y el
// total post-descuento nunca es negativo
func Reconcile(items []models.CartItem, meta MetadataSource, eval *models.EvaluationResult) Summary {
	missing := map[string]bool{}
	totalDiscount := 0.0
	if eval != nil {
		totalDiscount = eval.Applied.TotalDiscount
		for _, ref := range eval.Missing {
			missing[strings.TrimSpace(ref)] = true
		}
	}

	merged := MergeItems(items)
	lines := make([]Line, 0, len(merged))
	subtotal := 0.0
	for _, it := range merged {
		line := Line{Ref: it.Ref, Quantity: it.Quantity, Missing: missing[it.Ref]}
		m, found := meta.Lookup(it.Ref)
		if !found {
			line.Loading = true
		} else {
			line.Name = m.Name
			if m.Price != nil {
				unit := *m.Price
				total := unit * float64(it.Quantity)
				line.UnitPrice = &unit
				line.LineTotal = &total
				subtotal += total
			}
			if m.Stock != nil && *m.Stock < it.Quantity {
				line.InsufficientStock = true
			}
		}
		lines = append(lines, line)
	}

	total := subtotal - totalDiscount
	if total < 0 {
		total = 0
	}
	return Summary{
		Lines:         lines,
		Subtotal:      subtotal,
		TotalDiscount: totalDiscount,
		Total:         total,
	}
}
