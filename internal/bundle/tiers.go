package bundle

import (
	"math"
	"sort"
	"strings"

	"bundle-admin/internal/models"
)

// Límites de minQty para un tier
const (
	minTierQty = 1
	maxTierQty = 999
)

// Defaults para tiers nuevos
const (
	defaultTierType  = models.RuleTypePercentage
	defaultTierValue = 10
)

// TierLadder es la escalera editable de tiers de descuento por cantidad.
// El estado crudo se mantiene tal como lo edita el usuario; Normalized
// produce la vista canónica
type TierLadder struct {
	tiers []models.Tier
}

// TierPatch es un merge parcial sobre un tier
type TierPatch struct {
	MinQty *int
	Type   *string
	Value  *float64
}

// NewTierLadder crea la escalera a partir de tiers existentes
func NewTierLadder(tiers []models.Tier) *TierLadder {
	l := &TierLadder{}
	l.tiers = append(l.tiers, tiers...)
	return l
}

// Tiers devuelve una copia del estado crudo
func (l *TierLadder) Tiers() []models.Tier {
	out := make([]models.Tier, len(l.tiers))
	copy(out, l.tiers)
	return out
}

// AddTier agrega un tier nuevo cuyo minQty es max(existentes)+1 (acotado a
// 999), garantizando que el breakpoint nuevo nunca colisione con uno previo
func (l *TierLadder) AddTier() {
	maxMin := minTierQty
	for _, t := range l.tiers {
		if q := clampTierQty(t.MinQty); q > maxMin {
			maxMin = q
		}
	}
	next := maxMin + 1
	if next > maxTierQty {
		next = maxTierQty
	}
	l.tiers = append(l.tiers, models.Tier{MinQty: next, Type: defaultTierType, Value: defaultTierValue})
}

// RemoveTier elimina el tier en index. Con un solo tier es no-op: una oferta
// de cantidad siempre necesita al menos un breakpoint activo
func (l *TierLadder) RemoveTier(index int) {
	if len(l.tiers) <= 1 {
		return
	}
	if index < 0 || index >= len(l.tiers) {
		return
	}
	l.tiers = append(l.tiers[:index], l.tiers[index+1:]...)
}

// UpdateAt hace merge del patch sobre el tier en index; minQty se acota a
// [1,999] en el momento de la edición
func (l *TierLadder) UpdateAt(index int, patch TierPatch) {
	if index < 0 || index >= len(l.tiers) {
		return
	}
	t := l.tiers[index]
	if patch.MinQty != nil {
		t.MinQty = clampTierQty(*patch.MinQty)
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Value != nil {
		t.Value = *patch.Value
	}
	l.tiers[index] = t
}

// Normalized devuelve la vista canónica del estado actual
func (l *TierLadder) Normalized() []models.Tier {
	return NormalizeTiers(l.tiers)
}

// NormalizeTiers acota minQty a [1,999], descarta tiers inválidos (tipo
// desconocido o value no finito / negativo), deduplica por minQty con
// última-escritura-gana y devuelve el resultado ordenado ascendente.
// Los tiers inválidos se descartan en silencio: la escalera se edita de
// forma incremental y un estado intermedio no es un error
func NormalizeTiers(tiers []models.Tier) []models.Tier {
	mapped := make([]models.Tier, 0, len(tiers))
	for _, t := range tiers {
		typ := strings.TrimSpace(t.Type)
		if typ == "" {
			typ = models.RuleTypePercentage
		}
		if typ != models.RuleTypePercentage && typ != models.RuleTypeFixed {
			continue
		}
		if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) || t.Value < 0 {
			continue
		}
		mapped = append(mapped, models.Tier{MinQty: clampTierQty(t.MinQty), Type: typ, Value: t.Value})
	}

	// Sort estable: entre minQty iguales sobrevive la última escritura
	sort.SliceStable(mapped, func(i, j int) bool { return mapped[i].MinQty < mapped[j].MinQty })
	byMinQty := map[int]models.Tier{}
	order := []int{}
	for _, t := range mapped {
		if _, ok := byMinQty[t.MinQty]; !ok {
			order = append(order, t.MinQty)
		}
		byMinQty[t.MinQty] = t
	}
	unique := make([]models.Tier, 0, len(order))
	for _, q := range order {
		unique = append(unique, byMinQty[q])
	}
	return unique
}

// TiersFullyValid indica si la escalera cruda no está vacía y todos sus
// tiers pasan los chequeos de validez (gatea el submit de ofertas de cantidad)
func TiersFullyValid(tiers []models.Tier) bool {
	if len(tiers) == 0 {
		return false
	}
	for _, t := range tiers {
		if !tierValid(t) {
			return false
		}
	}
	return true
}

// EffectiveMinQty es la cantidad mínima calificante de toda la oferta: el
// menor minQty de la escalera normalizada
func EffectiveMinQty(normalized []models.Tier) int {
	if len(normalized) == 0 {
		return minTierQty
	}
	q := normalized[0].MinQty
	if q < minTierQty {
		return minTierQty
	}
	return q
}

func tierValid(t models.Tier) bool {
	typ := strings.TrimSpace(t.Type)
	if typ != models.RuleTypePercentage && typ != models.RuleTypeFixed {
		return false
	}
	if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) || t.Value < 0 {
		return false
	}
	return t.MinQty >= minTierQty && t.MinQty <= maxTierQty
}

func clampTierQty(q int) int {
	if q < minTierQty {
		return minTierQty
	}
	if q > maxTierQty {
		return maxTierQty
	}
	return q
}
