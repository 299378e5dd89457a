package bundle

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"bundle-admin/internal/models"
)

// Longitud máxima de un nombre de grupo
const maxGroupLen = 50

// ComponentList es la lista ordenada de componentes de un bundle. Todas las
// mutaciones son síncronas y nunca fallan: entradas inválidas degradan a no-op
type ComponentList struct {
	components []models.Component
}

// ComponentPatch representa un merge parcial sobre un componente.
// Quantity acepta decimales y se normaliza con max(1, floor)
type ComponentPatch struct {
	Ref      *string
	Quantity *float64
	Group    *string
}

// GroupedComponent es un componente junto a su índice en la lista plana,
// para que las operaciones por índice no dependan de la vista agrupada
type GroupedComponent struct {
	Index     int
	Component models.Component
}

// Group es una partición nombrada de componentes para display
type Group struct {
	Name  string             `json:"name"`
	Items []GroupedComponent `json:"items"`
}

// NewComponentList crea la lista a partir de componentes existentes
func NewComponentList(components []models.Component) *ComponentList {
	l := &ComponentList{}
	l.components = append(l.components, components...)
	return l
}

// Components devuelve una copia de la lista plana actual
func (l *ComponentList) Components() []models.Component {
	out := make([]models.Component, len(l.components))
	copy(out, l.components)
	return out
}

// Len devuelve la cantidad de componentes
func (l *ComponentList) Len() int {
	return len(l.components)
}

// Add agrega un componente con cantidad 1; no-op si ref o grupo quedan
// vacíos después del trim
func (l *ComponentList) Add(group, ref string) {
	g := truncateGroup(strings.TrimSpace(group))
	r := strings.TrimSpace(ref)
	if g == "" || r == "" {
		return
	}
	l.components = append(l.components, models.Component{Ref: r, Quantity: 1, Group: g})
}

// UpdateAt hace merge superficial del patch sobre el componente en index;
// índices fuera de rango son no-op
func (l *ComponentList) UpdateAt(index int, patch ComponentPatch) {
	if index < 0 || index >= len(l.components) {
		return
	}
	c := l.components[index]
	if patch.Ref != nil {
		c.Ref = strings.TrimSpace(*patch.Ref)
	}
	if patch.Quantity != nil {
		c.Quantity = ClampQuantity(*patch.Quantity)
	}
	if patch.Group != nil {
		c.Group = truncateGroup(*patch.Group)
	}
	l.components[index] = c
}

// RemoveAt elimina el componente en index; los índices restantes se corren
func (l *ComponentList) RemoveAt(index int) {
	if index < 0 || index >= len(l.components) {
		return
	}
	l.components = append(l.components[:index], l.components[index+1:]...)
}

// RenameGroup re-etiqueta todos los componentes del grupo from hacia un
// nombre libre de colisiones derivado de to
func (l *ComponentList) RenameGroup(from, to string) {
	f := strings.TrimSpace(from)
	t := truncateGroup(strings.TrimSpace(to))
	if f == "" || t == "" || f == t {
		return
	}
	existing := make([]string, 0, len(l.components))
	seen := map[string]bool{}
	for _, c := range l.components {
		g := strings.TrimSpace(c.Group)
		if g == "" || g == f || seen[g] {
			continue
		}
		seen[g] = true
		existing = append(existing, g)
	}
	name := uniqueGroupName(existing, t)
	for i, c := range l.components {
		if strings.TrimSpace(c.Group) == f {
			l.components[i].Group = name
		}
	}
}

// DeleteGroup elimina todos los componentes del grupo
func (l *ComponentList) DeleteGroup(group string) {
	g := strings.TrimSpace(group)
	if g == "" {
		return
	}
	next := l.components[:0]
	for _, c := range l.components {
		if strings.TrimSpace(c.Group) != g {
			next = append(next, c)
		}
	}
	l.components = next
}

// Move saca el componente de fromIndex y lo reinserta en toIndex dentro de
// la lista plana. Precondición: ambos componentes pertenecen al mismo grupo;
// los movimientos entre grupos se rechazan
func (l *ComponentList) Move(fromIndex, toIndex int) {
	if fromIndex < 0 || fromIndex >= len(l.components) {
		return
	}
	if toIndex < 0 || toIndex >= len(l.components) {
		return
	}
	if fromIndex == toIndex {
		return
	}
	if strings.TrimSpace(l.components[fromIndex].Group) != strings.TrimSpace(l.components[toIndex].Group) {
		return
	}
	item := l.components[fromIndex]
	rest := append(l.components[:fromIndex], l.components[fromIndex+1:]...)
	rest = append(rest, models.Component{})
	copy(rest[toIndex+1:], rest[toIndex:])
	rest[toIndex] = item
	l.components = rest
}

// GroupsView agrupa los componentes por grupo, ordenado alfabéticamente por
// nombre. Se recalcula siempre desde el estado actual
func (l *ComponentList) GroupsView() []Group {
	byName := map[string][]GroupedComponent{}
	order := []string{}
	for i, c := range l.components {
		g := strings.TrimSpace(c.Group)
		if g == "" {
			continue
		}
		if _, ok := byName[g]; !ok {
			order = append(order, g)
		}
		byName[g] = append(byName[g], GroupedComponent{Index: i, Component: c})
	}
	sort.Strings(order)
	groups := make([]Group, 0, len(order))
	for _, g := range order {
		groups = append(groups, Group{Name: g, Items: byName[g]})
	}
	return groups
}

// ClampQuantity normaliza una cantidad de componente: max(1, floor(v))
func ClampQuantity(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	n := int(math.Floor(v))
	if n < 1 {
		return 1
	}
	return n
}

// uniqueGroupName resuelve colisiones con sufijos -2, -3, …; después de 998
// intentos cae a un sufijo por timestamp
func uniqueGroupName(existing []string, base string) string {
	taken := map[string]bool{}
	for _, g := range existing {
		taken[g] = true
	}
	if !taken[base] {
		return base
	}
	for i := 2; i < 1000; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
	return base + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func truncateGroup(g string) string {
	runes := []rune(g)
	if len(runes) > maxGroupLen {
		return string(runes[:maxGroupLen])
	}
	return g
}
