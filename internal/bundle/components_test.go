package bundle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundle-admin/internal/models"
)

func TestAddTrimsAndIgnoresEmpty(t *testing.T) {
	list := NewComponentList(nil)

	list.Add("  group-a  ", "  v1  ")
	list.Add("", "v2")
	list.Add("group-a", "   ")

	comps := list.Components()
	require.Len(t, comps, 1)
	assert.Equal(t, models.Component{Ref: "v1", Quantity: 1, Group: "group-a"}, comps[0])
}

func TestUpdateAtClampsQuantity(t *testing.T) {
	list := NewComponentList([]models.Component{{Ref: "v1", Quantity: 1, Group: "a"}})

	for input, want := range map[float64]int{0: 1, -5: 1, 3.7: 3} {
		qty := input
		list.UpdateAt(0, ComponentPatch{Quantity: &qty})
		assert.Equal(t, want, list.Components()[0].Quantity, "quantity %v", input)
	}
}

func TestUpdateAtOutOfRangeIsNoop(t *testing.T) {
	list := NewComponentList([]models.Component{{Ref: "v1", Quantity: 1, Group: "a"}})

	qty := 9.0
	list.UpdateAt(5, ComponentPatch{Quantity: &qty})
	list.UpdateAt(-1, ComponentPatch{Quantity: &qty})

	assert.Equal(t, 1, list.Components()[0].Quantity)
}

func TestUpdateAtTruncatesGroup(t *testing.T) {
	list := NewComponentList([]models.Component{{Ref: "v1", Quantity: 1, Group: "a"}})

	long := strings.Repeat("x", 80)
	list.UpdateAt(0, ComponentPatch{Group: &long})

	assert.Len(t, list.Components()[0].Group, 50)
}

func TestRemoveAtShiftsIndices(t *testing.T) {
	list := NewComponentList([]models.Component{
		{Ref: "v1", Quantity: 1, Group: "a"},
		{Ref: "v2", Quantity: 1, Group: "a"},
		{Ref: "v3", Quantity: 1, Group: "b"},
	})

	list.RemoveAt(1)

	comps := list.Components()
	require.Len(t, comps, 2)
	assert.Equal(t, "v1", comps[0].Ref)
	assert.Equal(t, "v3", comps[1].Ref)

	list.RemoveAt(9)
	assert.Equal(t, 2, list.Len())
}

func TestRenameGroupResolvesCollision(t *testing.T) {
	list := NewComponentList([]models.Component{
		{Ref: "v1", Quantity: 1, Group: "A"},
		{Ref: "v2", Quantity: 1, Group: "A"},
		{Ref: "v3", Quantity: 1, Group: "B"},
	})

	list.RenameGroup("A", "B")

	comps := list.Components()
	assert.Equal(t, "B-2", comps[0].Group)
	assert.Equal(t, "B-2", comps[1].Group)
	// Componentes de otros grupos quedan intactos
	assert.Equal(t, "B", comps[2].Group)
}

func TestRenameGroupPicksNextFreeSuffix(t *testing.T) {
	list := NewComponentList([]models.Component{
		{Ref: "v1", Quantity: 1, Group: "A"},
		{Ref: "v2", Quantity: 1, Group: "B"},
		{Ref: "v3", Quantity: 1, Group: "B-2"},
	})

	list.RenameGroup("A", "B")

	assert.Equal(t, "B-3", list.Components()[0].Group)
}

func TestRenameGroupNoopCases(t *testing.T) {
	original := []models.Component{{Ref: "v1", Quantity: 1, Group: "A"}}

	list := NewComponentList(original)
	list.RenameGroup("", "B")
	list.RenameGroup("A", "")
	list.RenameGroup("A", "  A ")

	assert.Equal(t, original, list.Components())
}

func TestDeleteGroupRemovesAllItsComponents(t *testing.T) {
	list := NewComponentList([]models.Component{
		{Ref: "v1", Quantity: 1, Group: "a"},
		{Ref: "v2", Quantity: 1, Group: "b"},
		{Ref: "v3", Quantity: 1, Group: "a"},
	})

	list.DeleteGroup("a")

	comps := list.Components()
	require.Len(t, comps, 1)
	assert.Equal(t, "v2", comps[0].Ref)
}

func TestMoveReordersWithinGroup(t *testing.T) {
	list := NewComponentList([]models.Component{
		{Ref: "v1", Quantity: 1, Group: "a"},
		{Ref: "v2", Quantity: 1, Group: "a"},
		{Ref: "v3", Quantity: 1, Group: "a"},
	})

	list.Move(2, 0)

	comps := list.Components()
	assert.Equal(t, "v3", comps[0].Ref)
	assert.Equal(t, "v1", comps[1].Ref)
	assert.Equal(t, "v2", comps[2].Ref)
}

func TestMoveRejectsCrossGroup(t *testing.T) {
	original := []models.Component{
		{Ref: "v1", Quantity: 1, Group: "a"},
		{Ref: "v2", Quantity: 1, Group: "b"},
	}

	list := NewComponentList(original)
	list.Move(0, 1)

	assert.Equal(t, original, list.Components())
}

func TestMoveOutOfRangeIsNoop(t *testing.T) {
	original := []models.Component{
		{Ref: "v1", Quantity: 1, Group: "a"},
		{Ref: "v2", Quantity: 1, Group: "a"},
	}

	list := NewComponentList(original)
	list.Move(-1, 1)
	list.Move(0, 5)
	list.Move(1, 1)

	assert.Equal(t, original, list.Components())
}

func TestGroupsViewSortedScenario(t *testing.T) {
	list := NewComponentList([]models.Component{
		{Ref: "v3", Quantity: 1, Group: "B"},
		{Ref: "v1", Quantity: 1, Group: "A"},
		{Ref: "v2", Quantity: 1, Group: "A"},
	})

	groups := list.GroupsView()

	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Name)
	assert.Equal(t, "B", groups[1].Name)

	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, "v1", groups[0].Items[0].Component.Ref)
	assert.Equal(t, 1, groups[0].Items[0].Index)
	assert.Equal(t, "v2", groups[0].Items[1].Component.Ref)

	require.Len(t, groups[1].Items, 1)
	assert.Equal(t, "v3", groups[1].Items[0].Component.Ref)
	assert.Equal(t, 0, groups[1].Items[0].Index)
}

func TestGroupsViewSkipsEmptyGroupsAndRecomputes(t *testing.T) {
	list := NewComponentList([]models.Component{
		{Ref: "v1", Quantity: 1, Group: "  "},
		{Ref: "v2", Quantity: 1, Group: "a"},
	})

	require.Len(t, list.GroupsView(), 1)

	list.Add("z", "v9")
	groups := list.GroupsView()
	require.Len(t, groups, 2)
	assert.Equal(t, "z", groups[1].Name)
}
