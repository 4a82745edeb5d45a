package teaching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupFields_BuildIsActiveAndCopiesSlices(t *testing.T) {
	ids := []string{"1", "2"}
	g := GroupFields{Name: "Math A", Subject: "Mathematics", StudentIDs: ids}.Build("g9")

	assert.Equal(t, "g9", g.ID)
	assert.True(t, g.Active)
	assert.True(t, g.HasStudent("2"))

	ids[0] = "changed"
	assert.Equal(t, "1", g.StudentIDs[0])
}

func TestGroupPatch_KeepsUnsetFields(t *testing.T) {
	g := Group{ID: "g1", Name: "Math A", Subject: "Mathematics", StudentIDs: []string{"1"}, Active: true}
	before := g.StudentIDs

	name := "Math B"
	GroupPatch{Name: &name, StudentIDs: []string{"4", "5"}}.Apply(&g)

	assert.Equal(t, "Math B", g.Name)
	assert.Equal(t, "Mathematics", g.Subject)
	assert.Equal(t, []string{"4", "5"}, g.StudentIDs)
	assert.Equal(t, []string{"1"}, before)
}

func TestSumPoints(t *testing.T) {
	assert.Equal(t, 0, SumPoints(nil))
	assert.Equal(t, 15, SumPoints([]StudentPoint{{Points: 10}, {Points: 5}}))
}

func TestAttendanceStatus_Attended(t *testing.T) {
	assert.True(t, Present.Attended())
	assert.True(t, Late.Attended())
	assert.False(t, Absent.Attended())
}
