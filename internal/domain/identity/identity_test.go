package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	return []Entry{
		{Identity: Identity{ID: "1", Username: "admin", Role: RoleAdmin, DisplayName: "Admin User"}},
		{Identity: Identity{ID: "2", Username: "teacher", Role: RoleTeacher, DisplayName: "John Teacher"}},
		{Identity: Identity{ID: "3", Username: "student", Role: RoleStudent, DisplayName: "Jane Student"}},
	}
}

func TestDirectory_Lookup(t *testing.T) {
	dir, err := NewDirectory(sampleEntries()...)
	require.NoError(t, err)

	e, ok := dir.Lookup("teacher")
	require.True(t, ok)
	assert.Equal(t, "2", e.ID)
	assert.Equal(t, RoleTeacher, e.Role)

	_, ok = dir.Lookup("nobody")
	assert.False(t, ok)
	assert.Equal(t, 3, dir.Len())
}

func TestDirectory_FirstWithRole(t *testing.T) {
	dir, err := NewDirectory(sampleEntries()...)
	require.NoError(t, err)

	e, ok := dir.FirstWithRole(RoleStudent)
	require.True(t, ok)
	assert.Equal(t, "student", e.Username)
}

func TestNewDirectory_RejectsDuplicates(t *testing.T) {
	entries := append(sampleEntries(), Entry{Identity: Identity{ID: "9", Username: "admin", Role: RoleAdmin}})
	_, err := NewDirectory(entries...)
	assert.ErrorContains(t, err, "duplicate username")

	entries = append(sampleEntries(), Entry{Identity: Identity{ID: "1", Username: "other", Role: RoleAdmin}})
	_, err = NewDirectory(entries...)
	assert.ErrorContains(t, err, "duplicate id")
}

func TestNewDirectory_RejectsInvalidRole(t *testing.T) {
	_, err := NewDirectory(Entry{Identity: Identity{ID: "1", Username: "x", Role: "janitor"}})
	assert.ErrorContains(t, err, "invalid role")
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("student")
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, r)

	_, err = ParseRole("")
	assert.Error(t, err)
}
