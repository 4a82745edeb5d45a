package eventhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/educrm/educrm-hub/internal/application/store/session"
	"github.com/educrm/educrm-hub/internal/domain/identity"
)

type fakeStudents struct {
	calls []string
}

func (f *fakeStudents) Select(id string) error {
	f.calls = append(f.calls, "select:"+id)
	return nil
}

func (f *fakeStudents) Clear() { f.calls = append(f.calls, "clear") }

func signedIn(id string, role identity.Role) session.Snapshot {
	return session.Snapshot{
		State:    session.Authenticated,
		Identity: identity.Identity{ID: id, Role: role},
	}
}

func TestHandle_DerivesOnlyOnIdentityChange(t *testing.T) {
	students := &fakeStudents{}
	h := NewOnIdentityChangedHandler(students, nil)

	h.Handle(session.Snapshot{State: session.Anonymous})
	h.Handle(signedIn("3", identity.RoleStudent))
	h.Handle(signedIn("3", identity.RoleStudent))
	h.Handle(session.Snapshot{State: session.Authenticating, Pending: true})
	h.Handle(signedIn("1", identity.RoleAdmin))
	h.Handle(signedIn("2", identity.RoleTeacher))

	assert.Equal(t, []string{"select:3", "clear"}, students.calls)
}

func TestHandle_SwitchingStudents(t *testing.T) {
	students := &fakeStudents{}
	h := NewOnIdentityChangedHandler(students, nil)

	h.Handle(signedIn("3", identity.RoleStudent))
	h.Handle(signedIn("7", identity.RoleStudent))
	h.Handle(session.Snapshot{State: session.Anonymous})

	assert.Equal(t, []string{"select:3", "select:7", "clear"}, students.calls)
}
