// Package identity holds the users that can sign in to the portals and the
// static directory consulted at login.
package identity

import (
	"fmt"
	"slices"
)

// Role selects which portal an identity may use.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// ParseRole converts s into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("identity: unknown role %q", s)
	}
	return r, nil
}

// Identity is an authenticated user. Values are immutable once issued by the
// Directory.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

// Entry is a directory row. PasswordHash is only consulted when demo mode is
// off; in demo mode every entry shares one secret.
type Entry struct {
	Identity
	PasswordHash []byte `json:"-"`
}

// Directory is the static, read-only list of known identities.
type Directory struct {
	entries    []Entry
	byUsername map[string]int
}

// NewDirectory builds a Directory. Usernames and ids must be unique and
// every role must be valid.
func NewDirectory(entries ...Entry) (*Directory, error) {
	d := &Directory{
		entries:    make([]Entry, 0, len(entries)),
		byUsername: make(map[string]int, len(entries)),
	}
	ids := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if e.Username == "" || e.ID == "" {
			return nil, fmt.Errorf("identity: entry requires id and username")
		}
		if !e.Role.IsValid() {
			return nil, fmt.Errorf("identity: entry %q has invalid role %q", e.Username, e.Role)
		}
		if _, dup := d.byUsername[e.Username]; dup {
			return nil, fmt.Errorf("identity: duplicate username %q", e.Username)
		}
		if _, dup := ids[e.ID]; dup {
			return nil, fmt.Errorf("identity: duplicate id %q", e.ID)
		}
		ids[e.ID] = struct{}{}
		d.byUsername[e.Username] = len(d.entries)
		e.PasswordHash = slices.Clone(e.PasswordHash)
		d.entries = append(d.entries, e)
	}
	return d, nil
}

// Lookup finds an entry by username.
func (d *Directory) Lookup(username string) (Entry, bool) {
	idx, ok := d.byUsername[username]
	if !ok {
		return Entry{}, false
	}
	return d.entries[idx], true
}

// FirstWithRole returns the first entry holding role, in directory order.
func (d *Directory) FirstWithRole(role Role) (Entry, bool) {
	for _, e := range d.entries {
		if e.Role == role {
			return e, true
		}
	}
	return Entry{}, false
}

// Identities lists every identity in directory order.
func (d *Directory) Identities() []Identity {
	out := make([]Identity, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Identity
	}
	return out
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	return len(d.entries)
}
