// Package eventhandler contains reactions to store changes.
package eventhandler

import (
	"sync"

	"github.com/educrm/educrm-hub/internal/application/store/session"
	"github.com/educrm/educrm-hub/internal/domain/identity"
	"github.com/educrm/educrm-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON IDENTITY CHANGED HANDLER
// Keeps the student store in step with the session: when a student signs in
// their balance is derived from the point records, and when they sign out
// (or someone else signs in) the student view is cleared.
//
// Only a change of the signed-in identity id triggers work; other session
// changes such as a login starting or pending flags are ignored.
// ═══════════════════════════════════════════════════════════════════════════

// StudentSelector is the part of the student store the handler drives.
type StudentSelector interface {
	Select(studentID string) error
	Clear()
}

// OnIdentityChangedHandler derives student state from session changes.
type OnIdentityChangedHandler struct {
	students StudentSelector
	logger   *logger.Logger

	mu       sync.Mutex
	lastID   string
	selected bool
}

// NewOnIdentityChangedHandler creates the handler.
func NewOnIdentityChangedHandler(students StudentSelector, log *logger.Logger) *OnIdentityChangedHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &OnIdentityChangedHandler{
		students: students,
		logger:   log.With(logger.Component("on_identity_changed")),
	}
}

// Attach subscribes the handler to the session store and returns the
// unsubscribe function.
func (h *OnIdentityChangedHandler) Attach(s *session.Store) func() {
	return s.Subscribe(h.Handle)
}

// Handle processes one session snapshot.
func (h *OnIdentityChangedHandler) Handle(snap session.Snapshot) {
	var id identity.Identity
	if snap.Authenticated() {
		id = snap.Identity
	}

	h.mu.Lock()
	if id.ID == h.lastID {
		h.mu.Unlock()
		return
	}
	h.lastID = id.ID
	wasSelected := h.selected
	h.selected = id.Role == identity.RoleStudent
	h.mu.Unlock()

	if id.Role == identity.RoleStudent {
		if err := h.students.Select(id.ID); err != nil {
			h.logger.Error("failed to derive student state",
				logger.StudentID(id.ID),
				logger.Err(err),
			)
			return
		}
		h.logger.Info("student state derived", logger.StudentID(id.ID))
		return
	}

	if wasSelected {
		h.students.Clear()
		h.logger.Debug("student state cleared")
	}
}
