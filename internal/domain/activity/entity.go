// Package activity implements the human-readable activity feeds shown on the
// admin and teacher dashboards. A feed is append-only and newest-first.
package activity

import (
	"time"

	"github.com/educrm/educrm-hub/pkg/timeutil"
)

// Kind categorises an activity record.
type Kind string

// Admin feed kinds.
const (
	KindRegistration Kind = "registration"
	KindPayment      Kind = "payment"
	KindProduct      Kind = "product"
	KindTeacher      Kind = "teacher"
)

// Teacher feed kinds.
const (
	KindLesson     Kind = "lesson"
	KindHomework   Kind = "homework"
	KindAttendance Kind = "attendance"
	KindGroup      Kind = "group"
	KindPoint      Kind = "point"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindRegistration, KindPayment, KindProduct, KindTeacher,
		KindLesson, KindHomework, KindAttendance, KindGroup, KindPoint:
		return true
	default:
		return false
	}
}

// Record is one feed entry. Timestamp is a display label; RecordedAt is zero
// for seeded entries whose label was fixed at seeding time.
type Record struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Message    string    `json:"message"`
	Timestamp  string    `json:"timestamp"`
	RecordedAt time.Time `json:"recorded_at,omitempty"`
}

// Label returns the display timestamp relative to now.
func (r Record) Label(now time.Time) string {
	if r.RecordedAt.IsZero() {
		return r.Timestamp
	}
	return timeutil.FormatRelative(r.RecordedAt, now)
}
