// Package query contains read models built from store snapshots.
// Queries never modify state.
package query

import (
	"errors"
	"strings"
	"time"

	adminstore "github.com/educrm/educrm-hub/internal/application/store/admin"
	"github.com/educrm/educrm-hub/internal/domain/activity"
	"github.com/educrm/educrm-hub/internal/domain/admin"
	"github.com/educrm/educrm-hub/pkg/timeutil"
)

// DefaultRecentLimit is how many feed entries a dashboard shows.
const DefaultRecentLimit = 6

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN DASHBOARD QUERY
// Headline numbers for the admin portal: head counts, revenue from completed
// payments, per-teacher performance and the latest activity.
// ══════════════════════════════════════════════════════════════════════════════

// AdminSource provides admin snapshots.
type AdminSource interface {
	Snapshot() adminstore.Snapshot
}

// AdminDashboardQuery holds the dashboard parameters.
type AdminDashboardQuery struct {
	// RecentLimit caps the activity preview (0 = handler default).
	RecentLimit int
}

// Validate checks the query.
func (q AdminDashboardQuery) Validate() error {
	if q.RecentLimit < 0 {
		return errors.New("recent limit cannot be negative")
	}
	return nil
}

// ActivityDTO is a feed entry with its display label resolved.
type ActivityDTO struct {
	ID      string        `json:"id"`
	Kind    activity.Kind `json:"kind"`
	Message string        `json:"message"`
	Label   string        `json:"label"`
}

// TeacherPerformanceDTO is one row of the teacher performance chart.
type TeacherPerformanceDTO struct {
	Name     string  `json:"name"`
	Students int     `json:"students"`
	Salary   float64 `json:"salary"`
}

// AdminDashboardDTO is the admin dashboard read model.
type AdminDashboardDTO struct {
	TotalStudents   int                     `json:"total_students"`
	TotalTeachers   int                     `json:"total_teachers"`
	TotalProducts   int                     `json:"total_products"`
	Revenue         float64                 `json:"revenue"`
	PendingPayments int                     `json:"pending_payments"`
	Performance     []TeacherPerformanceDTO `json:"performance"`
	RecentActivity  []ActivityDTO           `json:"recent_activity"`
}

// GetAdminDashboardHandler builds AdminDashboardDTO.
type GetAdminDashboardHandler struct {
	source       AdminSource
	clock        timeutil.Clock
	defaultLimit int
}

// NewGetAdminDashboardHandler creates the handler. defaultLimit <= 0 means
// DefaultRecentLimit.
func NewGetAdminDashboardHandler(source AdminSource, clock timeutil.Clock, defaultLimit int) *GetAdminDashboardHandler {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultRecentLimit
	}
	return &GetAdminDashboardHandler{source: source, clock: clock, defaultLimit: defaultLimit}
}

// Handle runs the query.
func (h *GetAdminDashboardHandler) Handle(q AdminDashboardQuery) (AdminDashboardDTO, error) {
	if err := q.Validate(); err != nil {
		return AdminDashboardDTO{}, err
	}
	limit := q.RecentLimit
	if limit == 0 {
		limit = h.defaultLimit
	}

	snap := h.source.Snapshot()
	dto := AdminDashboardDTO{
		TotalStudents:  len(snap.Students),
		TotalTeachers:  len(snap.Teachers),
		TotalProducts:  len(snap.Products),
		Performance:    make([]TeacherPerformanceDTO, 0, len(snap.Teachers)),
		RecentActivity: recent(snap.Activities, limit, h.clock()),
	}
	for _, p := range snap.Payments {
		switch p.Status {
		case admin.TransactionCompleted:
			dto.Revenue += p.Amount
		case admin.TransactionPending:
			dto.PendingPayments++
		}
	}
	for _, t := range snap.Teachers {
		dto.Performance = append(dto.Performance, TeacherPerformanceDTO{
			Name:     t.Name,
			Students: t.StudentCount,
			Salary:   t.Salary,
		})
	}
	return dto, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH TEACHERS QUERY
// Case-insensitive substring match on name or subject.
// ══════════════════════════════════════════════════════════════════════════════

// SearchTeachersQuery holds the search term. An empty term matches all.
type SearchTeachersQuery struct {
	Term string
}

// SearchTeachersHandler runs SearchTeachersQuery.
type SearchTeachersHandler struct {
	source AdminSource
}

// NewSearchTeachersHandler creates the handler.
func NewSearchTeachersHandler(source AdminSource) *SearchTeachersHandler {
	return &SearchTeachersHandler{source: source}
}

// Handle runs the query.
func (h *SearchTeachersHandler) Handle(q SearchTeachersQuery) []admin.Teacher {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	teachers := h.source.Snapshot().Teachers

	out := make([]admin.Teacher, 0, len(teachers))
	for _, t := range teachers {
		if strings.Contains(strings.ToLower(t.Name), term) || strings.Contains(strings.ToLower(t.Subject), term) {
			out = append(out, t)
		}
	}
	return out
}

func recent(records []activity.Record, limit int, now time.Time) []ActivityDTO {
	if limit > len(records) {
		limit = len(records)
	}
	out := make([]ActivityDTO, limit)
	for i, r := range records[:limit] {
		out[i] = ActivityDTO{ID: r.ID, Kind: r.Kind, Message: r.Message, Label: r.Label(now)}
	}
	return out
}
