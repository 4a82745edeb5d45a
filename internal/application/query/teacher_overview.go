package query

import (
	"errors"

	teacherstore "github.com/educrm/educrm-hub/internal/application/store/teacher"
	"github.com/educrm/educrm-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER OVERVIEW QUERY
// Groups with their lesson counts, attendance rate per lesson and the latest
// teacher activity.
// ══════════════════════════════════════════════════════════════════════════════

// TeacherSource provides teacher snapshots.
type TeacherSource interface {
	Snapshot() teacherstore.Snapshot
}

// TeacherOverviewQuery holds the overview parameters.
type TeacherOverviewQuery struct {
	// RecentLimit caps the activity preview (0 = handler default).
	RecentLimit int

	// IncludeInactive also lists inactive groups.
	IncludeInactive bool
}

// GroupSummaryDTO summarises one group.
type GroupSummaryDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Schedule string `json:"schedule"`
	Students int    `json:"students"`
	Lessons  int    `json:"lessons"`
	Active   bool   `json:"active"`
}

// LessonAttendanceDTO is the attendance summary of one lesson. Rate is the
// share of recorded students who attended (present or late), 0 when nothing
// was recorded.
type LessonAttendanceDTO struct {
	LessonID string  `json:"lesson_id"`
	Topic    string  `json:"topic"`
	Date     string  `json:"date"`
	Recorded int     `json:"recorded"`
	Attended int     `json:"attended"`
	Rate     float64 `json:"rate"`
}

// TeacherOverviewDTO is the teacher overview read model.
type TeacherOverviewDTO struct {
	ActiveGroups   int                   `json:"active_groups"`
	TotalPoints    int                   `json:"total_points"`
	Groups         []GroupSummaryDTO     `json:"groups"`
	Attendance     []LessonAttendanceDTO `json:"attendance"`
	RecentActivity []ActivityDTO         `json:"recent_activity"`
}

// GetTeacherOverviewHandler builds TeacherOverviewDTO.
type GetTeacherOverviewHandler struct {
	source       TeacherSource
	clock        timeutil.Clock
	defaultLimit int
}

// NewGetTeacherOverviewHandler creates the handler. defaultLimit <= 0 means
// DefaultRecentLimit.
func NewGetTeacherOverviewHandler(source TeacherSource, clock timeutil.Clock, defaultLimit int) *GetTeacherOverviewHandler {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultRecentLimit
	}
	return &GetTeacherOverviewHandler{source: source, clock: clock, defaultLimit: defaultLimit}
}

// Handle runs the query.
func (h *GetTeacherOverviewHandler) Handle(q TeacherOverviewQuery) (TeacherOverviewDTO, error) {
	if q.RecentLimit < 0 {
		return TeacherOverviewDTO{}, errors.New("recent limit cannot be negative")
	}
	limit := q.RecentLimit
	if limit == 0 {
		limit = h.defaultLimit
	}

	snap := h.source.Snapshot()

	lessonsPerGroup := make(map[string]int, len(snap.Groups))
	for _, l := range snap.Lessons {
		lessonsPerGroup[l.GroupID]++
	}

	dto := TeacherOverviewDTO{RecentActivity: recent(snap.Activities, limit, h.clock())}
	for _, g := range snap.Groups {
		if g.Active {
			dto.ActiveGroups++
		} else if !q.IncludeInactive {
			continue
		}
		dto.Groups = append(dto.Groups, GroupSummaryDTO{
			ID:       g.ID,
			Name:     g.Name,
			Subject:  g.Subject,
			Schedule: g.LessonTime,
			Students: len(g.StudentIDs),
			Lessons:  lessonsPerGroup[g.ID],
			Active:   g.Active,
		})
	}

	type tally struct{ recorded, attended int }
	perLesson := make(map[string]tally, len(snap.Lessons))
	for _, a := range snap.Attendance {
		t := perLesson[a.LessonID]
		t.recorded++
		if a.Status.Attended() {
			t.attended++
		}
		perLesson[a.LessonID] = t
	}
	for _, l := range snap.Lessons {
		t := perLesson[l.ID]
		row := LessonAttendanceDTO{LessonID: l.ID, Topic: l.Topic, Date: l.Date, Recorded: t.recorded, Attended: t.attended}
		if t.recorded > 0 {
			row.Rate = float64(t.attended) / float64(t.recorded)
		}
		dto.Attendance = append(dto.Attendance, row)
	}

	for _, p := range snap.Points {
		dto.TotalPoints += p.Points
	}
	return dto, nil
}
