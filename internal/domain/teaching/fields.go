package teaching

import "slices"

// GroupFields are the caller-supplied fields of a new Group. New groups are
// always active.
type GroupFields struct {
	Name       string    `json:"name" validate:"required"`
	Subject    string    `json:"subject" validate:"required"`
	LessonTime string    `json:"lesson_time"`
	LessonDays []Weekday `json:"lesson_days"`
	StudentIDs []string  `json:"student_ids"`
}

// Build implements repository.Fields.
func (f GroupFields) Build(id string) Group {
	return Group{
		ID:         id,
		Name:       f.Name,
		Subject:    f.Subject,
		LessonTime: f.LessonTime,
		LessonDays: slices.Clone(f.LessonDays),
		StudentIDs: slices.Clone(f.StudentIDs),
		Active:     true,
	}
}

// GroupPatch lists the Group fields to overwrite; nil fields are kept.
type GroupPatch struct {
	Name       *string
	Subject    *string
	LessonTime *string
	LessonDays []Weekday
	StudentIDs []string
	Active     *bool
}

// Apply merges the patch onto g. Slices are copied so earlier snapshots
// never observe the change.
func (p GroupPatch) Apply(g *Group) {
	set(&g.Name, p.Name)
	set(&g.Subject, p.Subject)
	set(&g.LessonTime, p.LessonTime)
	if p.LessonDays != nil {
		g.LessonDays = slices.Clone(p.LessonDays)
	}
	if p.StudentIDs != nil {
		g.StudentIDs = slices.Clone(p.StudentIDs)
	}
	set(&g.Active, p.Active)
}

// LessonFields are the caller-supplied fields of a new Lesson.
type LessonFields struct {
	GroupID  string `json:"group_id" validate:"required"`
	Topic    string `json:"topic" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Homework string `json:"homework"`
}

// Build implements repository.Fields.
func (f LessonFields) Build(id string) Lesson {
	return Lesson{ID: id, GroupID: f.GroupID, Topic: f.Topic, Date: f.Date, Homework: f.Homework}
}

// LessonPatch lists the Lesson fields to overwrite; nil fields are kept.
type LessonPatch struct {
	GroupID  *string
	Topic    *string
	Date     *string
	Homework *string
}

// Apply merges the patch onto l.
func (p LessonPatch) Apply(l *Lesson) {
	set(&l.GroupID, p.GroupID)
	set(&l.Topic, p.Topic)
	set(&l.Date, p.Date)
	set(&l.Homework, p.Homework)
}

// AttendanceFields are the caller-supplied fields of a new AttendanceRecord.
type AttendanceFields struct {
	LessonID  string           `json:"lesson_id" validate:"required"`
	GroupID   string           `json:"group_id" validate:"required"`
	StudentID string           `json:"student_id" validate:"required"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status" validate:"required"`
}

// Build implements repository.Fields.
func (f AttendanceFields) Build(id string) AttendanceRecord {
	return AttendanceRecord{
		ID:        id,
		LessonID:  f.LessonID,
		GroupID:   f.GroupID,
		StudentID: f.StudentID,
		Date:      f.Date,
		Status:    f.Status,
	}
}

// AttendancePatch lists the AttendanceRecord fields to overwrite.
type AttendancePatch struct {
	Date   *string
	Status *AttendanceStatus
}

// Apply merges the patch onto a.
func (p AttendancePatch) Apply(a *AttendanceRecord) {
	set(&a.Date, p.Date)
	set(&a.Status, p.Status)
}

// PointFields are the caller-supplied fields of a new StudentPoint.
type PointFields struct {
	StudentID string `json:"student_id" validate:"required"`
	GroupID   string `json:"group_id"`
	Points    int    `json:"points" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
	Date      string `json:"date"`
}

// Build implements repository.Fields.
func (f PointFields) Build(id string) StudentPoint {
	return StudentPoint{
		ID:        id,
		StudentID: f.StudentID,
		GroupID:   f.GroupID,
		Points:    f.Points,
		Reason:    f.Reason,
		Date:      f.Date,
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
