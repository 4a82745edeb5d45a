// Package teaching contains the records a teacher manages: groups, lessons,
// attendance and reward points. References between records are soft: they
// hold ids and nothing enforces that the referenced record exists.
package teaching

import "slices"

// Weekday is a day on which a group meets.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// AttendanceStatus records how a student attended a lesson.
type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
	Late    AttendanceStatus = "late"
)

// Attended reports whether the student was in the lesson, late or not.
func (s AttendanceStatus) Attended() bool {
	return s == Present || s == Late
}

// Group is a class of students that meets on a fixed schedule.
type Group struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Subject    string    `json:"subject"`
	LessonTime string    `json:"lesson_time"`
	LessonDays []Weekday `json:"lesson_days"`
	StudentIDs []string  `json:"student_ids"`
	Active     bool      `json:"active"`
}

// RecordID implements repository.Record.
func (g Group) RecordID() string { return g.ID }

// HasStudent reports whether studentID is a member of the group.
func (g Group) HasStudent(studentID string) bool {
	return slices.Contains(g.StudentIDs, studentID)
}

// Lesson is one meeting of a group.
type Lesson struct {
	ID       string `json:"id"`
	GroupID  string `json:"group_id"`
	Topic    string `json:"topic"`
	Date     string `json:"date"`
	Homework string `json:"homework"`
}

// RecordID implements repository.Record.
func (l Lesson) RecordID() string { return l.ID }

// AttendanceRecord is one student's attendance at one lesson.
type AttendanceRecord struct {
	ID        string           `json:"id"`
	LessonID  string           `json:"lesson_id"`
	GroupID   string           `json:"group_id"`
	StudentID string           `json:"student_id"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

// RecordID implements repository.Record.
func (a AttendanceRecord) RecordID() string { return a.ID }

// StudentPoint is a reward awarded by a teacher.
type StudentPoint struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	GroupID   string `json:"group_id"`
	Points    int    `json:"points"`
	Reason    string `json:"reason"`
	Date      string `json:"date"`
}

// RecordID implements repository.Record.
func (p StudentPoint) RecordID() string { return p.ID }

// SumPoints totals the points of the given records.
func SumPoints(points []StudentPoint) int {
	total := 0
	for _, p := range points {
		total += p.Points
	}
	return total
}
