// Package teacher is the store behind the teacher portal: groups, lessons,
// attendance, reward points and the teacher activity feed.
package teacher

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/educrm/educrm-hub/internal/application/store"
	"github.com/educrm/educrm-hub/internal/domain/activity"
	"github.com/educrm/educrm-hub/internal/domain/shared"
	"github.com/educrm/educrm-hub/internal/domain/teaching"
	"github.com/educrm/educrm-hub/internal/infrastructure/fixtures"
	"github.com/educrm/educrm-hub/internal/infrastructure/repository"
	"github.com/educrm/educrm-hub/pkg/idgen"
	"github.com/educrm/educrm-hub/pkg/logger"
	"github.com/educrm/educrm-hub/pkg/timeutil"
)

// Name identifies the teacher store in logs, metrics and change events.
const Name = "teacher"

// StudentDirectory resolves student display names for activity messages.
type StudentDirectory interface {
	StudentName(id string) (string, bool)
}

// Snapshot is an immutable view of the teacher store. Slices must not be
// modified.
type Snapshot struct {
	Groups     []teaching.Group            `json:"groups"`
	Lessons    []teaching.Lesson           `json:"lessons"`
	Attendance []teaching.AttendanceRecord `json:"attendance"`
	Points     []teaching.StudentPoint     `json:"points"`
	Activities []activity.Record           `json:"activities"`
	Change     shared.Change               `json:"change"`
}

// References counts the teacher-side records pointing at one student.
type References struct {
	Points     int `json:"points"`
	Attendance int `json:"attendance"`
	Groups     int `json:"groups"`
}

// Total is the number of referencing records.
func (r References) Total() int {
	return r.Points + r.Attendance + r.Groups
}

// Config configures a Store.
type Config struct {
	// IDs issues record and activity identifiers. Required.
	IDs idgen.Generator

	// Students names students in point messages. Optional; without it the
	// student id is used.
	Students StudentDirectory

	// Seed is loaded at construction.
	Seed fixtures.Teaching

	// Validate runs presence checks. Optional.
	Validate *validator.Validate
}

// Store is the teacher store. It is safe for concurrent use.
type Store struct {
	core     *store.Core[Snapshot]
	log      *logger.Logger
	students StudentDirectory

	groups     *repository.Repository[teaching.Group]
	lessons    *repository.Repository[teaching.Lesson]
	attendance *repository.Repository[teaching.AttendanceRecord]
	points     *repository.Repository[teaching.StudentPoint]
	feed       *activity.Log
}

// New creates a Store loaded with cfg.Seed.
func New(cfg Config, opts store.Options) (*Store, error) {
	if cfg.IDs == nil {
		return nil, errors.New("teacher: id generator is required")
	}
	repo := func(kind string) repository.Config {
		return repository.Config{Domain: Name, Kind: kind, IDs: cfg.IDs, Validate: cfg.Validate}
	}

	core := store.NewCore[Snapshot](Name, opts)
	s := &Store{
		core:       core,
		log:        core.Logger(),
		students:   cfg.Students,
		groups:     repository.New[teaching.Group](repo("group")),
		lessons:    repository.New[teaching.Lesson](repo("lesson")),
		attendance: repository.New[teaching.AttendanceRecord](repo("attendance record")),
		points:     repository.New[teaching.StudentPoint](repo("student point")),
	}
	s.groups.Seed(cfg.Seed.Groups...)
	s.lessons.Seed(cfg.Seed.Lessons...)
	s.attendance.Seed(cfg.Seed.Attendance...)
	s.points.Seed(cfg.Seed.Points...)
	s.feed = activity.NewLog(cfg.IDs, opts.Clock, cfg.Seed.Activities...)
	return s, nil
}

// ── Groups ──────────────────────────────────────────────────────────────────

// AddGroup creates an active group.
func (s *Store) AddGroup(f teaching.GroupFields) (teaching.Group, error) {
	var added teaching.Group
	err := s.commit("AddGroup", func() (string, error) {
		g, err := s.groups.Add(f)
		if err != nil {
			return "", err
		}
		added = g
		s.feed.Record(activity.KindGroup, fmt.Sprintf("New group %q created", g.Name))
		return g.ID, nil
	})
	return added, err
}

// UpdateGroup merges patch onto the group with id.
func (s *Store) UpdateGroup(id string, patch teaching.GroupPatch) error {
	return s.commit("UpdateGroup", func() (string, error) {
		_, err := s.groups.Update(id, patch.Apply)
		return id, err
	})
}

// DeleteGroup removes the group with id together with its lessons and the
// attendance records of those lessons.
func (s *Store) DeleteGroup(id string) error {
	return s.commit("DeleteGroup", func() (string, error) {
		g, err := s.groups.Remove(id)
		if err != nil {
			return "", err
		}
		lessons := s.lessons.RemoveWhere(func(l teaching.Lesson) bool { return l.GroupID == id })
		records := s.removeAttendanceOf(lessons...)
		s.feed.Record(activity.KindGroup, fmt.Sprintf("Group %q deleted", g.Name))

		s.log.Debug("group cascade",
			logger.RecordID(id),
			logger.Int("lessons", len(lessons)),
			logger.Int("attendance", records),
		)
		return id, nil
	})
}

// AssignStudents replaces the member list of the group.
func (s *Store) AssignStudents(groupID string, studentIDs []string) error {
	return s.commit("AssignStudents", func() (string, error) {
		_, err := s.groups.Update(groupID, teaching.GroupPatch{StudentIDs: nonNil(studentIDs)}.Apply)
		return groupID, err
	})
}

// ── Lessons ─────────────────────────────────────────────────────────────────

// AddLesson adds a lesson to a group.
func (s *Store) AddLesson(f teaching.LessonFields) (teaching.Lesson, error) {
	var added teaching.Lesson
	err := s.commit("AddLesson", func() (string, error) {
		l, err := s.lessons.Add(f)
		if err != nil {
			return "", err
		}
		added = l
		group := l.GroupID
		if g, ok := s.groups.Get(l.GroupID); ok {
			group = g.Name
		}
		s.feed.Record(activity.KindLesson, fmt.Sprintf("New lesson %q added to group %s", l.Topic, group))
		return l.ID, nil
	})
	return added, err
}

// UpdateLesson merges patch onto the lesson with id.
func (s *Store) UpdateLesson(id string, patch teaching.LessonPatch) error {
	return s.commit("UpdateLesson", func() (string, error) {
		_, err := s.lessons.Update(id, patch.Apply)
		return id, err
	})
}

// DeleteLesson removes the lesson with id and its attendance records.
func (s *Store) DeleteLesson(id string) error {
	return s.commit("DeleteLesson", func() (string, error) {
		l, err := s.lessons.Remove(id)
		if err != nil {
			return "", err
		}
		s.removeAttendanceOf(l)
		s.feed.Record(activity.KindLesson, fmt.Sprintf("Lesson %q deleted", l.Topic))
		return id, nil
	})
}

// LessonsForGroup lists the lessons of a group in insertion order.
func (s *Store) LessonsForGroup(groupID string) []teaching.Lesson {
	var out []teaching.Lesson
	s.core.Read(func(shared.Change) {
		out = s.lessons.Filter(func(l teaching.Lesson) bool { return l.GroupID == groupID })
	})
	return out
}

func (s *Store) removeAttendanceOf(lessons ...teaching.Lesson) int {
	if len(lessons) == 0 {
		return 0
	}
	ids := make(map[string]struct{}, len(lessons))
	for _, l := range lessons {
		ids[l.ID] = struct{}{}
	}
	removed := s.attendance.RemoveWhere(func(a teaching.AttendanceRecord) bool {
		_, ok := ids[a.LessonID]
		return ok
	})
	return len(removed)
}

// ── Attendance ──────────────────────────────────────────────────────────────

// AddAttendance records one student's attendance at a lesson.
func (s *Store) AddAttendance(f teaching.AttendanceFields) (teaching.AttendanceRecord, error) {
	if f.Date == "" {
		f.Date = s.today()
	}
	var added teaching.AttendanceRecord
	err := s.commit("AddAttendance", func() (string, error) {
		a, err := s.attendance.Add(f)
		if err != nil {
			return "", err
		}
		added = a
		return a.ID, nil
	})
	return added, err
}

// UpdateAttendance merges patch onto the attendance record with id.
func (s *Store) UpdateAttendance(id string, patch teaching.AttendancePatch) error {
	return s.commit("UpdateAttendance", func() (string, error) {
		_, err := s.attendance.Update(id, patch.Apply)
		return id, err
	})
}

// AttendanceForLesson lists the attendance records of a lesson.
func (s *Store) AttendanceForLesson(lessonID string) []teaching.AttendanceRecord {
	var out []teaching.AttendanceRecord
	s.core.Read(func(shared.Change) {
		out = s.attendance.Filter(func(a teaching.AttendanceRecord) bool { return a.LessonID == lessonID })
	})
	return out
}

// ── Points ──────────────────────────────────────────────────────────────────

// AddStudentPoint awards points to a student.
func (s *Store) AddStudentPoint(f teaching.PointFields) (teaching.StudentPoint, error) {
	if f.Date == "" {
		f.Date = s.today()
	}
	name := f.StudentID
	if s.students != nil {
		if n, ok := s.students.StudentName(f.StudentID); ok {
			name = n
		}
	}

	var added teaching.StudentPoint
	err := s.commit("AddStudentPoint", func() (string, error) {
		p, err := s.points.Add(f)
		if err != nil {
			return "", err
		}
		added = p
		s.feed.Record(activity.KindPoint, fmt.Sprintf("Assigned %d points to student %s for %q", p.Points, name, p.Reason))
		return p.ID, nil
	})
	return added, err
}

// StudentPoints lists the point records of a student in award order.
func (s *Store) StudentPoints(studentID string) []teaching.StudentPoint {
	var out []teaching.StudentPoint
	s.core.Read(func(shared.Change) {
		out = s.points.Filter(func(p teaching.StudentPoint) bool { return p.StudentID == studentID })
	})
	return out
}

// ── Student references ──────────────────────────────────────────────────────

// StudentReferences counts the records that still point at studentID.
func (s *Store) StudentReferences(studentID string) References {
	var refs References
	s.core.Read(func(shared.Change) { refs = s.referencesLocked(studentID) })
	return refs
}

func (s *Store) referencesLocked(studentID string) References {
	var refs References
	for range s.points.Query(func(p teaching.StudentPoint) bool { return p.StudentID == studentID }) {
		refs.Points++
	}
	for range s.attendance.Query(func(a teaching.AttendanceRecord) bool { return a.StudentID == studentID }) {
		refs.Attendance++
	}
	for range s.groups.Query(func(g teaching.Group) bool { return g.HasStudent(studentID) }) {
		refs.Groups++
	}
	return refs
}

// PurgeStudent deletes the student's points and attendance records and
// removes them from every group. It returns what was removed.
func (s *Store) PurgeStudent(studentID string) (References, error) {
	var purged References
	err := s.commit("PurgeStudent", func() (string, error) {
		purged.Points = len(s.points.RemoveWhere(func(p teaching.StudentPoint) bool { return p.StudentID == studentID }))
		purged.Attendance = len(s.attendance.RemoveWhere(func(a teaching.AttendanceRecord) bool { return a.StudentID == studentID }))
		purged.Groups = s.groups.UpdateWhere(
			func(g teaching.Group) bool { return g.HasStudent(studentID) },
			func(g *teaching.Group) {
				g.StudentIDs = slices.DeleteFunc(slices.Clone(g.StudentIDs), func(id string) bool { return id == studentID })
			},
		)
		return studentID, nil
	})
	return purged, err
}

// ── Activity ────────────────────────────────────────────────────────────────

// RecordActivity prepends a free-form entry to the teacher feed.
func (s *Store) RecordActivity(kind activity.Kind, message string) (activity.Record, error) {
	if !kind.IsValid() || message == "" {
		return activity.Record{}, shared.NewDomainError(Name, "RecordActivity", shared.ErrInvalidInput,
			fmt.Sprintf("activity needs a known kind and a message, got kind %q", kind))
	}
	var rec activity.Record
	err := s.commit("RecordActivity", func() (string, error) {
		rec = s.feed.Record(kind, message)
		return rec.ID, nil
	})
	return rec, err
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	var snap Snapshot
	s.core.Read(func(last shared.Change) { snap = s.snapshotLocked(last) })
	return snap
}

// Subscribe registers fn for every committed change and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	return s.core.Subscribe(fn)
}

func (s *Store) commit(op string, edit func() (string, error)) error {
	return s.core.Commit(op, edit, s.snapshotLocked)
}

func (s *Store) snapshotLocked(change shared.Change) Snapshot {
	return Snapshot{
		Groups:     s.groups.All(),
		Lessons:    s.lessons.All(),
		Attendance: s.attendance.All(),
		Points:     s.points.All(),
		Activities: s.feed.Entries(),
		Change:     change,
	}
}

func (s *Store) today() string {
	return timeutil.FormatDateStr(s.core.Now())
}

// nonNil keeps an explicit empty member list distinct from "no change" in
// GroupPatch.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
