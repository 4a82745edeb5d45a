// Package fixtures holds the seed data loaded into the stores at start-up
// when seeding is enabled.
package fixtures

import (
	"strconv"

	"github.com/educrm/educrm-hub/internal/domain/activity"
	"github.com/educrm/educrm-hub/internal/domain/admin"
	"github.com/educrm/educrm-hub/internal/domain/identity"
	"github.com/educrm/educrm-hub/internal/domain/teaching"
	"github.com/educrm/educrm-hub/internal/domain/wallet"
)

// Directory returns the demo identity directory. hashes maps usernames to
// bcrypt hashes and may be nil in demo mode.
func Directory(hashes map[string][]byte) (*identity.Directory, error) {
	entries := []identity.Entry{
		{Identity: identity.Identity{ID: "1", Username: "admin", Role: identity.RoleAdmin, DisplayName: "Admin User"}},
		{Identity: identity.Identity{ID: "2", Username: "teacher", Role: identity.RoleTeacher, DisplayName: "John Teacher"}},
		{Identity: identity.Identity{ID: "3", Username: "student", Role: identity.RoleStudent, DisplayName: "Jane Student"}},
	}
	for i := range entries {
		entries[i].PasswordHash = hashes[entries[i].Username]
	}
	return identity.NewDirectory(entries...)
}

// Admin is the seed content of the admin store.
type Admin struct {
	Teachers   []admin.Teacher
	Students   []admin.Student
	Payments   []admin.Payment
	Products   []admin.Product
	Activities []activity.Record
}

// AdminData returns fresh copies of the admin seed data.
func AdminData() Admin {
	return Admin{
		Teachers: []admin.Teacher{
			{ID: "1", Name: "John Smith", Email: "john@educrm.com", Subject: "Mathematics", Phone: "+1234567890", Salary: 2500, StudentCount: 12, JoinDate: "2024-01-15", Status: admin.StatusActive},
			{ID: "2", Name: "Sarah Johnson", Email: "sarah@educrm.com", Subject: "English", Phone: "+1234567891", Salary: 3000, StudentCount: 15, JoinDate: "2024-02-01", Status: admin.StatusActive},
			{ID: "3", Name: "Mike Wilson", Email: "mike@educrm.com", Subject: "Science", Phone: "+1234567892", Salary: 1800, StudentCount: 8, JoinDate: "2024-03-10", Status: admin.StatusActive},
			{ID: "4", Name: "Lisa Brown", Email: "lisa@educrm.com", Subject: "History", Phone: "+1234567893", Salary: 2200, StudentCount: 10, JoinDate: "2024-01-20", Status: admin.StatusActive},
		},
		Students: []admin.Student{
			{ID: "1", Name: "Alice Johnson", Email: "alice@student.com", Phone: "+1234567894", Course: "Math Class", Teacher: "John Smith", Fee: 500, JoinDate: "2024-01-20", Status: admin.StatusActive, PaymentStatus: admin.PaymentPaid},
			{ID: "2", Name: "Bob Smith", Email: "bob@student.com", Phone: "+1234567895", Course: "English Class", Teacher: "Sarah Johnson", Fee: 450, JoinDate: "2024-02-15", Status: admin.StatusActive, PaymentStatus: admin.PaymentPending},
		},
		Payments: []admin.Payment{
			{ID: "1", StudentID: "1", StudentName: "Alice Johnson", Amount: 500, Date: "2024-07-01", Status: admin.TransactionCompleted, Method: admin.MethodCard},
			{ID: "2", StudentID: "2", StudentName: "Bob Smith", Amount: 450, Date: "2024-07-15", Status: admin.TransactionPending, Method: admin.MethodCash},
		},
		Products: []admin.Product{
			{ID: "1", Name: "Premium Notebook", Description: "High-quality notebook for students", Price: 25, Category: "Stationery", Stock: 50, Image: "/notebook.png"},
			{ID: "2", Name: "Scientific Calculator", Description: "Advanced calculator for math classes", Price: 85, Category: "Electronics", Stock: 20, Image: "/scientific-calculator.webp"},
		},
		Activities: []activity.Record{
			{ID: "1", Kind: activity.KindRegistration, Message: "Alice Johnson registered for Math class", Timestamp: "2 hours ago"},
			{ID: "2", Kind: activity.KindPayment, Message: "Monthly fee payment from Bob Smith", Timestamp: "4 hours ago"},
			{ID: "3", Kind: activity.KindProduct, Message: "Premium notebook added to shop", Timestamp: "6 hours ago"},
		},
	}
}

// Teaching is the seed content of the teacher store.
type Teaching struct {
	Groups     []teaching.Group
	Lessons    []teaching.Lesson
	Attendance []teaching.AttendanceRecord
	Points     []teaching.StudentPoint
	Activities []activity.Record
}

// TeachingData returns fresh copies of the teacher seed data.
func TeachingData() Teaching {
	return Teaching{
		Groups: []teaching.Group{
			{ID: "g1", Name: "Math A", Subject: "Mathematics", LessonTime: "09:00 - 10:30",
				LessonDays: []teaching.Weekday{teaching.Monday, teaching.Wednesday, teaching.Friday},
				StudentIDs: studentRange(1, 12), Active: true},
			{ID: "g2", Name: "Math B", Subject: "Mathematics", LessonTime: "14:00 - 15:30",
				LessonDays: []teaching.Weekday{teaching.Tuesday, teaching.Thursday},
				StudentIDs: studentRange(13, 22), Active: true},
			{ID: "g3", Name: "Physics A", Subject: "Physics", LessonTime: "11:00 - 12:30",
				LessonDays: []teaching.Weekday{teaching.Monday, teaching.Wednesday},
				StudentIDs: append([]string{"1", "2"}, studentRange(23, 28)...), Active: true},
			{ID: "g4", Name: "Chemistry A", Subject: "Chemistry", LessonTime: "16:00 - 17:30",
				LessonDays: []teaching.Weekday{teaching.Tuesday, teaching.Saturday},
				StudentIDs: studentRange(1, 15), Active: true},
		},
		Lessons: []teaching.Lesson{
			{ID: "l1", GroupID: "g1", Topic: "Introduction to Algebra", Date: "2024-01-15", Homework: "Complete exercises 1-10 in Chapter 2"},
			{ID: "l2", GroupID: "g1", Topic: "Linear Equations", Date: "2024-01-17", Homework: "Solve problems 1-15 in workbook"},
			{ID: "l3", GroupID: "g3", Topic: "Newton's Laws of Motion", Date: "2024-01-16", Homework: "Read Chapter 3 and answer questions"},
		},
		Attendance: []teaching.AttendanceRecord{
			{ID: "a1", LessonID: "l1", GroupID: "g1", StudentID: "1", Date: "2024-01-15", Status: teaching.Present},
			{ID: "a2", LessonID: "l1", GroupID: "g1", StudentID: "2", Date: "2024-01-15", Status: teaching.Present},
			{ID: "a3", LessonID: "l1", GroupID: "g1", StudentID: "3", Date: "2024-01-15", Status: teaching.Absent},
			{ID: "a4", LessonID: "l3", GroupID: "g3", StudentID: "1", Date: "2024-01-16", Status: teaching.Present},
			{ID: "a5", LessonID: "l3", GroupID: "g3", StudentID: "2", Date: "2024-01-16", Status: teaching.Late},
		},
		Points: []teaching.StudentPoint{
			{ID: "p1", StudentID: "1", GroupID: "g1", Points: 10, Reason: "Participated actively in class", Date: "2024-07-20"},
			{ID: "p2", StudentID: "2", GroupID: "g1", Points: 5, Reason: "Completed extra homework", Date: "2024-07-22"},
		},
		Activities: []activity.Record{
			{ID: "ta1", Kind: activity.KindLesson, Message: "Advanced Calculus - Math A group lesson completed", Timestamp: "1 hour ago"},
			{ID: "ta2", Kind: activity.KindHomework, Message: "15 students submitted Physics homework", Timestamp: "3 hours ago"},
			{ID: "ta3", Kind: activity.KindAttendance, Message: "Attendance taken Chemistry A - 14/15 students present", Timestamp: "5 hours ago"},
		},
	}
}

// Achievements returns the unearned achievement catalogue.
func Achievements() []wallet.Achievement {
	return []wallet.Achievement{
		{ID: "ach1", Name: "Perfect Attendance", Description: "Achieved perfect attendance for a month", Icon: "CalendarCheck"},
		{ID: "ach2", Name: "Top Scorer", Description: "Scored 90%+ in a major exam", Icon: "Award"},
		{ID: "ach3", Name: "Homework Master", Description: "Completed all homework assignments for a subject", Icon: "BookCheck"},
		{ID: "ach4", Name: "Active Participant", Description: "Consistently participated in class discussions", Icon: "MessageSquare"},
	}
}

func studentRange(from, to int) []string {
	ids := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		ids = append(ids, strconv.Itoa(i))
	}
	return ids
}
