// Package admin contains the records managed from the admin portal:
// teachers, students, payments and shop products.
package admin

// Status marks whether a teacher or student is currently enrolled.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// PaymentStatus tracks whether a student's fees are settled.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

// TransactionStatus is the state of a single payment.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

// Method is how a payment was made.
type Method string

const (
	MethodCash Method = "cash"
	MethodCard Method = "card"
	MethodBank Method = "bank"
)

// Teacher is a member of staff.
type Teacher struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Subject      string  `json:"subject"`
	Phone        string  `json:"phone"`
	Salary       float64 `json:"salary"`
	StudentCount int     `json:"student_count"`
	JoinDate     string  `json:"join_date"`
	Status       Status  `json:"status"`
}

// RecordID implements repository.Record.
func (t Teacher) RecordID() string { return t.ID }

// Student is an enrolled learner. Teacher holds the teacher's display name,
// not an id.
type Student struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Course        string        `json:"course"`
	Teacher       string        `json:"teacher"`
	Fee           float64       `json:"fee"`
	JoinDate      string        `json:"join_date"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// RecordID implements repository.Record.
func (s Student) RecordID() string { return s.ID }

// Payment is a fee payment made by a student.
type Payment struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	Amount      float64           `json:"amount"`
	Date        string            `json:"date"`
	Status      TransactionStatus `json:"status"`
	Method      Method            `json:"method"`
}

// RecordID implements repository.Record.
func (p Payment) RecordID() string { return p.ID }

// Product is an item sold in the student shop.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

// RecordID implements repository.Record.
func (p Product) RecordID() string { return p.ID }
