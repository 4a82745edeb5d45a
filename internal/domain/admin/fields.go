package admin

// TeacherFields are the caller-supplied fields of a new Teacher.
type TeacherFields struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"required"`
	Subject      string  `json:"subject" validate:"required"`
	Phone        string  `json:"phone"`
	Salary       float64 `json:"salary"`
	StudentCount int     `json:"student_count"`
	JoinDate     string  `json:"join_date"`
	Status       Status  `json:"status"`
}

// Build implements repository.Fields.
func (f TeacherFields) Build(id string) Teacher {
	status := f.Status
	if status == "" {
		status = StatusActive
	}
	return Teacher{
		ID:           id,
		Name:         f.Name,
		Email:        f.Email,
		Subject:      f.Subject,
		Phone:        f.Phone,
		Salary:       f.Salary,
		StudentCount: f.StudentCount,
		JoinDate:     f.JoinDate,
		Status:       status,
	}
}

// TeacherPatch lists the Teacher fields to overwrite; nil fields are kept.
type TeacherPatch struct {
	Name         *string
	Email        *string
	Subject      *string
	Phone        *string
	Salary       *float64
	StudentCount *int
	JoinDate     *string
	Status       *Status
}

// Apply merges the patch onto t.
func (p TeacherPatch) Apply(t *Teacher) {
	set(&t.Name, p.Name)
	set(&t.Email, p.Email)
	set(&t.Subject, p.Subject)
	set(&t.Phone, p.Phone)
	set(&t.Salary, p.Salary)
	set(&t.StudentCount, p.StudentCount)
	set(&t.JoinDate, p.JoinDate)
	set(&t.Status, p.Status)
}

// StudentFields are the caller-supplied fields of a new Student.
type StudentFields struct {
	Name          string        `json:"name" validate:"required"`
	Email         string        `json:"email" validate:"required"`
	Phone         string        `json:"phone"`
	Course        string        `json:"course" validate:"required"`
	Teacher       string        `json:"teacher"`
	Fee           float64       `json:"fee"`
	JoinDate      string        `json:"join_date"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// Build implements repository.Fields.
func (f StudentFields) Build(id string) Student {
	s := Student{
		ID:            id,
		Name:          f.Name,
		Email:         f.Email,
		Phone:         f.Phone,
		Course:        f.Course,
		Teacher:       f.Teacher,
		Fee:           f.Fee,
		JoinDate:      f.JoinDate,
		Status:        f.Status,
		PaymentStatus: f.PaymentStatus,
	}
	if s.Status == "" {
		s.Status = StatusActive
	}
	if s.PaymentStatus == "" {
		s.PaymentStatus = PaymentPending
	}
	return s
}

// StudentPatch lists the Student fields to overwrite; nil fields are kept.
type StudentPatch struct {
	Name          *string
	Email         *string
	Phone         *string
	Course        *string
	Teacher       *string
	Fee           *float64
	JoinDate      *string
	Status        *Status
	PaymentStatus *PaymentStatus
}

// Apply merges the patch onto s.
func (p StudentPatch) Apply(s *Student) {
	set(&s.Name, p.Name)
	set(&s.Email, p.Email)
	set(&s.Phone, p.Phone)
	set(&s.Course, p.Course)
	set(&s.Teacher, p.Teacher)
	set(&s.Fee, p.Fee)
	set(&s.JoinDate, p.JoinDate)
	set(&s.Status, p.Status)
	set(&s.PaymentStatus, p.PaymentStatus)
}

// PaymentFields are the caller-supplied fields of a new Payment.
type PaymentFields struct {
	StudentID   string            `json:"student_id" validate:"required"`
	StudentName string            `json:"student_name" validate:"required"`
	Amount      float64           `json:"amount" validate:"required"`
	Date        string            `json:"date"`
	Status      TransactionStatus `json:"status"`
	Method      Method            `json:"method"`
}

// Build implements repository.Fields.
func (f PaymentFields) Build(id string) Payment {
	status := f.Status
	if status == "" {
		status = TransactionPending
	}
	return Payment{
		ID:          id,
		StudentID:   f.StudentID,
		StudentName: f.StudentName,
		Amount:      f.Amount,
		Date:        f.Date,
		Status:      status,
		Method:      f.Method,
	}
}

// PaymentPatch lists the Payment fields to overwrite; nil fields are kept.
type PaymentPatch struct {
	Amount *float64
	Date   *string
	Status *TransactionStatus
	Method *Method
}

// Apply merges the patch onto p.
func (p PaymentPatch) Apply(pay *Payment) {
	set(&pay.Amount, p.Amount)
	set(&pay.Date, p.Date)
	set(&pay.Status, p.Status)
	set(&pay.Method, p.Method)
}

// ProductFields are the caller-supplied fields of a new Product.
type ProductFields struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

// Build implements repository.Fields.
func (f ProductFields) Build(id string) Product {
	return Product{
		ID:          id,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Category:    f.Category,
		Stock:       f.Stock,
		Image:       f.Image,
	}
}

// ProductPatch lists the Product fields to overwrite; nil fields are kept.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
	Image       *string
}

// Apply merges the patch onto pr.
func (p ProductPatch) Apply(pr *Product) {
	set(&pr.Name, p.Name)
	set(&pr.Description, p.Description)
	set(&pr.Price, p.Price)
	set(&pr.Category, p.Category)
	set(&pr.Stock, p.Stock)
	set(&pr.Image, p.Image)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
