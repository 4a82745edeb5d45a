// Package admin is the store behind the admin portal: teachers, students,
// payments, shop products and the admin activity feed.
package admin

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/educrm/educrm-hub/internal/application/store"
	"github.com/educrm/educrm-hub/internal/domain/activity"
	entity "github.com/educrm/educrm-hub/internal/domain/admin"
	"github.com/educrm/educrm-hub/internal/domain/shared"
	"github.com/educrm/educrm-hub/internal/infrastructure/fixtures"
	"github.com/educrm/educrm-hub/internal/infrastructure/repository"
	"github.com/educrm/educrm-hub/pkg/idgen"
	"github.com/educrm/educrm-hub/pkg/timeutil"
)

// Name identifies the admin store in logs, metrics and change events.
const Name = "admin"

// Snapshot is an immutable view of the admin store. Slices must not be
// modified.
type Snapshot struct {
	Teachers   []entity.Teacher  `json:"teachers"`
	Students   []entity.Student  `json:"students"`
	Payments   []entity.Payment  `json:"payments"`
	Products   []entity.Product  `json:"products"`
	Activities []activity.Record `json:"activities"`
	Change     shared.Change     `json:"change"`
}

// Config configures a Store.
type Config struct {
	// IDs issues record and activity identifiers. Required.
	IDs idgen.Generator

	// Seed is loaded at construction.
	Seed fixtures.Admin

	// Validate runs presence checks. Optional.
	Validate *validator.Validate
}

// Store is the admin store. It is safe for concurrent use.
type Store struct {
	core *store.Core[Snapshot]

	teachers *repository.Repository[entity.Teacher]
	students *repository.Repository[entity.Student]
	payments *repository.Repository[entity.Payment]
	products *repository.Repository[entity.Product]
	feed     *activity.Log
}

// New creates a Store loaded with cfg.Seed.
func New(cfg Config, opts store.Options) (*Store, error) {
	if cfg.IDs == nil {
		return nil, errors.New("admin: id generator is required")
	}
	repo := func(kind string) repository.Config {
		return repository.Config{Domain: Name, Kind: kind, IDs: cfg.IDs, Validate: cfg.Validate}
	}

	s := &Store{
		core:     store.NewCore[Snapshot](Name, opts),
		teachers: repository.New[entity.Teacher](repo("teacher")),
		students: repository.New[entity.Student](repo("student")),
		payments: repository.New[entity.Payment](repo("payment")),
		products: repository.New[entity.Product](repo("product")),
	}
	s.teachers.Seed(cfg.Seed.Teachers...)
	s.students.Seed(cfg.Seed.Students...)
	s.payments.Seed(cfg.Seed.Payments...)
	s.products.Seed(cfg.Seed.Products...)
	s.feed = activity.NewLog(cfg.IDs, opts.Clock, cfg.Seed.Activities...)
	return s, nil
}

// ── Teachers ────────────────────────────────────────────────────────────────

// AddTeacher adds a teacher. An empty join date becomes today.
func (s *Store) AddTeacher(f entity.TeacherFields) (entity.Teacher, error) {
	if f.JoinDate == "" {
		f.JoinDate = s.today()
	}
	var added entity.Teacher
	err := s.commit("AddTeacher", func() (string, error) {
		t, err := s.teachers.Add(f)
		if err != nil {
			return "", err
		}
		added = t
		s.feed.Record(activity.KindTeacher, fmt.Sprintf("New teacher %s added", t.Name))
		return t.ID, nil
	})
	return added, err
}

// UpdateTeacher merges patch onto the teacher with id. Unknown ids change
// nothing and return a NotFound error.
func (s *Store) UpdateTeacher(id string, patch entity.TeacherPatch) error {
	return s.commit("UpdateTeacher", func() (string, error) {
		_, err := s.teachers.Update(id, patch.Apply)
		return id, err
	})
}

// DeleteTeacher removes the teacher with id.
func (s *Store) DeleteTeacher(id string) error {
	return s.commit("DeleteTeacher", func() (string, error) {
		t, err := s.teachers.Remove(id)
		if err != nil {
			return "", err
		}
		s.feed.Record(activity.KindTeacher, fmt.Sprintf("Teacher %s removed", t.Name))
		return id, nil
	})
}

// ── Students ────────────────────────────────────────────────────────────────

// AddStudent registers a student. An empty join date becomes today.
func (s *Store) AddStudent(f entity.StudentFields) (entity.Student, error) {
	if f.JoinDate == "" {
		f.JoinDate = s.today()
	}
	var added entity.Student
	err := s.commit("AddStudent", func() (string, error) {
		st, err := s.students.Add(f)
		if err != nil {
			return "", err
		}
		added = st
		s.feed.Record(activity.KindRegistration, fmt.Sprintf("%s registered for %s", st.Name, st.Course))
		return st.ID, nil
	})
	return added, err
}

// UpdateStudent merges patch onto the student with id.
func (s *Store) UpdateStudent(id string, patch entity.StudentPatch) error {
	return s.commit("UpdateStudent", func() (string, error) {
		_, err := s.students.Update(id, patch.Apply)
		return id, err
	})
}

// DeleteStudent removes the student with id. Teacher-side records that
// reference the student are not touched here; see portal.DeleteStudent.
func (s *Store) DeleteStudent(id string) error {
	return s.commit("DeleteStudent", func() (string, error) {
		st, err := s.students.Remove(id)
		if err != nil {
			return "", err
		}
		s.feed.Record(activity.KindRegistration, fmt.Sprintf("Student %s removed", st.Name))
		return id, nil
	})
}

// StudentName returns the display name of the student with id.
func (s *Store) StudentName(id string) (string, bool) {
	var (
		name string
		ok   bool
	)
	s.core.Read(func(shared.Change) {
		var st entity.Student
		if st, ok = s.students.Get(id); ok {
			name = st.Name
		}
	})
	return name, ok
}

// ── Payments ────────────────────────────────────────────────────────────────

// AddPayment records a payment.
func (s *Store) AddPayment(f entity.PaymentFields) (entity.Payment, error) {
	if f.Date == "" {
		f.Date = s.today()
	}
	var added entity.Payment
	err := s.commit("AddPayment", func() (string, error) {
		p, err := s.payments.Add(f)
		if err != nil {
			return "", err
		}
		added = p
		s.feed.Record(activity.KindPayment, fmt.Sprintf("Payment received from %s", p.StudentName))
		return p.ID, nil
	})
	return added, err
}

// UpdatePayment merges patch onto the payment with id.
func (s *Store) UpdatePayment(id string, patch entity.PaymentPatch) error {
	return s.commit("UpdatePayment", func() (string, error) {
		_, err := s.payments.Update(id, patch.Apply)
		return id, err
	})
}

// DeletePayment removes the payment with id.
func (s *Store) DeletePayment(id string) error {
	return s.commit("DeletePayment", func() (string, error) {
		p, err := s.payments.Remove(id)
		if err != nil {
			return "", err
		}
		s.feed.Record(activity.KindPayment, fmt.Sprintf("Payment from %s removed", p.StudentName))
		return id, nil
	})
}

// ── Products ────────────────────────────────────────────────────────────────

// AddProduct adds a product to the shop.
func (s *Store) AddProduct(f entity.ProductFields) (entity.Product, error) {
	var added entity.Product
	err := s.commit("AddProduct", func() (string, error) {
		p, err := s.products.Add(f)
		if err != nil {
			return "", err
		}
		added = p
		s.feed.Record(activity.KindProduct, fmt.Sprintf("%s added to shop", p.Name))
		return p.ID, nil
	})
	return added, err
}

// UpdateProduct merges patch onto the product with id.
func (s *Store) UpdateProduct(id string, patch entity.ProductPatch) error {
	return s.commit("UpdateProduct", func() (string, error) {
		_, err := s.products.Update(id, patch.Apply)
		return id, err
	})
}

// DeleteProduct removes the product with id.
func (s *Store) DeleteProduct(id string) error {
	return s.commit("DeleteProduct", func() (string, error) {
		p, err := s.products.Remove(id)
		if err != nil {
			return "", err
		}
		s.feed.Record(activity.KindProduct, fmt.Sprintf("%s removed from shop", p.Name))
		return id, nil
	})
}

// ── Activity ────────────────────────────────────────────────────────────────

// RecordActivity prepends a free-form entry to the admin feed.
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
		Teachers:   s.teachers.All(),
		Students:   s.students.All(),
		Payments:   s.payments.All(),
		Products:   s.products.All(),
		Activities: s.feed.Entries(),
		Change:     change,
	}
}

func (s *Store) today() string {
	return timeutil.FormatDateStr(s.core.Now())
}
