// Package student is the store behind the student portal: the signed-in
// student's points balance, personal feed and achievements.
//
// The balance is derived from the teacher-side point records when a student
// is selected. It is a point-in-time copy: points awarded afterwards are not
// picked up until the student is selected again.
package student

import (
	"errors"
	"fmt"

	"github.com/educrm/educrm-hub/internal/application/store"
	"github.com/educrm/educrm-hub/internal/domain/shared"
	"github.com/educrm/educrm-hub/internal/domain/teaching"
	"github.com/educrm/educrm-hub/internal/domain/wallet"
	"github.com/educrm/educrm-hub/pkg/idgen"
	"github.com/educrm/educrm-hub/pkg/logger"
	"github.com/educrm/educrm-hub/pkg/timeutil"
)

// Name identifies the student store in logs, metrics and change events.
const Name = "student"

// PointsReader is the read-only view of the point records the store derives
// balances from.
type PointsReader interface {
	StudentPoints(studentID string) []teaching.StudentPoint
}

// Snapshot is an immutable view of the student store.
type Snapshot struct {
	Wallet   wallet.Wallet `json:"wallet"`
	Selected bool          `json:"selected"`
	Change   shared.Change `json:"change"`
}

// Config configures a Store.
type Config struct {
	// IDs issues feed and achievement identifiers. Required.
	IDs idgen.Generator

	// Points is the source of point records. Required.
	Points PointsReader

	// Achievements is the catalogue every student starts from.
	Achievements []wallet.Achievement
}

// Store is the student store. It is safe for concurrent use.
type Store struct {
	core    *store.Core[Snapshot]
	log     *logger.Logger
	ids     idgen.Generator
	points  PointsReader
	catalog []wallet.Achievement

	// guarded by core
	wallet   wallet.Wallet
	selected bool
}

// New creates a Store with no student selected.
func New(cfg Config, opts store.Options) (*Store, error) {
	if cfg.IDs == nil {
		return nil, errors.New("student: id generator is required")
	}
	if cfg.Points == nil {
		return nil, errors.New("student: points reader is required")
	}
	core := store.NewCore[Snapshot](Name, opts)
	catalog := append([]wallet.Achievement(nil), cfg.Achievements...)
	return &Store{
		core:    core,
		log:     core.Logger(),
		ids:     cfg.IDs,
		points:  cfg.Points,
		catalog: catalog,
		wallet:  wallet.Wallet{Achievements: catalog},
	}, nil
}

// Select derives the balance and feed of studentID from the point records.
// Selecting another student resets achievements to the catalogue.
func (s *Store) Select(studentID string) error {
	if studentID == "" {
		return shared.NewDomainError(Name, "Select", shared.ErrInvalidInput, "student id is required")
	}
	points := s.points.StudentPoints(studentID)

	return s.commit("Select", func() (string, error) {
		base := s.wallet
		if base.StudentID != studentID {
			base = wallet.Wallet{Achievements: s.catalog}
		}
		s.wallet = base.Derive(studentID, points, s.ids.Next)
		s.selected = true

		s.log.Debug("wallet derived",
			logger.StudentID(studentID),
			logger.Points(s.wallet.TotalPoints),
			logger.Int("records", len(s.wallet.Activities)),
		)
		return studentID, nil
	})
}

// Clear drops the selected student.
func (s *Store) Clear() {
	_ = s.commit("Clear", func() (string, error) {
		s.wallet = wallet.Wallet{Achievements: s.catalog}
		s.selected = false
		return "", nil
	})
}

// EarnPoints adds points to the cached balance.
func (s *Store) EarnPoints(points int, reason string) error {
	if points <= 0 || reason == "" {
		return shared.NewDomainError(Name, "EarnPoints", shared.ErrInvalidInput,
			fmt.Sprintf("earning needs a positive amount and a reason, got %d", points))
	}
	return s.commit("EarnPoints", func() (string, error) {
		id := s.ids.Next()
		s.wallet = s.wallet.Earn(points, reason, id, timeutil.JustNow)
		return id, nil
	})
}

// Spend buys item for points. It succeeds, and reports true, only when the
// balance covers points; otherwise nothing changes.
func (s *Store) Spend(points int, item string) bool {
	err := s.commit("Spend", func() (string, error) {
		next, ok := s.wallet.Spend(points, item, s.ids.Next(), timeutil.JustNow)
		if !ok {
			return "", shared.NewDomainError(Name, "Spend", shared.ErrInsufficientBalance,
				fmt.Sprintf("cannot spend %d of %d points", points, s.wallet.TotalPoints))
		}
		s.wallet = next
		return next.Activities[0].ID, nil
	})
	return err == nil
}

// EarnAchievement unlocks the achievement called name today. Earning an
// already earned achievement changes nothing and keeps the date it was first earned.
// It reports whether the achievement was newly earned.
func (s *Store) EarnAchievement(name, description, icon string) bool {
	a := wallet.Achievement{Name: name, Description: description, Icon: icon}
	err := s.commit("EarnAchievement", func() (string, error) {
		next, changed := s.wallet.EarnAchievement(a, s.ids.Next(), timeutil.FormatDateStr(s.core.Now()))
		if !changed {
			return "", errAlreadyEarned
		}
		s.wallet = next
		return name, nil
	})
	return err == nil
}

var errAlreadyEarned = shared.NewDomainError(Name, "EarnAchievement", shared.ErrInvalidInput, "achievement already earned")

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
	return Snapshot{Wallet: s.wallet, Selected: s.selected, Change: change}
}
