// Package portal wires the stores, handlers and read models together. A
// Portal is built once per process and passed to whatever drives it.
package portal

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/educrm/educrm-hub/config"
	"github.com/educrm/educrm-hub/internal/application/eventhandler"
	"github.com/educrm/educrm-hub/internal/application/query"
	"github.com/educrm/educrm-hub/internal/application/store"
	adminstore "github.com/educrm/educrm-hub/internal/application/store/admin"
	"github.com/educrm/educrm-hub/internal/application/store/session"
	studentstore "github.com/educrm/educrm-hub/internal/application/store/student"
	teacherstore "github.com/educrm/educrm-hub/internal/application/store/teacher"
	"github.com/educrm/educrm-hub/internal/domain/identity"
	"github.com/educrm/educrm-hub/internal/domain/shared"
	"github.com/educrm/educrm-hub/internal/infrastructure/fixtures"
	"github.com/educrm/educrm-hub/internal/infrastructure/metrics"
	"github.com/educrm/educrm-hub/internal/infrastructure/security"
	"github.com/educrm/educrm-hub/pkg/idgen"
	"github.com/educrm/educrm-hub/pkg/logger"
	"github.com/educrm/educrm-hub/pkg/timeutil"
)

// Options are the process-level dependencies of a Portal.
type Options struct {
	Logger *logger.Logger

	// Registerer receives the metrics collectors when metrics are enabled.
	// Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer

	Clock timeutil.Clock
}

// Portal is the dependency container.
type Portal struct {
	Session *session.Store
	Admin   *adminstore.Store
	Teacher *teacherstore.Store
	Student *studentstore.Store

	AdminDashboard  *query.GetAdminDashboardHandler
	TeacherOverview *query.GetTeacherOverviewHandler
	SearchTeachers  *query.SearchTeachersHandler

	cfg    *config.Config
	log    *logger.Logger
	detach func()
}

// New builds every store once and wires the identity-changed handler.
func New(cfg *config.Config, opts Options) (*Portal, error) {
	if cfg == nil {
		return nil, errors.New("portal: config is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.SystemClock
	}

	var rec metrics.Recorder = metrics.Nop{}
	if cfg.Observability.MetricsEnabled {
		reg := opts.Registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		rec = metrics.NewCollector(reg)
	}

	ids, err := idgen.New(cfg.Store.IDStrategy)
	if err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}

	storeOpts := store.Options{Logger: opts.Logger, Metrics: rec, Clock: opts.Clock}

	dir, verifier, err := buildAuth(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}
	sessions, err := session.New(session.Config{
		Directory:  dir,
		Verifier:   verifier,
		LoginDelay: cfg.Auth.LoginDelay,
		DemoMode:   cfg.Auth.DemoMode,
	}, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}

	var (
		adminSeed   fixtures.Admin
		teachSeed   fixtures.Teaching
		achievement = fixtures.Achievements()
	)
	if cfg.Store.SeedFixtures {
		adminSeed, teachSeed = fixtures.AdminData(), fixtures.TeachingData()
	}

	admins, err := adminstore.New(adminstore.Config{IDs: ids, Seed: adminSeed}, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}
	teachers, err := teacherstore.New(teacherstore.Config{IDs: ids, Students: admins, Seed: teachSeed}, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}
	students, err := studentstore.New(studentstore.Config{
		IDs:          idgen.WithPrefix("sa", ids),
		Points:       teachers,
		Achievements: achievement,
	}, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}

	handler := eventhandler.NewOnIdentityChangedHandler(students, opts.Logger)
	preview := cfg.Store.ActivityPreview

	p := &Portal{
		Session:         sessions,
		Admin:           admins,
		Teacher:         teachers,
		Student:         students,
		AdminDashboard:  query.NewGetAdminDashboardHandler(admins, opts.Clock, preview),
		TeacherOverview: query.NewGetTeacherOverviewHandler(teachers, opts.Clock, preview),
		SearchTeachers:  query.NewSearchTeachersHandler(admins),
		cfg:             cfg,
		log:             opts.Logger.With(logger.Component("portal")),
		detach:          handler.Attach(sessions),
	}

	p.log.Info("portal ready",
		logger.Bool("demo_mode", cfg.Auth.DemoMode),
		logger.Bool("seeded", cfg.Store.SeedFixtures),
		logger.String("id_strategy", cfg.Store.IDStrategy),
		logger.String("student_delete_policy", cfg.Store.StudentDeletePolicy),
	)
	return p, nil
}

func buildAuth(cfg config.AuthConfig) (*identity.Directory, security.Verifier, error) {
	if cfg.DemoMode {
		dir, err := fixtures.Directory(nil)
		if err != nil {
			return nil, nil, err
		}
		secret, err := security.NewSharedSecret(cfg.SharedSecret, cfg.BcryptCost)
		if err != nil {
			return nil, nil, err
		}
		return dir, secret, nil
	}

	hashes := make(map[string][]byte, len(cfg.PasswordHashes))
	for user, hash := range cfg.PasswordHashes {
		hashes[user] = []byte(hash)
	}
	dir, err := fixtures.Directory(hashes)
	if err != nil {
		return nil, nil, err
	}
	return dir, security.PerIdentity{}, nil
}

// DeleteStudent removes a student from the admin store and applies the
// configured policy to the teacher-side records that reference them:
// keep leaves them dangling, cascade purges them, reject refuses the
// deletion while any exist.
func (p *Portal) DeleteStudent(id string) error {
	switch p.cfg.Store.StudentDeletePolicy {
	case config.DeletePolicyReject:
		if refs := p.Teacher.StudentReferences(id); refs.Total() > 0 {
			return shared.NewDomainError("portal", "DeleteStudent", shared.ErrReferenced,
				fmt.Sprintf("student %q is referenced by %d points, %d attendance records and %d groups",
					id, refs.Points, refs.Attendance, refs.Groups))
		}
		return p.Admin.DeleteStudent(id)

	case config.DeletePolicyCascade:
		if err := p.Admin.DeleteStudent(id); err != nil {
			return err
		}
		purged, err := p.Teacher.PurgeStudent(id)
		if err != nil {
			return err
		}
		p.log.Info("student references purged",
			logger.StudentID(id),
			logger.Int("points", purged.Points),
			logger.Int("attendance", purged.Attendance),
			logger.Int("groups", purged.Groups),
		)
		return nil

	default:
		return p.Admin.DeleteStudent(id)
	}
}

// Close detaches the identity-changed handler.
func (p *Portal) Close() {
	p.detach()
}
