package portal

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/educrm/educrm-hub/config"
	"github.com/educrm/educrm-hub/internal/application/query"
	"github.com/educrm/educrm-hub/internal/domain/identity"
	"github.com/educrm/educrm-hub/internal/domain/shared"
	"github.com/educrm/educrm-hub/internal/domain/teaching"
	"github.com/educrm/educrm-hub/internal/infrastructure/security"
)

func testConfig(policy string) *config.Config {
	return &config.Config{
		App:  config.AppConfig{Name: "test", Environment: config.EnvDevelopment},
		Auth: config.AuthConfig{DemoMode: true, SharedSecret: "password", BcryptCost: bcrypt.MinCost},
		Store: config.StoreConfig{
			SeedFixtures:        true,
			ActivityPreview:     6,
			IDStrategy:          config.IDStrategySequence,
			StudentDeletePolicy: policy,
		},
		Observability: config.ObservabilityConfig{MetricsEnabled: true},
	}
}

func newPortal(t *testing.T, cfg *config.Config) *Portal {
	t.Helper()
	p, err := New(cfg, Options{
		Registerer: prometheus.NewRegistry(),
		Clock:      func() time.Time { return time.Date(2024, 7, 30, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)

	cfg := testConfig(config.DeletePolicyKeep)
	cfg.Store.IDStrategy = "clock"
	_, err = New(cfg, Options{Registerer: prometheus.NewRegistry()})
	assert.Error(t, err)
}

func TestStudentLoginDerivesWallet(t *testing.T) {
	p := newPortal(t, testConfig(config.DeletePolicyKeep))

	_, err := p.Teacher.AddStudentPoint(teaching.PointFields{StudentID: "3", GroupID: "g1", Points: 8, Reason: "Great project"})
	require.NoError(t, err)

	ok, err := p.Session.Login(context.Background(), "student", "password")
	require.NoError(t, err)
	require.True(t, ok)

	snap := p.Student.Snapshot()
	assert.True(t, snap.Selected)
	assert.Equal(t, "3", snap.Wallet.StudentID)
	assert.Equal(t, 8, snap.Wallet.TotalPoints)

	assert.True(t, p.Student.Spend(5, "Premium Notebook"))
	assert.False(t, p.Student.Spend(5, "Premium Notebook"))

	p.Session.Logout()
	assert.False(t, p.Student.Snapshot().Selected)
}

func TestDemoUserSwitchClearsStudent(t *testing.T) {
	p := newPortal(t, testConfig(config.DeletePolicyKeep))

	require.NoError(t, p.Session.SetDemoUser(identity.RoleStudent))
	assert.True(t, p.Student.Snapshot().Selected)

	require.NoError(t, p.Session.SetDemoUser(identity.RoleAdmin))
	assert.False(t, p.Student.Snapshot().Selected)
}

func TestPointMessagesUseAdminNames(t *testing.T) {
	p := newPortal(t, testConfig(config.DeletePolicyKeep))

	_, err := p.Teacher.AddStudentPoint(teaching.PointFields{StudentID: "2", Points: 4, Reason: "Neat notes"})
	require.NoError(t, err)

	assert.Equal(t, `Assigned 4 points to student Bob Smith for "Neat notes"`, p.Teacher.Snapshot().Activities[0].Message)
}

func TestDeleteStudent_Policies(t *testing.T) {
	t.Run("keep leaves references", func(t *testing.T) {
		p := newPortal(t, testConfig(config.DeletePolicyKeep))
		require.NoError(t, p.DeleteStudent("1"))
		assert.Len(t, p.Admin.Snapshot().Students, 1)
		assert.Equal(t, 6, p.Teacher.StudentReferences("1").Total())
	})

	t.Run("cascade purges references", func(t *testing.T) {
		p := newPortal(t, testConfig(config.DeletePolicyCascade))
		require.NoError(t, p.DeleteStudent("1"))
		assert.Len(t, p.Admin.Snapshot().Students, 1)
		assert.Zero(t, p.Teacher.StudentReferences("1").Total())
	})

	t.Run("cascade on unknown student", func(t *testing.T) {
		p := newPortal(t, testConfig(config.DeletePolicyCascade))
		err := p.DeleteStudent("nope")
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("reject while referenced", func(t *testing.T) {
		p := newPortal(t, testConfig(config.DeletePolicyReject))
		err := p.DeleteStudent("1")
		assert.ErrorIs(t, err, shared.ErrReferenced)
		assert.Len(t, p.Admin.Snapshot().Students, 2)

		_, err = p.Teacher.PurgeStudent("1")
		require.NoError(t, err)
		assert.NoError(t, p.DeleteStudent("1"))
	})
}

func TestQueriesAreWired(t *testing.T) {
	p := newPortal(t, testConfig(config.DeletePolicyKeep))

	dash, err := p.AdminDashboard.Handle(query.AdminDashboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, 500.0, dash.Revenue)

	overview, err := p.TeacherOverview.Handle(query.TeacherOverviewQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, overview.ActiveGroups)

	assert.Len(t, p.SearchTeachers.Handle(query.SearchTeachersQuery{Term: "math"}), 1)
}

func TestPerIdentityCredentials(t *testing.T) {
	hash, err := security.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	cfg := testConfig(config.DeletePolicyKeep)
	cfg.Auth.DemoMode = false
	cfg.Auth.PasswordHashes = map[string]string{"teacher": string(hash)}
	p := newPortal(t, cfg)

	ok, err := p.Session.Login(context.Background(), "teacher", "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Session.Login(context.Background(), "admin", "password")
	require.NoError(t, err)
	assert.False(t, ok, "the shared demo secret does not work outside demo mode")

	assert.ErrorIs(t, p.Session.SetDemoUser(identity.RoleAdmin), shared.ErrForbidden)
}
