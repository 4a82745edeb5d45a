package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educrm/educrm-hub/internal/application/store"
	"github.com/educrm/educrm-hub/internal/domain/teaching"
	"github.com/educrm/educrm-hub/internal/domain/wallet"
	"github.com/educrm/educrm-hub/internal/infrastructure/fixtures"
	"github.com/educrm/educrm-hub/pkg/idgen"
)

// pointsTable returns every record regardless of the student asked for.
type pointsTable []teaching.StudentPoint

func (p pointsTable) StudentPoints(string) []teaching.StudentPoint { return p }

var scenario = pointsTable{
	{ID: "p1", StudentID: "1", Points: 10, Reason: "quiz"},
	{ID: "p2", StudentID: "1", Points: 5, Reason: "homework"},
	{ID: "p3", StudentID: "2", Points: 7, Reason: "project"},
}

func newStore(t *testing.T, points PointsReader, now *time.Time) *Store {
	t.Helper()
	s, err := New(Config{IDs: &idgen.Sequence{}, Points: points, Achievements: fixtures.Achievements()},
		store.Options{Clock: func() time.Time { return *now }})
	require.NoError(t, err)
	return s
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{IDs: &idgen.Sequence{}}, store.Options{})
	assert.Error(t, err)
	_, err = New(Config{Points: scenario}, store.Options{})
	assert.Error(t, err)
}

func TestSelect_DerivesBalanceAndFeed(t *testing.T) {
	now := time.Date(2024, 7, 30, 0, 0, 0, 0, time.UTC)
	s := newStore(t, scenario, &now)

	require.NoError(t, s.Select("1"))
	snap := s.Snapshot()
	assert.True(t, snap.Selected)
	assert.Equal(t, 15, snap.Wallet.TotalPoints)
	require.Len(t, snap.Wallet.Activities, 2)
	assert.Equal(t, "homework", snap.Wallet.Activities[0].Message, "newest first")
	assert.Equal(t, wallet.Earned, snap.Wallet.Activities[0].Direction)

	require.NoError(t, s.Select("2"))
	snap = s.Snapshot()
	assert.Equal(t, 7, snap.Wallet.TotalPoints)
	assert.Len(t, snap.Wallet.Activities, 1)
}

// growingSource is a point source the test appends to.
type growingSource struct{ points []teaching.StudentPoint }

func (g *growingSource) StudentPoints(string) []teaching.StudentPoint { return g.points }

func TestSelect_IsPointInTime(t *testing.T) {
	now := time.Now()
	source := &growingSource{points: []teaching.StudentPoint{{ID: "p1", StudentID: "1", Points: 10, Reason: "quiz"}}}
	s := newStore(t, source, &now)

	require.NoError(t, s.Select("1"))
	source.points = append(source.points, teaching.StudentPoint{ID: "p2", StudentID: "1", Points: 5, Reason: "late award"})
	assert.Equal(t, 10, s.Snapshot().Wallet.TotalPoints)

	require.NoError(t, s.Select("1"))
	assert.Equal(t, 15, s.Snapshot().Wallet.TotalPoints)
}

func TestSpend_BalanceGuard(t *testing.T) {
	now := time.Now()
	s := newStore(t, scenario, &now)
	require.NoError(t, s.Select("2"))
	require.NoError(t, s.EarnPoints(3, "bonus"))
	require.Equal(t, 10, s.Snapshot().Wallet.TotalPoints)

	assert.True(t, s.Spend(5, "Premium Notebook"))
	snap := s.Snapshot()
	assert.Equal(t, 5, snap.Wallet.TotalPoints)
	assert.Equal(t, "Bought Premium Notebook", snap.Wallet.Activities[0].Message)
	assert.Equal(t, -5, snap.Wallet.Activities[0].PointsChange)
	assert.Equal(t, wallet.Spent, snap.Wallet.Activities[0].Direction)

	version := snap.Change.Version
	assert.False(t, s.Spend(6, "Scientific Calculator"))
	after := s.Snapshot()
	assert.Equal(t, 5, after.Wallet.TotalPoints)
	assert.Equal(t, version, after.Change.Version, "a refused spend commits nothing")
	assert.Len(t, after.Wallet.Activities, len(snap.Wallet.Activities))

	assert.True(t, s.Spend(5, "Eraser"), "spending the exact balance succeeds")
	assert.Zero(t, s.Snapshot().Wallet.TotalPoints)
	assert.False(t, s.Spend(-1, "refund"))
}

func TestEarnPoints_RejectsBadInput(t *testing.T) {
	now := time.Now()
	s := newStore(t, scenario, &now)

	assert.Error(t, s.EarnPoints(0, "nothing"))
	assert.Error(t, s.EarnPoints(5, ""))
}

func TestEarnAchievement_Idempotent(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	s := newStore(t, scenario, &now)
	require.NoError(t, s.Select("1"))

	assert.True(t, s.EarnAchievement("Top Scorer", "", ""))
	now = now.AddDate(0, 0, 3)
	assert.False(t, s.EarnAchievement("Top Scorer", "", ""))

	earned := s.Snapshot().Wallet.EarnedAchievements()
	require.Len(t, earned, 1)
	assert.Equal(t, "2024-07-01", earned[0].EarnedDate)
	assert.Equal(t, "ach2", earned[0].ID)

	assert.True(t, s.EarnAchievement("Early Bird", "Joined before 8am", "Sun"))
	all := s.Snapshot().Wallet.Achievements
	require.Len(t, all, 5)
	assert.Equal(t, "2024-07-04", all[4].EarnedDate)
}

func TestClear_ResetsWallet(t *testing.T) {
	now := time.Now()
	s := newStore(t, scenario, &now)
	require.NoError(t, s.Select("1"))
	s.EarnAchievement("Top Scorer", "", "")

	s.Clear()

	snap := s.Snapshot()
	assert.False(t, snap.Selected)
	assert.Zero(t, snap.Wallet.TotalPoints)
	assert.Empty(t, snap.Wallet.EarnedAchievements())
	assert.Len(t, snap.Wallet.Achievements, 4)
}

func TestSelect_RequiresID(t *testing.T) {
	now := time.Now()
	s := newStore(t, scenario, &now)
	assert.Error(t, s.Select(""))
}
