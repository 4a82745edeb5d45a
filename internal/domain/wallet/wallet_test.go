package wallet

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educrm/educrm-hub/internal/domain/teaching"
)

func counter() func() string {
	n := 0
	return func() string {
		n++
		return "sa" + strconv.Itoa(n)
	}
}

func samplePoints() []teaching.StudentPoint {
	return []teaching.StudentPoint{
		{ID: "p1", StudentID: "1", Points: 10, Reason: "Participated", Date: "2024-07-20"},
		{ID: "p2", StudentID: "1", Points: 5, Reason: "Homework", Date: "2024-07-21"},
		{ID: "p3", StudentID: "2", Points: 7, Reason: "Helped a peer", Date: "2024-07-22"},
	}
}

func TestDerive_SumsOwnedPointsNewestFirst(t *testing.T) {
	w := Wallet{}.Derive("1", samplePoints(), counter())

	assert.Equal(t, "1", w.StudentID)
	assert.Equal(t, 15, w.TotalPoints)
	require.Len(t, w.Activities, 2)
	assert.Equal(t, "Homework", w.Activities[0].Message)
	assert.Equal(t, "Participated", w.Activities[1].Message)
	for _, a := range w.Activities {
		assert.Equal(t, Earned, a.Direction)
	}

	other := Wallet{}.Derive("2", samplePoints(), counter())
	assert.Equal(t, 7, other.TotalPoints)
	assert.Len(t, other.Activities, 1)
}

func TestDerive_KeepsAchievements(t *testing.T) {
	w := Wallet{Achievements: []Achievement{{ID: "ach1", Name: "Top Scorer"}}}
	w = w.Derive("9", samplePoints(), counter())

	assert.Equal(t, 0, w.TotalPoints)
	assert.Empty(t, w.Activities)
	assert.Len(t, w.Achievements, 1)
}

func TestSpend_BalanceGuard(t *testing.T) {
	w := Wallet{TotalPoints: 10}

	w, ok := w.Spend(5, "Notebook", "s1", "Just now")
	require.True(t, ok)
	assert.Equal(t, 5, w.TotalPoints)
	require.Len(t, w.Activities, 1)
	assert.Equal(t, Spent, w.Activities[0].Direction)
	assert.Equal(t, -5, w.Activities[0].PointsChange)
	assert.Equal(t, "Bought Notebook", w.Activities[0].Message)

	after, ok := w.Spend(6, "Calculator", "s2", "Just now")
	assert.False(t, ok)
	assert.Equal(t, w, after)

	_, ok = w.Spend(-1, "Refund", "s3", "Just now")
	assert.False(t, ok)
}

func TestSpend_ExactBalanceSucceeds(t *testing.T) {
	w, ok := Wallet{TotalPoints: 5}.Spend(5, "Pen", "s1", "Just now")
	assert.True(t, ok)
	assert.Equal(t, 0, w.TotalPoints)
}

func TestEarn_LeavesOriginalUntouched(t *testing.T) {
	base := Wallet{TotalPoints: 1, Activities: []StudentActivity{{ID: "old"}}}
	next := base.Earn(4, "Quiz", "new", "Just now")

	assert.Equal(t, 5, next.TotalPoints)
	assert.Equal(t, "new", next.Activities[0].ID)
	assert.Len(t, base.Activities, 1)
	assert.Equal(t, "old", base.Activities[0].ID)
}

func TestEarnAchievement_Idempotent(t *testing.T) {
	w := Wallet{Achievements: []Achievement{{ID: "ach1", Name: "Perfect Attendance"}}}

	w, changed := w.EarnAchievement(Achievement{Name: "Perfect Attendance"}, "x1", "2024-07-01")
	require.True(t, changed)
	w, changed = w.EarnAchievement(Achievement{Name: "Perfect Attendance"}, "x2", "2024-08-01")
	assert.False(t, changed)

	require.Len(t, w.Achievements, 1)
	assert.Equal(t, "ach1", w.Achievements[0].ID)
	assert.Equal(t, "2024-07-01", w.Achievements[0].EarnedDate)
}

func TestEarnAchievement_UnknownNameAppended(t *testing.T) {
	base := Wallet{}
	w, changed := base.EarnAchievement(Achievement{Name: "Bookworm", Icon: "Book"}, "ach9", "2024-07-01")
	require.True(t, changed)

	require.Len(t, w.Achievements, 1)
	assert.Equal(t, "ach9", w.Achievements[0].ID)
	assert.True(t, w.Achievements[0].Earned())
	assert.Len(t, w.EarnedAchievements(), 1)
	assert.Empty(t, base.Achievements)

	w, changed = w.EarnAchievement(Achievement{Name: "Bookworm"}, "ach10", "2024-09-01")
	assert.False(t, changed)
	assert.Len(t, w.Achievements, 1)
}
