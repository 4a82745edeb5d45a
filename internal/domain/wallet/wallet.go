// Package wallet models a student's reward points, the feed of point changes
// and the achievements they have unlocked.
package wallet

import (
	"fmt"
	"slices"

	"github.com/educrm/educrm-hub/internal/domain/teaching"
)

// Direction tells whether points were gained or spent.
type Direction string

const (
	Earned Direction = "earned"
	Spent  Direction = "spent"
)

// StudentActivity is one entry of a student's personal feed. PointsChange is
// negative for spending.
type StudentActivity struct {
	ID           string    `json:"id"`
	Direction    Direction `json:"direction"`
	Message      string    `json:"message"`
	PointsChange int       `json:"points_change"`
	Timestamp    string    `json:"timestamp"`
}

// Achievement is a one-time milestone keyed by Name. EarnedDate is empty
// until the achievement is earned.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	EarnedDate  string `json:"earned_date,omitempty"`
}

// Earned reports whether the achievement has been unlocked.
func (a Achievement) Earned() bool {
	return a.EarnedDate != ""
}

// Wallet is an immutable value; every method returns a new Wallet and leaves
// the receiver and its slices untouched.
type Wallet struct {
	StudentID    string            `json:"student_id"`
	TotalPoints  int               `json:"total_points"`
	Activities   []StudentActivity `json:"activities"`
	Achievements []Achievement     `json:"achievements"`
}

// Derive rebuilds the points total and feed for studentID from the teacher
// side point records. Only records owned by studentID count. The feed is
// newest-first, i.e. the reverse of record order. Achievements carry over.
func (w Wallet) Derive(studentID string, points []teaching.StudentPoint, newID func() string) Wallet {
	owned := make([]teaching.StudentPoint, 0, len(points))
	for _, p := range points {
		if p.StudentID == studentID {
			owned = append(owned, p)
		}
	}

	feed := make([]StudentActivity, 0, len(owned))
	for i := len(owned) - 1; i >= 0; i-- {
		p := owned[i]
		feed = append(feed, StudentActivity{
			ID:           fmt.Sprintf("%s-%s", newID(), p.ID),
			Direction:    Earned,
			Message:      p.Reason,
			PointsChange: p.Points,
			Timestamp:    p.Date,
		})
	}

	return Wallet{
		StudentID:    studentID,
		TotalPoints:  teaching.SumPoints(owned),
		Activities:   feed,
		Achievements: w.Achievements,
	}
}

// Earn adds points and prepends an earned entry.
func (w Wallet) Earn(points int, reason, id, timestamp string) Wallet {
	w.TotalPoints += points
	w.Activities = prepend(w.Activities, StudentActivity{
		ID:           id,
		Direction:    Earned,
		Message:      reason,
		PointsChange: points,
		Timestamp:    timestamp,
	})
	return w
}

// Spend deducts points for item. It succeeds only when the balance covers
// the amount; otherwise the receiver is returned unchanged with false.
// Negative amounts are refused.
func (w Wallet) Spend(points int, item, id, timestamp string) (Wallet, bool) {
	if points < 0 || points > w.TotalPoints {
		return w, false
	}
	w.TotalPoints -= points
	w.Activities = prepend(w.Activities, StudentActivity{
		ID:           id,
		Direction:    Spent,
		Message:      "Bought " + item,
		PointsChange: -points,
		Timestamp:    timestamp,
	})
	return w, true
}

// EarnAchievement unlocks the achievement called name on date. An unearned
// catalogue entry is stamped; an already earned one is left alone so the
// earliest date is kept; an unknown name is appended already earned.
// The boolean reports whether anything changed.
func (w Wallet) EarnAchievement(a Achievement, id, date string) (Wallet, bool) {
	idx := slices.IndexFunc(w.Achievements, func(existing Achievement) bool {
		return existing.Name == a.Name
	})

	switch {
	case idx >= 0 && w.Achievements[idx].Earned():
		return w, false
	case idx >= 0:
		next := slices.Clone(w.Achievements)
		next[idx].EarnedDate = date
		w.Achievements = next
	default:
		a.ID = id
		a.EarnedDate = date
		next := make([]Achievement, len(w.Achievements), len(w.Achievements)+1)
		copy(next, w.Achievements)
		w.Achievements = append(next, a)
	}
	return w, true
}

// EarnedAchievements returns the unlocked achievements in catalogue order.
func (w Wallet) EarnedAchievements() []Achievement {
	out := make([]Achievement, 0, len(w.Achievements))
	for _, a := range w.Achievements {
		if a.Earned() {
			out = append(out, a)
		}
	}
	return out
}

func prepend(feed []StudentActivity, a StudentActivity) []StudentActivity {
	next := make([]StudentActivity, len(feed)+1)
	next[0] = a
	copy(next[1:], feed)
	return next
}
