package services

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type notifierNote struct {
	id      string
	title   string
	message string
}

type notifierStub struct {
	mu    sync.Mutex
	err   error
	notes []notifierNote
}

func (stub *notifierStub) Notify(id string, title string, message string) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.err != nil {
		return stub.err
	}
	stub.notes = append(stub.notes, notifierNote{id: id, title: title, message: message})
	return nil
}

func (stub *notifierStub) sent() []notifierNote {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return append([]notifierNote(nil), stub.notes...)
}

func TestReportFiresOnceAtThreshold(t *testing.T) {
	repos := openServiceRepositories(t)
	notifier := &notifierStub{}
	service := NewAchievementService(repos, notifier, time.UTC)

	fired, err := service.Report("user-1", GoalSteps, 10000)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !fired {
		t.Fatal("expected notification at threshold")
	}

	fired, err = service.Report("user-1", GoalSteps, 12000)
	if err != nil {
		t.Fatalf("second report: %v", err)
	}
	if fired {
		t.Fatal("expected at most one steps notification per day")
	}

	notes := notifier.sent()
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notes))
	}
	if !strings.Contains(notes[0].message, "10000 steps") {
		t.Fatalf("unexpected message: %q", notes[0].message)
	}
}

func TestReportIgnoresValuesBelowThreshold(t *testing.T) {
	repos := openServiceRepositories(t)
	notifier := &notifierStub{}
	service := NewAchievementService(repos, notifier, time.UTC)

	cases := []struct {
		goalType string
		value    float64
	}{
		{GoalSteps, 9999},
		{GoalCalories, 1999},
		{GoalWater, 7},
		{GoalSleep, 6.9},
	}
	for _, testCase := range cases {
		fired, err := service.Report("user-1", testCase.goalType, testCase.value)
		if err != nil {
			t.Fatalf("report %s: %v", testCase.goalType, err)
		}
		if fired {
			t.Fatalf("expected no notification for %s at %v", testCase.goalType, testCase.value)
		}
	}
	if len(notifier.sent()) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notifier.sent()))
	}
}

func TestSleepGoalRewardsHealthyRangeOnly(t *testing.T) {
	repos := openServiceRepositories(t)
	notifier := &notifierStub{}
	service := NewAchievementService(repos, notifier, time.UTC)

	if fired, _ := service.Report("user-1", GoalSleep, 12); fired {
		t.Fatal("oversleeping should not count as reaching the goal")
	}
	if fired, err := service.Report("user-1", GoalSleep, 8); err != nil || !fired {
		t.Fatalf("expected notification for 8h sleep, fired=%v err=%v", fired, err)
	}
}

func TestDifferentGoalTypesClaimIndependently(t *testing.T) {
	repos := openServiceRepositories(t)
	notifier := &notifierStub{}
	service := NewAchievementService(repos, notifier, time.UTC)

	if fired, _ := service.Report("user-1", GoalSteps, 11000); !fired {
		t.Fatal("expected steps notification")
	}
	if fired, _ := service.Report("user-1", GoalWater, 8); !fired {
		t.Fatal("expected water notification")
	}
	if fired, _ := service.Report("user-2", GoalSteps, 11000); !fired {
		t.Fatal("expected another user's steps notification")
	}
	if len(notifier.sent()) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notifier.sent()))
	}
}

func TestClaimSurvivesNotifierFailure(t *testing.T) {
	repos := openServiceRepositories(t)
	notifier := &notifierStub{err: errors.New("telegram down")}
	service := NewAchievementService(repos, notifier, time.UTC)

	fired, err := service.Report("user-1", GoalSteps, 10000)
	if err == nil {
		t.Fatal("expected the delivery error to surface")
	}
	if !fired {
		t.Fatal("expected the claim to be taken despite delivery failure")
	}

	// The day's claim is spent, so no retry storm.
	fired, err = service.Report("user-1", GoalSteps, 10000)
	if err != nil {
		t.Fatalf("second report: %v", err)
	}
	if fired {
		t.Fatal("expected no second attempt on the same day")
	}
}

func TestReportRequiresUser(t *testing.T) {
	repos := openServiceRepositories(t)
	service := NewAchievementService(repos, &notifierStub{}, time.UTC)

	if _, err := service.Report("", GoalSteps, 10000); err == nil {
		t.Fatal("expected an error for the missing user")
	}
}
