package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskIsOwnedBy(t *testing.T) {
	task := Task{OwnerID: "alice"}

	assert.True(t, task.IsOwnedBy("alice"))
	assert.False(t, task.IsOwnedBy("bob"))
	assert.False(t, task.IsOwnedBy(""))
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		deadline  time.Time
		completed bool
		overdue   bool
	}{
		{"future deadline", now.Add(time.Hour), false, false},
		{"past deadline", now.Add(-time.Hour), false, true},
		{"past deadline but completed", now.Add(-time.Hour), true, false},
		{"exactly now", now, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Deadline: tt.deadline, IsCompleted: tt.completed}
			assert.Equal(t, tt.overdue, task.IsOverdue(now))
		})
	}
}

func TestUserDisplayName(t *testing.T) {
	user := User{Lastname: "Yamada", Firstname: "Hanako"}
	assert.Equal(t, "Yamada Hanako", user.DisplayName())
}
