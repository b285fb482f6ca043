package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{"valid", Task{Title: "Program OP10", State: TaskBacklog, Priority: 3, EstHours: 2}, false},
		{"empty title", Task{State: TaskBacklog, Priority: 3}, true},
		{"unknown state", Task{Title: "T", State: "paused", Priority: 3}, true},
		{"priority too low", Task{Title: "T", State: TaskReady, Priority: 0}, true},
		{"priority too high", Task{Title: "T", State: TaskReady, Priority: 6}, true},
		{"negative hours", Task{Title: "T", State: TaskReady, Priority: 3, EstHours: -1}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskOpen(t *testing.T) {
	assert.True(t, (&Task{State: TaskBlocked}).Open())
	assert.True(t, (&Task{State: TaskInProgress}).Open())
	assert.False(t, (&Task{State: TaskDone}).Open())
}
