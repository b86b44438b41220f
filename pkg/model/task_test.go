package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr error
	}{
		{
			name:  "utc offset",
			input: "2025-01-01T10:00:00+00:00",
			want:  time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "zulu",
			input: "2025-01-01T10:00:00Z",
			want:  time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "negative offset without seconds",
			input: "2025-01-01T05:00-05:00",
			want:  time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "naive timestamp",
			input:   "2025-01-01T10:00:00",
			wantErr: ErrDueNoOffset,
		},
		{
			name:    "date only",
			input:   "2025-01-01",
			wantErr: ErrDueNoOffset,
		},
		{
			name:    "garbage",
			input:   "tomorrow",
			wantErr: ErrDueFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDue(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	task := &Task{Title: "Write tests", EstimateMinutes: 30, Priority: DefaultPriority}
	assert.NoError(t, task.Validate())
	assert.Equal(t, 30*time.Minute, task.Estimate())

	task.EstimateMinutes = 0
	assert.ErrorIs(t, task.Validate(), ErrEstimateNotPos)

	task.EstimateMinutes = 15
	task.Title = "  "
	assert.ErrorIs(t, task.Validate(), ErrEmptyTitle)
}
