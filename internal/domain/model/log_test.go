package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogEntry_WithField(t *testing.T) {
	tests := []struct {
		name   string
		entry  *LogEntry
		key    string
		value  interface{}
		verify func(*testing.T, *LogEntry)
	}{
		{
			name:  "nil fields are allocated",
			entry: &LogEntry{ActionType: ActionAllocate},
			key:   "item_count",
			value: 12,
			verify: func(t *testing.T, e *LogEntry) {
				assert.Equal(t, 12, e.Fields["item_count"])
			},
		},
		{
			name: "existing fields are kept",
			entry: &LogEntry{
				Fields: map[string]interface{}{"profile": "20ft"},
			},
			key:   "outcome",
			value: "infeasible",
			verify: func(t *testing.T, e *LogEntry) {
				assert.Equal(t, "20ft", e.Fields["profile"])
				assert.Equal(t, "infeasible", e.Fields["outcome"])
			},
		},
		{
			name: "overwrites",
			entry: &LogEntry{
				Fields: map[string]interface{}{"outcome": "pending"},
			},
			key:   "outcome",
			value: "success",
			verify: func(t *testing.T, e *LogEntry) {
				assert.Equal(t, "success", e.Fields["outcome"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.entry.WithField(tt.key, tt.value)
			assert.Same(t, tt.entry, result)
			tt.verify(t, result)
		})
	}
}

func TestLogEntry_WithFields(t *testing.T) {
	entry := (&LogEntry{AllocationID: "a1"}).WithField("format", "pdf")

	entry.WithFields(map[string]interface{}{
		"format": "xlsx",
		"size":   2048,
	})

	assert.Equal(t, "a1", entry.AllocationID)
	assert.Equal(t, "xlsx", entry.Fields["format"])
	assert.Equal(t, 2048, entry.Fields["size"])

	empty := (&LogEntry{}).WithFields(map[string]interface{}{})
	assert.NotNil(t, empty.Fields)
	assert.Empty(t, empty.Fields)
}
