package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/binpack-service/internal/domain/geometry"
	"github.com/guttosm/binpack-service/internal/domain/model"
)

func TestWritePDF(t *testing.T) {
	tests := []struct {
		name     string
		alloc    *model.Allocation
		shareURL string
	}{
		{"with share link", testAllocation(), "http://localhost:8080/api/shared/abc"},
		{"without share link", testAllocation(), ""},
		{"empty allocation", &model.Allocation{ID: "empty", Container: model.Container{Width: 10, Height: 10, Depth: 10, MaxWeight: 1}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WritePDF(&buf, tt.alloc, tt.shareURL))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestWritePDF_TableSpansPages(t *testing.T) {
	alloc := &model.Allocation{
		ID:        "many",
		Container: model.Container{Width: 100, Height: 1, Depth: 100, MaxWeight: 1000},
	}
	for i := 0; i < 120; i++ {
		x, z := uint(i%10)*10, uint(i/10)*5
		alloc.Placements = append(alloc.Placements, model.Placement{
			ItemID: fmt.Sprintf("item-%d", i),
			Label:  "Ação",
			Weight: 1,
			Min:    geometry.NewPoint(x, 0, z),
			Max:    geometry.NewPoint(x+10, 1, z+5),
		})
	}

	var small, large bytes.Buffer
	require.NoError(t, WritePDF(&small, testAllocation(), ""))
	require.NoError(t, WritePDF(&large, alloc, ""))

	assert.Greater(t, large.Len(), small.Len())
}
