package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/binpack-service/internal/domain/geometry"
)

func TestItemSpec_Expand(t *testing.T) {
	tests := []struct {
		name    string
		spec    ItemSpec
		wantIDs []string
	}{
		{name: "zero quantity means one", spec: ItemSpec{ID: "a", Width: 1, Height: 2, Depth: 3}, wantIDs: []string{"a"}},
		{name: "single unit keeps id", spec: ItemSpec{ID: "a", Width: 1, Height: 2, Depth: 3, Quantity: 1}, wantIDs: []string{"a"}},
		{name: "copies are numbered", spec: ItemSpec{ID: "crate", Width: 1, Height: 2, Depth: 3, Quantity: 3}, wantIDs: []string{"crate#1", "crate#2", "crate#3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := tt.spec.Expand()
			require.Len(t, items, len(tt.wantIDs))
			for i, it := range items {
				assert.Equal(t, tt.wantIDs[i], it.Content.ID)
				assert.Equal(t, geometry.NewBox(1, 2, 3), it.Box)
			}
		})
	}
}

func TestItemSpec_Valid(t *testing.T) {
	assert.True(t, ItemSpec{ID: "a", Width: 1, Height: 1, Depth: 1}.Valid())
	assert.False(t, ItemSpec{Width: 1, Height: 1, Depth: 1}.Valid())
	assert.False(t, ItemSpec{ID: "a", Width: 1, Height: 0, Depth: 1}.Valid())
}

func TestAllocationRequest_TotalUnits(t *testing.T) {
	req := AllocationRequest{Items: []ItemSpec{{ID: "a"}, {ID: "b", Quantity: 4}}}
	assert.Equal(t, uint(5), req.TotalUnits())
}
