package repository

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDiffIDs(t *testing.T) {
	tests := []struct {
		name                string
		current, target     []uint
		wantAttach, wantDet []uint
	}{
		{name: "empty", current: nil, target: nil},
		{name: "attach all", current: nil, target: []uint{3, 1, 2}, wantAttach: []uint{1, 2, 3}},
		{name: "detach all", current: []uint{1, 2}, target: []uint{}, wantDet: []uint{1, 2}},
		{name: "same set", current: []uint{1, 2}, target: []uint{2, 1}},
		{name: "mixed", current: []uint{1, 2, 3}, target: []uint{3, 4, 4, 5}, wantAttach: []uint{4, 5}, wantDet: []uint{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attach, detach := DiffIDs(tt.current, tt.target)
			if diff := cmp.Diff(tt.wantAttach, attach); diff != "" {
				t.Errorf("attach: -want, +got:\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantDet, detach); diff != "" {
				t.Errorf("detach: -want, +got:\n%s", diff)
			}
		})
	}
}

func TestUniqueIDs(t *testing.T) {
	require.Equal(t, []uint{1, 2, 5}, uniqueIDs([]uint{5, 1, 2, 5, 1}))
	require.Empty(t, uniqueIDs(nil))
}

func TestSyncResultChanged(t *testing.T) {
	require.False(t, SyncResult{}.Changed())
	require.True(t, SyncResult{Detached: []uint{1}}.Changed())
}
