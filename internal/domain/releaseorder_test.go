package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveTarget(t *testing.T) {
	tests := []struct {
		name        string
		from        ReleaseOrderStatus
		hasMagazine bool
		want        ReleaseOrderStatus
		ok          bool
	}{
		{"banner upload advances to manager", ROStatusPendingBannerUpload, false, ROStatusPendingManagerReview, true},
		{"manager advances to vp", ROStatusPendingManagerReview, false, ROStatusPendingVPReview, true},
		{"vp advances to senior", ROStatusPendingVPReview, false, ROStatusPendingSeniorReview, true},
		{"senior routes to it", ROStatusPendingSeniorReview, false, ROStatusReadyForIT, true},
		{"senior routes magazine to material", ROStatusPendingSeniorReview, true, ROStatusReadyForMaterial, true},
		{"ready_for_it has no approval step", ROStatusReadyForIT, false, "", false},
		{"deployed has no approval step", ROStatusDeployed, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ApproveTarget(tt.from, tt.hasMagazine)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRejectionTarget(t *testing.T) {
	t.Run("vp rejection loops to manager", func(t *testing.T) {
		target, ok := RejectionTarget(ROStatusPendingVPReview)
		require.True(t, ok)
		assert.Equal(t, ROStatusPendingManagerReview, target)
	})

	t.Run("senior rejection loops to vp", func(t *testing.T) {
		target, ok := RejectionTarget(ROStatusPendingSeniorReview)
		require.True(t, ok)
		assert.Equal(t, ROStatusPendingVPReview, target)
	})

	t.Run("rejection illegal elsewhere", func(t *testing.T) {
		for _, from := range []ReleaseOrderStatus{
			ROStatusPendingBannerUpload,
			ROStatusPendingManagerReview,
			ROStatusReadyForIT,
			ROStatusReadyForMaterial,
			ROStatusDeployed,
		} {
			_, ok := RejectionTarget(from)
			assert.False(t, ok, "rejection from %s", from)
		}
	})
}

func TestReleaseOrderHelpers(t *testing.T) {
	reason := "banner quality too low"
	empty := ""

	assert.True(t, (&ReleaseOrder{RejectionReason: &reason}).HasOpenRejection())
	assert.False(t, (&ReleaseOrder{RejectionReason: &empty}).HasOpenRejection())
	assert.False(t, (&ReleaseOrder{}).HasOpenRejection())

	assert.True(t, (&ReleaseOrder{Status: ROStatusReadyForIT}).IsReadyForDeployment())
	assert.True(t, (&ReleaseOrder{Status: ROStatusReadyForMaterial}).IsReadyForDeployment())
	assert.False(t, (&ReleaseOrder{Status: ROStatusPendingSeniorReview}).IsReadyForDeployment())
	assert.False(t, (&ReleaseOrder{Status: ROStatusDeployed}).IsReadyForDeployment())
}
