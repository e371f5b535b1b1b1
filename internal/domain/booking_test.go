package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionBooking(t *testing.T) {
	tests := []struct {
		name   string
		from   BookingStatus
		target BookingStatus
		want   bool
	}{
		{"requested to pending_manager", StatusRequested, StatusPendingManager, true},
		{"pending_manager to pending_vp", StatusPendingManager, StatusPendingVP, true},
		{"pending_vp to senior review", StatusPendingVP, StatusPendingSeniorReview, true},
		{"senior review to payment", StatusPendingSeniorReview, StatusPendingPayment, true},
		{"payment to deployment", StatusPendingPayment, StatusPendingDeployment, true},
		{"deployment to active", StatusPendingDeployment, StatusActive, true},

		{"skip a stage", StatusPendingManager, StatusPendingSeniorReview, false},
		{"backward move", StatusPendingVP, StatusPendingManager, false},
		{"requested straight to active", StatusRequested, StatusActive, false},

		{"reject from requested", StatusRequested, StatusRejected, true},
		{"reject from pending_vp", StatusPendingVP, StatusRejected, true},
		{"reject from payment stage", StatusPendingPayment, StatusRejected, true},
		{"reject active", StatusActive, StatusRejected, false},
		{"reject expired", StatusExpired, StatusRejected, false},

		{"pause active", StatusActive, StatusPaused, true},
		{"resume paused", StatusPaused, StatusActive, true},
		{"pause a pending booking", StatusPendingVP, StatusPaused, false},

		{"expired is terminal", StatusExpired, StatusActive, false},
		{"rejected is terminal", StatusRejected, StatusPendingManager, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionBooking(tt.from, tt.target))
		})
	}
}

func TestStageFor(t *testing.T) {
	t.Run("each pending stage names the acting role", func(t *testing.T) {
		wantRoles := map[BookingStatus]ApprovalRole{
			StatusRequested:           RoleManager,
			StatusPendingManager:      RoleManager,
			StatusPendingVP:           RoleVP,
			StatusPendingSeniorReview: RoleSeniorReviewer,
			StatusPendingPayment:      RoleAccounts,
			StatusPendingDeployment:   RoleIT,
		}
		for status, role := range wantRoles {
			st, ok := StageFor(status)
			require.True(t, ok, "stage must exist for %s", status)
			assert.Equal(t, role, st.Role, "role for %s", status)
		}
	})

	t.Run("final stage opens no next approval", func(t *testing.T) {
		st, ok := StageFor(StatusPendingDeployment)
		require.True(t, ok)
		assert.Equal(t, StatusActive, st.Next)
		assert.Nil(t, st.NextRole)
	})

	t.Run("terminal statuses have no stage", func(t *testing.T) {
		for _, status := range []BookingStatus{StatusActive, StatusPaused, StatusRejected, StatusExpired} {
			_, ok := StageFor(status)
			assert.False(t, ok, "no stage expected for %s", status)
		}
	})
}

func TestBookingStatusIsBlocking(t *testing.T) {
	assert.True(t, StatusRequested.IsBlocking())
	assert.True(t, StatusPendingVP.IsBlocking())
	assert.True(t, StatusActive.IsBlocking())
	assert.True(t, StatusPaused.IsBlocking())
	assert.False(t, StatusRejected.IsBlocking())
	assert.False(t, StatusExpired.IsBlocking())
	assert.False(t, BookingStatus("bogus").IsBlocking())
}
