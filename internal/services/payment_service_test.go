package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/fest-registration-api/internal/models"
)

func TestUpdatePaymentStatus(t *testing.T) {
	env := setupServiceEnv(t)
	event := env.createEvent(t, EventInput{Title: "Paint", Category: models.CategoryFineArts, Fee: 50})
	_, p := env.createUser(t, "artist", false)
	reg := env.register(t, p, event.ID)

	before := reg.UpdatedAt
	time.Sleep(5 * time.Millisecond)

	updated, err := env.payments.UpdatePaymentStatus(env.ctx, env.adminPrincipal, reg.RegistrationID, models.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.True(t, updated.UpdatedAt.After(before))
	assert.Equal(t, "artist", updated.User.Name)

	updated, err = env.payments.UpdatePaymentStatus(env.ctx, env.adminPrincipal, reg.RegistrationID, "refunded")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, updated.PaymentStatus)

	updated, err = env.payments.UpdatePaymentStatus(env.ctx, env.adminPrincipal, reg.RegistrationID, models.PaymentUnpaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentUnpaid, updated.PaymentStatus)
}

func TestUpdatePaymentStatus_Errors(t *testing.T) {
	env := setupServiceEnv(t)
	event := env.createEvent(t, EventInput{Title: "Paint"})
	_, p := env.createUser(t, "artist", false)
	reg := env.register(t, p, event.ID)

	_, err := env.payments.UpdatePaymentStatus(env.ctx, nil, reg.RegistrationID, models.PaymentPaid)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = env.payments.UpdatePaymentStatus(env.ctx, p, reg.RegistrationID, models.PaymentPaid)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.payments.UpdatePaymentStatus(env.ctx, env.adminPrincipal, "INS-CN-99-99999", models.PaymentPaid)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)

	_, err = env.payments.UpdatePaymentStatus(env.ctx, env.adminPrincipal, reg.RegistrationID, "PENDING")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "payment_status")
}

func TestDeleteRegistration_Cascades(t *testing.T) {
	env := setupServiceEnv(t)
	event := env.createEvent(t, EventInput{Title: "Band", IsTeamEvent: true, MinTeamSize: 2, MaxTeamSize: 5})
	_, p := env.createUser(t, "singer", false)
	reg := env.register(t, p, event.ID, teamOf(3)...)

	assert.ErrorIs(t, env.payments.DeleteRegistration(env.ctx, p, reg.RegistrationID), ErrUnauthorized)

	require.NoError(t, env.payments.DeleteRegistration(env.ctx, env.adminPrincipal, reg.RegistrationID))

	var members int64
	require.NoError(t, env.db.Model(&models.TeamMember{}).Where("registration_id = ?", reg.ID).Count(&members).Error)
	assert.Zero(t, members)

	stored, err := env.eventRepo.FindByID(env.ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.RegisteredCount)

	assert.ErrorIs(t, env.payments.DeleteRegistration(env.ctx, env.adminPrincipal, reg.RegistrationID), ErrRegistrationNotFound)

	// The seat is free again, so the same user may register anew.
	env.register(t, p, event.ID, teamOf(1)...)
}

func TestStatusCounts(t *testing.T) {
	env := setupServiceEnv(t)
	event := env.createEvent(t, EventInput{Title: "Drama"})
	for i := 0; i < 3; i++ {
		_, p := env.createUser(t, "actor", false)
		reg := env.register(t, p, event.ID)
		if i == 0 {
			_, err := env.payments.UpdatePaymentStatus(env.ctx, env.adminPrincipal, reg.RegistrationID, models.PaymentPaid)
			require.NoError(t, err)
		}
	}

	counts, err := env.payments.StatusCounts(env.ctx, env.adminPrincipal, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Paid)
	assert.Equal(t, int64(2), counts.Unpaid)
	assert.Equal(t, int64(0), counts.Refunded)

	_, err = env.payments.StatusCounts(env.ctx, env.adminPrincipal, 9999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
