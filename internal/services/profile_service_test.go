package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProfileService_UpdateCompletesProfile(t *testing.T) {
	env := setupServiceEnv(t)
	_, p := env.createUser(t, "fresh", true)

	user, err := env.profiles.Update(env.ctx, p, ProfileInput{
		Department: strPtr("CSE"),
		College:    strPtr("Institute"),
		Phone:      strPtr("9876543210"),
	})
	require.NoError(t, err)
	assert.False(t, user.ProfileCompleted)

	semester := 6
	accommodation := true
	user, err = env.profiles.Update(env.ctx, p, ProfileInput{
		USN:           strPtr(" 1in20cs042 "),
		Semester:      &semester,
		Accommodation: &accommodation,
	})
	require.NoError(t, err)
	assert.True(t, user.ProfileCompleted)
	assert.Equal(t, "1IN20CS042", user.USN)
	assert.Equal(t, 6, user.Semester)
	assert.True(t, user.Accommodation)

	user, err = env.profiles.Update(env.ctx, p, ProfileInput{College: strPtr("   ")})
	require.NoError(t, err)
	assert.False(t, user.ProfileCompleted)

	stored, err := env.profiles.Get(env.ctx, p)
	require.NoError(t, err)
	assert.False(t, stored.ProfileCompleted)
}

func TestProfileService_Validation(t *testing.T) {
	env := setupServiceEnv(t)
	_, p := env.createUser(t, "fresh", true)

	semester := 20
	_, err := env.profiles.Update(env.ctx, p, ProfileInput{Semester: &semester, Phone: strPtr("call me")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "semester")
	assert.Contains(t, verr.Fields, "phone")

	_, err = env.profiles.Get(env.ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
