package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileComplete(t *testing.T) {
	tests := []struct {
		name                            string
		department, college, phone, usn string
		want                            bool
	}{
		{"all present", "CSE", "X", "9876543210", "1XX20CS001", true},
		{"missing department", "", "X", "9876543210", "1XX20CS001", false},
		{"missing college", "CSE", "", "9876543210", "1XX20CS001", false},
		{"missing phone", "CSE", "X", "", "1XX20CS001", false},
		{"missing usn", "CSE", "X", "9876543210", "", false},
		{"whitespace department", "   ", "X", "9876543210", "1XX20CS001", false},
		{"whitespace usn", "CSE", "X", "9876543210", "\t\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileComplete(tt.department, tt.college, tt.phone, tt.usn))
		})
	}
}

func TestUser_BeforeSaveRecomputesProfileCompleted(t *testing.T) {
	u := &User{Department: "CSE", College: "X", Phone: "9876543210", USN: "1XX20CS001"}
	assert.NoError(t, u.BeforeSave(nil))
	assert.True(t, u.ProfileCompleted)

	u.Phone = " "
	u.ProfileCompleted = true
	assert.NoError(t, u.BeforeSave(nil))
	assert.False(t, u.ProfileCompleted)
}

func TestEvent_Remaining(t *testing.T) {
	unlimited := Event{Capacity: 0, RegisteredCount: 500}
	assert.Equal(t, -1, unlimited.Remaining())
	assert.False(t, unlimited.IsFull())

	limited := Event{Capacity: 10, RegisteredCount: 10}
	assert.Equal(t, 0, limited.Remaining())
	assert.True(t, limited.IsFull())
}

func TestEnums(t *testing.T) {
	assert.True(t, CategoryFineArts.Valid())
	assert.False(t, EventCategory("SPORTS").Valid())
	assert.True(t, PaymentRefunded.Valid())
	assert.False(t, PaymentStatus("PENDING").Valid())
}
