package roles

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/trainerBot/internal/domain/models"
)

func TestCheck_EntryRoleAlwaysAllowed(t *testing.T) {
	testCases := []struct {
		name   string
		status models.StatusMap
	}{
		{name: "nil status", status: nil},
		{name: "empty status", status: models.StatusMap{}},
		{
			name: "unrelated certifications",
			status: models.StatusMap{
				string(SLT): {Certified: true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, Check(Support, tc.status))
		})
	}
}

func TestCheck_MissingPrerequisite(t *testing.T) {
	err := Check(Admin, models.StatusMap{})
	require.Error(t, err)

	var prereqErr *PrerequisiteError
	require.True(t, errors.As(err, &prereqErr))
	assert.Equal(t, Admin, prereqErr.Target)
	assert.Equal(t, Support, prereqErr.Missing)
	assert.Contains(t, prereqErr.Message(), Support.Name())
	assert.Contains(t, prereqErr.Message(), Admin.Name())
}

func TestCheck_CertifiedPrerequisitePasses(t *testing.T) {
	status := models.StatusMap{
		string(Support): {Onboarding: true, Quiz: true, Certified: true},
	}

	assert.NoError(t, Check(Admin, status))
}

func TestCheck_OnboardingAloneIsNotEnough(t *testing.T) {
	status := models.StatusMap{
		string(Support): {Onboarding: true},
	}

	err := Check(Admin, status)
	require.Error(t, err)

	var prereqErr *PrerequisiteError
	require.True(t, errors.As(err, &prereqErr))
	assert.Equal(t, Support, prereqErr.Missing)
}

func TestCheck_ChainReportsFirstUnmet(t *testing.T) {
	// Для SLT нужен Admin; сертификация Support на это не влияет.
	status := models.StatusMap{
		string(Support): {Certified: true},
	}

	err := Check(SLT, status)
	require.Error(t, err)

	var prereqErr *PrerequisiteError
	require.True(t, errors.As(err, &prereqErr))
	assert.Equal(t, Admin, prereqErr.Missing)
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{in: "support", want: Support, ok: true},
		{in: "  Admin ", want: Admin, ok: true},
		{in: "SLT", want: SLT, ok: true},
		{in: "manager", ok: false},
		{in: "", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			role, ok := Parse(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, role)
			}
		})
	}
}

func TestPrerequisites_Copy(t *testing.T) {
	prereqs := Admin.Prerequisites()
	require.Len(t, prereqs, 1)

	prereqs[0] = SLT

	assert.Equal(t, []Role{Support}, Admin.Prerequisites())
}
