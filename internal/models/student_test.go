package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGender(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    bool
		wantErr bool
	}{
		{"male word", "male", true, false},
		{"male letter", "M", true, false},
		{"stringly boolean", "true", true, false},
		{"female word", "Female", false, false},
		{"female letter", "f", false, false},
		{"padded", "  male  ", true, false},
		{"empty", "", false, true},
		{"garbage", "yes", false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeGender(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeReligion(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"islam variant", "ISLAM", "Muslim", false},
		{"muslimah variant", "muslimah", "Muslim", false},
		{"christianity", "Christianity", "Christian", false},
		{"chr shorthand", "chr", "Christian", false},
		{"none maps to other", "none", "Other", false},
		{"others plural", "others", "Other", false},
		{"not provided", "", "", false},
		{"whitespace only", "   ", "", false},
		{"unrecognized rejects", "atheist", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeReligion(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeGuardians(t *testing.T) {
	full := Guardian{Name: "Amina Bello", Phone: "0801", Email: "a@b.c", Relationship: "Mother"}

	t.Run("trims and keeps valid entries", func(t *testing.T) {
		got, err := NormalizeGuardians([]Guardian{
			{Name: "  Amina Bello ", Phone: " 0801 "},
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Amina Bello", got[0].Name)
		assert.Equal(t, "0801", got[0].Phone)
	})

	t.Run("drops entries with no contact info", func(t *testing.T) {
		got, err := NormalizeGuardians([]Guardian{
			full,
			{Relationship: "Uncle"},
			{Name: "   "},
		})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("empty list rejected", func(t *testing.T) {
		_, err := NormalizeGuardians(nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("all entries empty rejected", func(t *testing.T) {
		_, err := NormalizeGuardians([]Guardian{{}, {}})
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("three accepted", func(t *testing.T) {
		got, err := NormalizeGuardians([]Guardian{full, full, full})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("four rejected", func(t *testing.T) {
		_, err := NormalizeGuardians([]Guardian{full, full, full, full})
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestCalculateAgeFromDOB(t *testing.T) {
	testCases := []struct {
		name string
		dob  string
		now  time.Time
		want *int
	}{
		{
			name: "day before anniversary",
			dob:  "2010-06-15",
			now:  time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC),
			want: intPtr(13),
		},
		{
			name: "on anniversary",
			dob:  "2010-06-15",
			now:  time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			want: intPtr(14),
		},
		{
			name: "rfc3339 tolerated",
			dob:  "2010-06-15T00:00:00Z",
			now:  time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			want: intPtr(14),
		},
		{
			name: "missing",
			dob:  "",
			now:  time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			want: nil,
		},
		{
			name: "unparseable",
			dob:  "15/06/2010",
			now:  time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			want: nil,
		},
		{
			name: "future dob",
			dob:  "2030-01-01",
			now:  time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			want: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateAgeFromDOB(tc.dob, tc.now)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func intPtr(v int) *int {
	return &v
}
