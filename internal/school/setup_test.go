package school

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yms-edu/registrar/internal/models"
	"github.com/yms-edu/registrar/internal/registry"
	"github.com/yms-edu/registrar/internal/store/sqlite"
)

type testRepos struct {
	store    *sqlite.SQLiteStore
	students *StudentRepo
	teachers *TeacherRepo
	admins   *AdminRepo
	results  *ResultRepo
	subjects *SubjectRepo
	cards    *CardRepo
	now      time.Time
}

func setupRepos(t *testing.T) (*testRepos, func()) {
	s, err := sqlite.NewSQLiteStore(t.TempDir()+"/school.db", "../../migrations")
	require.NoError(t, err, "Failed to create store")

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	reg := registry.NewWithClock(s, clock)
	kinds := registry.Kinds("YMS")

	subjects := NewSubjectRepo(s)
	subjects.Now = clock

	students := NewStudentRepo(s, reg, kinds["student"], subjects)
	students.Now = clock

	teachers := NewTeacherRepo(s, reg, kinds["teacher"])
	teachers.Now = clock

	admins := NewAdminRepo(s, reg, kinds["admin"])
	admins.Now = clock

	results := NewResultRepo(s, subjects, 100)
	results.Now = clock

	cards := NewCardRepo(s)
	cards.Now = clock

	cleanup := func() {
		require.NoError(t, s.Close())
	}

	return &testRepos{
		store:    s,
		students: students,
		teachers: teachers,
		admins:   admins,
		results:  results,
		subjects: subjects,
		cards:    cards,
		now:      now,
	}, cleanup
}

func validStudentInput() StudentInput {
	return StudentInput{
		Name:   "Sade Okafor",
		DOB:    "2012-02-01",
		Gender: "female",
		Class:  "JSS2",
		Guardians: []models.Guardian{
			{Name: "Amina Okafor", Phone: "08010000001", Relationship: "Mother"},
		},
		Religion: "christianity",
	}
}
