package school

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yms-edu/registrar/internal/models"
	"github.com/yms-edu/registrar/internal/store"
)

func validResult(studentID string) models.Result {
	return models.Result{
		StudentID:  studentID,
		Session:    "2024/2025",
		Term:       "First",
		TeacherUID: "YMS-S-2501",
		Subjects: []models.SubjectScore{
			{Code: "MTH", Total: 80},
		},
	}
}

func TestCreateResultLinksStudent(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	student, err := repos.students.Create(validStudentInput())
	require.NoError(t, err)

	result, err := repos.results.Create(validResult(student.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "no", result.Published)
	assert.Equal(t, student.Name, result.StudentName)
	assert.Equal(t, student.UID, result.StudentUID)
	assert.Equal(t, "JSS2", result.StudentClass)

	got, err := repos.students.Get(student.ID)
	require.NoError(t, err)
	ref, ok := got.Results["2024/2025_First"]
	require.True(t, ok, "Expected result ref on student")
	assert.Equal(t, result.ID, ref.ID)
	assert.Equal(t, "2024/2025", ref.Session)
	assert.Equal(t, "First", ref.Term)
	assert.Equal(t, 1, ref.SubjectCount)
}

func TestCreateResultValidation(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	t.Run("missing required fields", func(t *testing.T) {
		_, err := repos.results.Create(models.Result{StudentID: "x"})
		assert.ErrorIs(t, err, models.ErrInvalid)
	})

	t.Run("empty subjects", func(t *testing.T) {
		result := validResult("x")
		result.Subjects = nil
		_, err := repos.results.Create(result)
		assert.ErrorIs(t, err, models.ErrInvalid)
	})
}

func TestCreateResultUnknownStudent(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	// A missing student never blocks the primary write, only the link.
	result, err := repos.results.Create(validResult("no-such-student"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
}

func TestCreateResultPercentages(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	result := validResult("nobody")
	result.Subjects = []models.SubjectScore{
		{Code: "MTH", Total: 80},
		{Code: "ENG", Total: 70},
	}
	got, err := repos.results.Create(result)
	require.NoError(t, err)

	assert.Equal(t, 80.0, got.Subjects[0].Percentage)
	assert.Equal(t, 70.0, got.Subjects[1].Percentage)
	assert.Equal(t, 75.0, got.TotalPercentage)
}

func TestCreateResultSubjectEnrichment(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	_, err := repos.subjects.Create(models.Subject{Name: "Mathematics", Code: "MTH"})
	require.NoError(t, err)

	result := validResult("nobody")
	result.Subjects = []models.SubjectScore{
		{Code: "MTH", Total: 55},
		{Code: "XYZ", Total: 40},
		{Code: "ENG", Name: "English Studies", Total: 60},
	}
	got, err := repos.results.Create(result)
	require.NoError(t, err)

	assert.Equal(t, "Mathematics", got.Subjects[0].Name)
	assert.Equal(t, "Unknown Subject", got.Subjects[1].Name)
	// Supplied names win over the lookup.
	assert.Equal(t, "English Studies", got.Subjects[2].Name)
}

func TestCreateResultCommentStatus(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	result := validResult("nobody")
	result.TeacherComment = "Keep it up"
	got, err := repos.results.Create(result)
	require.NoError(t, err)
	assert.True(t, got.CommentStatus)

	result = validResult("nobody")
	result.TeacherComment = "   "
	got, err = repos.results.Create(result)
	require.NoError(t, err)
	assert.False(t, got.CommentStatus)
}

func TestDeleteResultUnlinks(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	student, err := repos.students.Create(validStudentInput())
	require.NoError(t, err)
	result, err := repos.results.Create(validResult(student.ID))
	require.NoError(t, err)

	require.NoError(t, repos.results.Delete(result.ID))

	_, err = repos.results.Get(result.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := repos.students.Get(student.ID)
	require.NoError(t, err)
	_, ok := got.Results["2024/2025_First"]
	assert.False(t, ok, "Expected result ref removed from student")
}

func TestDeleteResultStudentGone(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	student, err := repos.students.Create(validStudentInput())
	require.NoError(t, err)
	result, err := repos.results.Create(validResult(student.ID))
	require.NoError(t, err)

	// Deleting the student first must not block the result delete.
	require.NoError(t, repos.students.Delete(student.ID))
	require.NoError(t, repos.results.Delete(result.ID))
}

func TestResultList(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	student, err := repos.students.Create(validStudentInput())
	require.NoError(t, err)

	first, err := repos.results.Create(validResult(student.ID))
	require.NoError(t, err)

	second := validResult(student.ID)
	second.Term = "Second"
	_, err = repos.results.Create(second)
	require.NoError(t, err)

	_, err = repos.results.Publish(first.ID)
	require.NoError(t, err)

	all, err := repos.results.List("", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published, err := repos.results.List("yes", "")
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, first.ID, published[0].ID)

	byUID, err := repos.results.List("", student.UID)
	require.NoError(t, err)
	assert.Len(t, byUID, 2)

	none, err := repos.results.List("", "YMS-25-999")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestResultUpdateRawMerge(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	result, err := repos.results.Create(validResult("nobody"))
	require.NoError(t, err)

	got, err := repos.results.Update(result.ID, map[string]any{"principalComment": "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Approved", got.PrincipalComment)
	assert.Equal(t, result.TotalPercentage, got.TotalPercentage)

	_, err = repos.results.Update("missing", map[string]any{"x": 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPublishAndCheck(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	result, err := repos.results.Create(validResult("nobody"))
	require.NoError(t, err)

	_, err = repos.results.Check(result.ID, "")
	assert.ErrorIs(t, err, ErrUnpublished)

	published, err := repos.results.Publish(result.ID)
	require.NoError(t, err)
	assert.Equal(t, "yes", published.Published)
	assert.NotEmpty(t, published.PublishedAt)

	got, err := repos.results.Check(result.ID, "")
	require.NoError(t, err)
	assert.Equal(t, result.ID, got.ID)
}

func TestCheckPinGate(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	result, err := repos.results.Create(validResult("nobody"))
	require.NoError(t, err)
	_, err = repos.results.Publish(result.ID)
	require.NoError(t, err)
	_, err = repos.results.Update(result.ID, map[string]any{"scratchPin": "ABCD1234"})
	require.NoError(t, err)

	_, err = repos.results.Check(result.ID, "WRONGPIN")
	assert.ErrorIs(t, err, ErrPinMismatch)
	assert.ErrorIs(t, err, models.ErrInvalid)

	got, err := repos.results.Check(result.ID, "ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, result.ID, got.ID)

	// No pin supplied skips the gate.
	_, err = repos.results.Check(result.ID, "")
	assert.NoError(t, err)
}

func TestReconcile(t *testing.T) {
	repos, cleanup := setupRepos(t)
	defer cleanup()

	student, err := repos.students.Create(validStudentInput())
	require.NoError(t, err)
	result, err := repos.results.Create(validResult(student.ID))
	require.NoError(t, err)

	// Nothing to fix on a consistent dataset.
	fixed, err := repos.results.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 0, fixed)

	// Corrupt the student-side map behind the repo's back.
	patch, err := json.Marshal(map[string]any{
		"results": map[string]models.ResultRef{
			"bogus_key": {ID: "dangling", Session: "bogus", Term: "key"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, repos.store.Merge("students", student.ID, patch))

	fixed, err = repos.results.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	got, err := repos.students.Get(student.ID)
	require.NoError(t, err)
	require.Len(t, got.Results, 1)
	assert.Equal(t, result.ID, got.Results["2024/2025_First"].ID)
}
