package school

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/yms-edu/registrar/internal/metrics"
	"github.com/yms-edu/registrar/internal/models"
	"github.com/yms-edu/registrar/internal/store"
)

const collResults = "results"

// ErrUnpublished gates the student-facing check endpoint.
var ErrUnpublished = errors.New("result not published")

// ErrPinMismatch is returned when a supplied pin does not match the
// scratch value stored on the result.
var ErrPinMismatch = fmt.Errorf("%w: invalid pin", models.ErrInvalid)

// ResultRepo persists result documents and keeps the denormalized
// results map on the owning student in sync with their lifecycle. The
// student-side map is a best-effort projection: the result document is
// authoritative, and link failures never abort the primary write.
type ResultRepo struct {
	Store    store.DocStore
	Subjects *SubjectRepo
	MaxScore float64 // obtainable marks per subject
	Now      func() time.Time
}

func NewResultRepo(s store.DocStore, subjects *SubjectRepo, maxScore float64) *ResultRepo {
	if maxScore <= 0 {
		maxScore = 100
	}
	return &ResultRepo{Store: s, Subjects: subjects, MaxScore: maxScore, Now: time.Now}
}

func (r *ResultRepo) Create(result models.Result) (*models.Result, error) {
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalid, err)
	}

	// Student lookup is best-effort here: it only backfills display fields
	// on the result, the link itself is written after the primary persist.
	var student *models.Student
	if doc, err := r.Store.Get(collStudents, result.StudentID); err == nil {
		if s, err := decodeStudent(doc); err == nil {
			student = s
		}
	}
	if student != nil {
		if result.StudentName == "" {
			result.StudentName = student.Name
		}
		if result.StudentUID == "" {
			result.StudentUID = student.UID
		}
		if result.StudentClass == "" {
			result.StudentClass = student.Class
		}
	}

	r.enrichSubjects(&result)
	result.CommentStatus = strings.TrimSpace(result.TeacherComment) != ""
	result.Published = "no"
	result.ID = ""
	result.CreatedAt = r.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	doc, err := r.Store.Add(collResults, data)
	if err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collResults, "add").Inc()
	result.ID = doc.ID

	r.linkStudent(&result, student)

	return &result, nil
}

// enrichSubjects fills per-subject names from the subjects collection and
// computes percentages. When the lookup is unavailable the caller-supplied
// entries are kept as-is, percentages still computed.
func (r *ResultRepo) enrichSubjects(result *models.Result) {
	index, err := r.Subjects.NameIndex()
	if err != nil {
		logger.Error.Printf("createResult: subject lookup unavailable, using supplied entries: %v", err)
		index = nil
	}

	var totalScore float64
	for i := range result.Subjects {
		subj := &result.Subjects[i]
		code := subj.Code
		if code == "" {
			code = subj.ID
		}
		if subj.Name == "" && index != nil {
			if name, ok := index[code]; ok {
				subj.Name = name
			} else {
				subj.Name = "Unknown Subject"
			}
		}
		subj.Code = code
		subj.Percentage = round1(subj.Total / r.MaxScore * 100)
		totalScore += subj.Total
	}

	obtainable := float64(len(result.Subjects)) * r.MaxScore
	if obtainable > 0 {
		result.TotalPercentage = round1(totalScore / obtainable * 100)
	} else {
		result.TotalPercentage = 0
	}
}

// linkStudent upserts results["{session}_{term}"] on the student document
// and backfills name/uid/class only when the student-side value is empty.
// Any failure is logged and counted, never returned.
func (r *ResultRepo) linkStudent(result *models.Result, student *models.Student) {
	if student == nil {
		doc, err := r.Store.Get(collStudents, result.StudentID)
		if err != nil {
			logger.Error.Printf("createResult: student %s not found, result %s created but not linked: %v",
				result.StudentID, result.ID, err)
			metrics.LinkSyncFailures.Inc()
			return
		}
		s, err := decodeStudent(doc)
		if err != nil {
			logger.Error.Printf("createResult: failed to decode student %s: %v", result.StudentID, err)
			metrics.LinkSyncFailures.Inc()
			return
		}
		student = s
	}

	results := student.Results
	if results == nil {
		results = map[string]models.ResultRef{}
	}
	key := models.ResultKey(result.Session, result.Term)
	results[key] = models.ResultRef{
		ID:           result.ID,
		CreatedAt:    result.CreatedAt,
		Session:      result.Session,
		Term:         result.Term,
		SubjectCount: len(result.Subjects),
	}

	now := r.Now().UTC().Format(time.RFC3339)
	patch := map[string]any{
		"results":           results,
		"lastResultSession": result.Session,
		"lastResultTerm":    result.Term,
		"lastResultAt":      now,
		"updatedAt":         now,
	}
	if result.StudentName != "" && student.Name == "" {
		patch["name"] = result.StudentName
	}
	if result.StudentUID != "" && student.UID == "" {
		patch["uid"] = result.StudentUID
	}
	if result.StudentClass != "" && student.Class == "" {
		patch["class"] = result.StudentClass
	}

	data, err := json.Marshal(patch)
	if err != nil {
		logger.Error.Printf("createResult: failed to encode student link patch: %v", err)
		metrics.LinkSyncFailures.Inc()
		return
	}
	if err := r.Store.Merge(collStudents, student.ID, data); err != nil {
		logger.Error.Printf("createResult: failed to link result %s to student %s: %v",
			result.ID, student.ID, err)
		metrics.LinkSyncFailures.Inc()
		return
	}
	logger.Debug.Printf("createResult: linked result %s to student %s as %s", result.ID, student.ID, key)
}

func (r *ResultRepo) Get(id string) (*models.Result, error) {
	doc, err := r.Store.Get(collResults, id)
	if err != nil {
		return nil, err
	}
	return decodeResult(doc)
}

// List supports the optional published ("yes"/"no") and student UID
// equality filters.
func (r *ResultRepo) List(published, uid string) ([]models.Result, error) {
	q := store.Query{Desc: true}
	if published == "yes" || published == "no" {
		q.Filters = append(q.Filters, store.Eq{Field: "published", Value: published})
	}
	if uid != "" {
		q.Filters = append(q.Filters, store.Eq{Field: "studentUid", Value: uid})
	}

	docs, err := r.Store.Query(collResults, q)
	if err != nil {
		return nil, err
	}
	results := make([]models.Result, 0, len(docs))
	for _, doc := range docs {
		res, err := decodeResult(&doc)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// Update is a raw partial merge; result fields are not renormalized.
func (r *ResultRepo) Update(id string, patch map[string]any) (*models.Result, error) {
	if _, err := r.Store.Get(collResults, id); err != nil {
		return nil, err
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result patch: %w", err)
	}
	if err := r.Store.Merge(collResults, id, data); err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collResults, "merge").Inc()
	return r.Get(id)
}

// Delete removes the student's map entry before deleting the result. A
// missing student or entry is skipped silently; a crash between the two
// writes leaves a stale reference, which cmd/reconcile repairs.
func (r *ResultRepo) Delete(id string) error {
	result, err := r.Get(id)
	if err != nil {
		return err
	}

	if result.StudentID != "" && result.Session != "" && result.Term != "" {
		r.unlinkStudent(result)
	}

	if err := r.Store.Delete(collResults, id); err != nil {
		return err
	}
	metrics.DocumentWrites.WithLabelValues(collResults, "delete").Inc()
	return nil
}

func (r *ResultRepo) unlinkStudent(result *models.Result) {
	doc, err := r.Store.Get(collStudents, result.StudentID)
	if err != nil {
		return
	}
	student, err := decodeStudent(doc)
	if err != nil || student.Results == nil {
		return
	}

	key := models.ResultKey(result.Session, result.Term)
	if _, ok := student.Results[key]; !ok {
		return
	}
	delete(student.Results, key)

	patch := map[string]any{
		"results":   student.Results,
		"updatedAt": r.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(patch)
	if err != nil {
		logger.Error.Printf("deleteResult: failed to encode student unlink patch: %v", err)
		metrics.LinkSyncFailures.Inc()
		return
	}
	if err := r.Store.Merge(collStudents, student.ID, data); err != nil {
		logger.Error.Printf("deleteResult: failed to remove result ref from student %s: %v", student.ID, err)
		metrics.LinkSyncFailures.Inc()
		return
	}
	logger.Debug.Printf("deleteResult: removed result ref %s from student %s", key, student.ID)
}

func (r *ResultRepo) Publish(id string) (*models.Result, error) {
	if _, err := r.Store.Get(collResults, id); err != nil {
		return nil, err
	}
	patch := map[string]any{
		"published":   "yes",
		"publishedAt": r.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode publish patch: %w", err)
	}
	if err := r.Store.Merge(collResults, id, data); err != nil {
		return nil, err
	}
	metrics.DocumentWrites.WithLabelValues(collResults, "merge").Inc()
	return r.Get(id)
}

// Check is the student-facing read: only published results, with an exact
// string match against the stored scratch pin when both sides have one.
func (r *ResultRepo) Check(id, pin string) (*models.Result, error) {
	result, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if result.Published != "yes" {
		return nil, ErrUnpublished
	}
	if result.ScratchPin != "" && pin != "" && result.ScratchPin != pin {
		return nil, ErrPinMismatch
	}
	return result, nil
}

// Reconcile rebuilds every student's results map from the authoritative
// result documents, repairing stale or missing references left behind by
// the best-effort two-step writes. Returns the number of students fixed.
func (r *ResultRepo) Reconcile() (int, error) {
	docs, err := r.Store.Query(collResults, store.Query{})
	if err != nil {
		return 0, err
	}

	byStudent := make(map[string]map[string]models.ResultRef)
	for _, doc := range docs {
		result, err := decodeResult(&doc)
		if err != nil {
			logger.Error.Printf("reconcile: skipping undecodable result %s: %v", doc.ID, err)
			continue
		}
		if result.StudentID == "" || result.Session == "" || result.Term == "" {
			continue
		}
		refs := byStudent[result.StudentID]
		if refs == nil {
			refs = map[string]models.ResultRef{}
			byStudent[result.StudentID] = refs
		}
		refs[models.ResultKey(result.Session, result.Term)] = models.ResultRef{
			ID:           result.ID,
			CreatedAt:    result.CreatedAt,
			Session:      result.Session,
			Term:         result.Term,
			SubjectCount: len(result.Subjects),
		}
	}

	studentDocs, err := r.Store.Query(collStudents, store.Query{})
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, doc := range studentDocs {
		student, err := decodeStudent(&doc)
		if err != nil {
			logger.Error.Printf("reconcile: skipping undecodable student %s: %v", doc.ID, err)
			continue
		}

		want := byStudent[student.ID]
		if want == nil {
			want = map[string]models.ResultRef{}
		}
		if sameRefs(student.Results, want) {
			continue
		}

		patch := map[string]any{
			"results":   want,
			"updatedAt": r.Now().UTC().Format(time.RFC3339),
		}
		data, err := json.Marshal(patch)
		if err != nil {
			return fixed, fmt.Errorf("failed to encode reconcile patch: %w", err)
		}
		if err := r.Store.Merge(collStudents, student.ID, data); err != nil {
			return fixed, err
		}
		logger.Info.Printf("reconcile: rebuilt results map for student %s (%d entries)", student.ID, len(want))
		fixed++
	}
	return fixed, nil
}

func sameRefs(a, b map[string]models.ResultRef) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func decodeResult(doc *store.Document) (*models.Result, error) {
	var result models.Result
	if err := json.Unmarshal(doc.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result %s: %w", doc.ID, err)
	}
	result.ID = doc.ID
	return &result, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
