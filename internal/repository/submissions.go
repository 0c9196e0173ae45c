package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/parisxmas/OxiDB/go/oxidb"

	"github.com/bioedlabs/controlbench/internal/db"
	"github.com/bioedlabs/controlbench/internal/models"
	"github.com/bioedlabs/controlbench/internal/session"
)

const SubmissionsCollection = "negative_control_submissions"

// ListFilter narrows a submission listing. Zero QuestionID and empty
// SessionID mean unconstrained. The individual sentinel also matches legacy
// documents whose session field is missing, null, or empty.
type ListFilter struct {
	QuestionID int
	SessionID  string
	Skip       int
	Limit      int
}

// SessionCount is one distinct session value with its document count.
type SessionCount struct {
	SessionID string `json:"sessionId"`
	Count     int    `json:"count"`
}

type SubmissionRepo struct {
	pool *db.Pool
}

func NewSubmissionRepo(pool *db.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

func (r *SubmissionRepo) EnsureIndexes() error {
	c := r.pool.Get()
	if err := c.CreateIndex(SubmissionsCollection, "questionId"); err != nil {
		return err
	}
	if err := c.CreateIndex(SubmissionsCollection, "sessionId"); err != nil {
		return err
	}
	return c.CreateCompositeIndex(SubmissionsCollection, []string{"questionId", "createdAt"})
}

// Insert stores one authored control column and returns its id.
func (r *SubmissionRepo) Insert(sub *models.Submission) (string, error) {
	c := r.pool.Get()
	doc := submissionToDoc(sub)
	result, err := c.Insert(SubmissionsCollection, doc)
	if err != nil {
		return "", err
	}
	return extractID(result), nil
}

// List returns matching submissions newest-first plus the total match count.
func (r *SubmissionRepo) List(f ListFilter) ([]models.Submission, int, error) {
	c := r.pool.Get()
	query := listQuery(f)

	total, err := c.Count(SubmissionsCollection, query)
	if err != nil {
		return nil, 0, err
	}

	docs, err := c.Find(SubmissionsCollection, query, &oxidb.FindOptions{
		Sort:  map[string]any{"createdAt": -1},
		Skip:  &f.Skip,
		Limit: &f.Limit,
	})
	if err != nil {
		return nil, 0, err
	}

	subs := make([]models.Submission, 0, len(docs))
	for _, d := range docs {
		s, err := docToSubmission(d)
		if err != nil {
			continue
		}
		subs = append(subs, *s)
	}
	return subs, total, nil
}

// DeleteByIDs bulk-deletes by primary key list. Unknown ids are silently
// skipped; the returned count reflects documents actually removed.
func (r *SubmissionRepo) DeleteByIDs(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	c := r.pool.Get()
	keys := make([]any, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, toNumericID(id))
	}
	result, err := c.Delete(SubmissionsCollection, map[string]any{"_id": map[string]any{"$in": keys}})
	if err != nil {
		return 0, err
	}
	return extractCount(result), nil
}

func (r *SubmissionRepo) DeleteAll() (int, error) {
	return r.deleteWhere(map[string]any{})
}

func (r *SubmissionRepo) DeleteWithoutSession() (int, error) {
	return r.deleteWhere(noSessionQuery())
}

func (r *SubmissionRepo) DeleteTestData() (int, error) {
	return r.deleteWhere(testDataQuery())
}

func (r *SubmissionRepo) DeleteOlderThan(cutoff time.Time) (int, error) {
	return r.deleteWhere(olderThanQuery(cutoff))
}

func (r *SubmissionRepo) deleteWhere(query map[string]any) (int, error) {
	c := r.pool.Get()
	result, err := c.Delete(SubmissionsCollection, query)
	if err != nil {
		return 0, err
	}
	return extractCount(result), nil
}

func (r *SubmissionRepo) CountAll() (int, error) {
	return r.pool.Get().Count(SubmissionsCollection, map[string]any{})
}

func (r *SubmissionRepo) CountWithoutSession() (int, error) {
	return r.pool.Get().Count(SubmissionsCollection, noSessionQuery())
}

func (r *SubmissionRepo) CountTestData() (int, error) {
	return r.pool.Get().Count(SubmissionsCollection, testDataQuery())
}

func (r *SubmissionRepo) CountOlderThan(cutoff time.Time) (int, error) {
	return r.pool.Get().Count(SubmissionsCollection, olderThanQuery(cutoff))
}

// DistinctSessions groups documents by session value, most frequent first.
func (r *SubmissionRepo) DistinctSessions() ([]SessionCount, error) {
	c := r.pool.Get()
	rows, err := c.Aggregate(SubmissionsCollection, []map[string]any{
		{"$group": map[string]any{"_id": "$sessionId", "count": map[string]any{"$sum": 1}}},
		{"$sort": map[string]any{"count": -1}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]SessionCount, 0, len(rows))
	for _, row := range rows {
		sc := SessionCount{}
		if s, ok := row["_id"].(string); ok {
			sc.SessionID = s
		}
		if n, ok := row["count"].(float64); ok {
			sc.Count = int(n)
		}
		out = append(out, sc)
	}
	return out, nil
}

// Recent returns the newest documents, for diagnostics sampling.
func (r *SubmissionRepo) Recent(limit int) ([]models.Submission, error) {
	subs, _, err := r.List(ListFilter{Limit: limit})
	return subs, err
}

// ------------------------------------------------------------------
// query builders
// ------------------------------------------------------------------

func listQuery(f ListFilter) map[string]any {
	var conds []any
	if f.QuestionID != 0 {
		conds = append(conds, map[string]any{"questionId": f.QuestionID})
	}
	if f.SessionID != "" {
		if session.IsIndividual(f.SessionID) {
			// Pre-session documents have no sessionId field; the individual
			// sentinel matches them for backward compatibility.
			conds = append(conds, map[string]any{"$or": []any{
				map[string]any{"sessionId": map[string]any{"$exists": false}},
				map[string]any{"sessionId": nil},
				map[string]any{"sessionId": ""},
				map[string]any{"sessionId": session.Individual},
			}})
		} else {
			conds = append(conds, map[string]any{"sessionId": f.SessionID})
		}
	}
	switch len(conds) {
	case 0:
		return map[string]any{}
	case 1:
		return conds[0].(map[string]any)
	default:
		return map[string]any{"$and": conds}
	}
}

func noSessionQuery() map[string]any {
	return map[string]any{"$or": []any{
		map[string]any{"sessionId": map[string]any{"$exists": false}},
		map[string]any{"sessionId": nil},
		map[string]any{"sessionId": ""},
	}}
}

// testDataQuery matches throwaway rows left behind by manual testing.
func testDataQuery() map[string]any {
	return map[string]any{"$or": []any{
		map[string]any{"controlName": map[string]any{"$regex": "(?i)TEST"}},
		map[string]any{"controlName": map[string]any{"$regex": "(?i)DEBUG"}},
		map[string]any{"sessionId": map[string]any{"$regex": "(?i)^test_"}},
		map[string]any{"sessionId": map[string]any{"$regex": "(?i)^migrated_"}},
		map[string]any{"sessionId": map[string]any{"$regex": "(?i)^debug_"}},
		map[string]any{"questionId": map[string]any{"$gte": 888}},
	}}
}

func olderThanQuery(cutoff time.Time) map[string]any {
	// createdAt is RFC3339 UTC, so lexicographic $lt is chronological.
	return map[string]any{"createdAt": map[string]any{"$lt": cutoff.UTC().Format(time.RFC3339)}}
}

func submissionToDoc(s *models.Submission) map[string]any {
	data, _ := json.Marshal(s)
	var doc map[string]any
	json.Unmarshal(data, &doc)
	delete(doc, "_id")
	return doc
}

func docToSubmission(doc map[string]any) (*models.Submission, error) {
	normalizeID(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal submission doc: %w", err)
	}
	var s models.Submission
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal submission: %w", err)
	}
	return &s, nil
}
