package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bioedlabs/controlbench/internal/models"
	"github.com/bioedlabs/controlbench/internal/repository"
)

// ErrValidation marks request errors the API reports as 400.
var ErrValidation = errors.New("validation failed")

// DeleteAllConfirmation must accompany the delete-all cleanup action.
const DeleteAllConfirmation = "DELETE_ALL_SUBMISSIONS_CONFIRMED"

const (
	DefaultPageLimit = 15
	oldDataAge       = 30 * 24 * time.Hour
	recentSample     = 10
)

// Store is the persistence surface the service needs. Implemented by
// repository.SubmissionRepo (OxiDB) and repository.MemoryStore (tests).
type Store interface {
	Insert(sub *models.Submission) (string, error)
	List(f repository.ListFilter) ([]models.Submission, int, error)
	DeleteByIDs(ids []string) (int, error)
	DeleteAll() (int, error)
	DeleteWithoutSession() (int, error)
	DeleteTestData() (int, error)
	DeleteOlderThan(cutoff time.Time) (int, error)
	CountAll() (int, error)
	CountWithoutSession() (int, error)
	CountTestData() (int, error)
	CountOlderThan(cutoff time.Time) (int, error)
	DistinctSessions() ([]repository.SessionCount, error)
	Recent(limit int) ([]models.Submission, error)
}

// CreateRequest is the POST /submissions body.
type CreateRequest struct {
	QuestionID           int                       `json:"questionId" validate:"required,gt=0"`
	NewControlSelections []models.ControlSelection `json:"newControlSelections" validate:"required,min=1"`
	ControlName          string                    `json:"controlName"`
	SessionID            string                    `json:"sessionId"`
}

// Pagination describes one page of a submission listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type SubmissionService struct {
	store    Store
	validate *validator.Validate
	log      *zap.Logger
}

func NewSubmissionService(store Store, log *zap.Logger) *SubmissionService {
	return &SubmissionService{
		store:    store,
		validate: validator.New(),
		log:      log,
	}
}

// Create validates and stores one authored control column. createdAt is
// assigned here; controlName falls back to the default.
func (s *SubmissionService) Create(req CreateRequest) (*models.Submission, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for i, sel := range req.NewControlSelections {
		if !sel.Value.Valid() {
			return nil, fmt.Errorf("%w: selection %d has unknown value %q", ErrValidation, i, sel.Value)
		}
	}

	name := req.ControlName
	if name == "" {
		name = models.DefaultControlName
	}

	sub := &models.Submission{
		QuestionID:           req.QuestionID,
		NewControlSelections: req.NewControlSelections,
		ControlName:          name,
		SessionID:            req.SessionID,
		CreatedAt:            time.Now().UTC().Format(time.RFC3339),
	}

	id, err := s.store.Insert(sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id
	s.log.Info("submission stored",
		zap.String("id", id),
		zap.Int("questionId", sub.QuestionID),
		zap.String("sessionId", sub.SessionID),
		zap.String("controlName", sub.ControlName))
	return sub, nil
}

// List returns one newest-first page of submissions with pagination info.
func (s *SubmissionService) List(questionID int, sessionID string, page, limit int) ([]models.Submission, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}

	subs, total, err := s.store.List(repository.ListFilter{
		QuestionID: questionID,
		SessionID:  sessionID,
		Skip:       (page - 1) * limit,
		Limit:      limit,
	})
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := (total + limit - 1) / limit
	return subs, Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

// DeleteByIDs bulk-deletes a submission batch. An empty id list is a
// validation error; unknown ids are silent no-ops.
func (s *SubmissionService) DeleteByIDs(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no submission IDs provided", ErrValidation)
	}
	deleted, err := s.store.DeleteByIDs(ids)
	if err != nil {
		return 0, err
	}
	s.log.Info("submissions deleted", zap.Int("requested", len(ids)), zap.Int("deleted", deleted))
	return deleted, nil
}
