package issues

import (
	"fmt"
	"time"

	"divemanager/internal/repository"
	custom_error "divemanager/pkg/errors"
	"divemanager/pkg/metadata"
	"divemanager/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// NewIssue is the write shape of a ticket opened by a flagged check-in.
type NewIssue struct {
	AssetID     string
	Title       string
	Description string
	Severity    metadata.Severity
	ReportedBy  string
}

type IssueRepository interface {
	Insert(tx *goqu.TxDatabase, issue NewIssue) (*models.Issue, error)
	PersistIssue(req models.CreateIssueRequest) (*models.Issue, error)
	GetIssue(id string) (*models.Issue, error)
	GetByAsset(assetID string) ([]models.Issue, error)
	GetIssues(status string) ([]models.Issue, error)
	UpdateStatus(id string, req models.UpdateIssueStatusRequest) error
	CountOpen() (int, error)
}

type issueRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) IssueRepository {
	return &issueRepositoryImpl{repository: r}
}

// Insert appends one open ticket inside the caller's transaction; a flagged
// check-in uses this so the ticket commits together with the custody change.
func (r *issueRepositoryImpl) Insert(tx *goqu.TxDatabase, issue NewIssue) (*models.Issue, error) {
	created := models.Issue{
		ID:          uuid.NewString(),
		AssetID:     issue.AssetID,
		Title:       issue.Title,
		Description: issue.Description,
		Severity:    issue.Severity,
		Status:      metadata.IssueOpen,
		ReportedBy:  issue.ReportedBy,
	}

	query := tx.Insert("issues").
		Rows(goqu.Record{
			"id":          created.ID,
			"asset_id":    created.AssetID,
			"title":       created.Title,
			"description": created.Description,
			"severity":    created.Severity,
			"status":      created.Status,
			"reported_by": created.ReportedBy,
		}).
		Returning("reported_at")

	if _, err := query.Executor().ScanVal(&created.ReportedAt); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Issue references a missing asset", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert issue record: %w", err)
	}

	return &created, nil
}

// PersistIssue creates a manually reported ticket outside any custody flow.
func (r *issueRepositoryImpl) PersistIssue(req models.CreateIssueRequest) (*models.Issue, error) {
	severity := metadata.SeverityMedium
	if req.Severity != "" {
		parsed, err := metadata.NewSeverity(req.Severity)
		if err != nil {
			return nil, err
		}
		severity = parsed
	}

	var created *models.Issue
	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		created, err = r.Insert(tx, NewIssue{
			AssetID:     req.AssetID,
			Title:       req.Title,
			Description: req.Description,
			Severity:    severity,
			ReportedBy:  req.ReportedBy,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *issueRepositoryImpl) GetIssue(id string) (*models.Issue, error) {
	var flatIssue models.FlatIssueRecord

	query := r.getIssueQuery().Where(goqu.Ex{"i.id": id})

	ok, err := query.Executor().ScanStruct(&flatIssue)
	if err != nil {
		return nil, fmt.Errorf("unable to select issue from database: %w", err)
	}
	if !ok {
		return nil, nil
	}

	issue := flatIssue.TransformToIssue()
	return &issue, nil
}

func (r *issueRepositoryImpl) GetByAsset(assetID string) ([]models.Issue, error) {
	return r.fetchIssues(r.getIssueQuery().Where(goqu.Ex{"i.asset_id": assetID}))
}

func (r *issueRepositoryImpl) GetIssues(status string) ([]models.Issue, error) {
	query := r.getIssueQuery()
	if status != "" {
		query = query.Where(goqu.Ex{"i.status": status})
	}
	return r.fetchIssues(query)
}

func (r *issueRepositoryImpl) UpdateStatus(id string, req models.UpdateIssueStatusRequest) error {
	status, err := metadata.NewIssueStatus(req.Status)
	if err != nil {
		return err
	}

	record := goqu.Record{"status": status}
	if status == metadata.IssueResolved || status == metadata.IssueClosed {
		record["resolved_at"] = time.Now()
		record["resolved_by"] = req.ResolvedBy
		record["resolution"] = req.Resolution
	}

	query := r.repository.GoquDBWrapper.
		Update("issues").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update issue %s: %w", id, err)
	}

	return nil
}

func (r *issueRepositoryImpl) CountOpen() (int, error) {
	var count int
	query := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("id")).
		From("issues").
		Where(goqu.C("status").In(metadata.IssueOpen, metadata.IssueInProgress))

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("unable to count open issues: %w", err)
	}

	return count, nil
}

func (r *issueRepositoryImpl) fetchIssues(query *goqu.SelectDataset) ([]models.Issue, error) {
	var flatIssues []models.FlatIssueRecord
	if err := query.Executor().ScanStructs(&flatIssues); err != nil {
		return nil, fmt.Errorf("unable to select issues from database: %w", err)
	}

	issues := make([]models.Issue, 0, len(flatIssues))
	for _, flatIssue := range flatIssues {
		issues = append(issues, flatIssue.TransformToIssue())
	}

	return issues, nil
}

func (r *issueRepositoryImpl) getIssueQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("i.id").As("issue_id"),
			goqu.I("i.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("i.title").As("title"),
			goqu.I("i.description").As("description"),
			goqu.I("i.severity").As("severity"),
			goqu.I("i.status").As("issue_status"),
			goqu.I("i.reported_by").As("reported_by"),
			goqu.I("i.reported_at").As("reported_at"),
			goqu.I("i.assigned_to").As("assigned_to"),
			goqu.I("i.resolved_at").As("resolved_at"),
			goqu.I("i.resolved_by").As("resolved_by"),
			goqu.I("i.resolution").As("resolution"),
		).
		From(goqu.T("issues").As("i")).
		LeftJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"i.asset_id": goqu.I("a.id")}),
		).
		Order(goqu.I("i.reported_at").Desc())
}
