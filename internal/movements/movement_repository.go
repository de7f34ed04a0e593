package movements

import (
	"fmt"

	"divemanager/internal/repository"
	custom_error "divemanager/pkg/errors"
	"divemanager/pkg/metadata"
	"divemanager/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// NewMovement is the write shape of one ledger entry. The id and the
// timestamp are generated at insert time.
type NewMovement struct {
	AssetID          string
	UserID           string
	Type             metadata.MovementType
	PerformedBy      string
	Notes            string
	HasIssues        bool
	IssueDescription string
	Method           metadata.Method
}

// MovementRepository is an append-only ledger; there are deliberately no
// update or delete operations.
type MovementRepository interface {
	Insert(tx *goqu.TxDatabase, record NewMovement) (*models.Movement, error)
	GetByAsset(assetID string) ([]models.Movement, error)
	GetByUser(userID string) ([]models.Movement, error)
	GetRecent(limit int) ([]models.Movement, error)
	Search(text string, movementType string) ([]models.Movement, error)
}

type movementRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) MovementRepository {
	return &movementRepositoryImpl{repository: r}
}

func (r *movementRepositoryImpl) Insert(tx *goqu.TxDatabase, record NewMovement) (*models.Movement, error) {
	movement := models.Movement{
		ID:               uuid.NewString(),
		AssetID:          record.AssetID,
		UserID:           record.UserID,
		Type:             record.Type,
		Notes:            record.Notes,
		PerformedBy:      record.PerformedBy,
		HasIssues:        record.HasIssues,
		IssueDescription: record.IssueDescription,
		Method:           record.Method,
	}

	query := tx.Insert("movements").
		Rows(goqu.Record{
			"id":                movement.ID,
			"asset_id":          movement.AssetID,
			"user_id":           movement.UserID,
			"type":              movement.Type,
			"notes":             movement.Notes,
			"performed_by":      movement.PerformedBy,
			"has_issues":        movement.HasIssues,
			"issue_description": movement.IssueDescription,
			"method":            movement.Method,
		}).
		Returning("movement_date")

	if _, err := query.Executor().ScanVal(&movement.MovementDate); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Movement references a missing asset or user", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert movement record: %w", err)
	}

	return &movement, nil
}

func (r *movementRepositoryImpl) GetByAsset(assetID string) ([]models.Movement, error) {
	return r.fetchMovements(r.getMovementQuery().Where(goqu.Ex{"m.asset_id": assetID}))
}

func (r *movementRepositoryImpl) GetByUser(userID string) ([]models.Movement, error) {
	return r.fetchMovements(r.getMovementQuery().Where(goqu.Ex{"m.user_id": userID}))
}

func (r *movementRepositoryImpl) GetRecent(limit int) ([]models.Movement, error) {
	return r.fetchMovements(r.getMovementQuery().Limit(uint(limit)))
}

func (r *movementRepositoryImpl) Search(text string, movementType string) ([]models.Movement, error) {
	query := r.getMovementQuery()

	if text != "" {
		pattern := "%" + text + "%"
		query = query.Where(goqu.Or(
			goqu.I("a.name").ILike(pattern),
			goqu.I("u.name").ILike(pattern),
			goqu.I("m.performed_by").ILike(pattern),
		))
	}
	if movementType != "" {
		query = query.Where(goqu.Ex{"m.type": movementType})
	}

	return r.fetchMovements(query)
}

func (r *movementRepositoryImpl) fetchMovements(query *goqu.SelectDataset) ([]models.Movement, error) {
	var flatMovements []models.FlatMovementRecord
	if err := query.Executor().ScanStructs(&flatMovements); err != nil {
		return nil, fmt.Errorf("unable to select movements from database: %w", err)
	}

	movements := make([]models.Movement, 0, len(flatMovements))
	for _, flatMovement := range flatMovements {
		movements = append(movements, flatMovement.TransformToMovement())
	}

	return movements, nil
}

// Display names come from joins at read time; the ledger rows store ids only.
func (r *movementRepositoryImpl) getMovementQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("m.id").As("movement_id"),
			goqu.I("m.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("m.user_id").As("user_id"),
			goqu.I("u.name").As("user_name"),
			goqu.I("m.type").As("movement_type"),
			goqu.I("m.movement_date").As("movement_date"),
			goqu.I("m.notes").As("notes"),
			goqu.I("m.performed_by").As("performed_by"),
			goqu.I("m.has_issues").As("has_issues"),
			goqu.I("m.issue_description").As("issue_description"),
			goqu.I("m.method").As("method"),
		).
		From(goqu.T("movements").As("m")).
		LeftJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"m.asset_id": goqu.I("a.id")}),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"m.user_id": goqu.I("u.id")}),
		).
		Order(goqu.I("m.movement_date").Desc())
}
