package assets

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

type AssetsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssetsRepository {
	return &AssetsRepository{
		repository: r,
	}
}

// GetAsset returns the asset with the resolved assignee name, or nil when
// no row matches.
func (r *AssetsRepository) GetAsset(id string) (*models.Asset, error) {
	return r.fetchFlatAssetByCondition(goqu.Ex{"a.id": id})
}

// FindByTagCode resolves a scanned QR or NFC code. Any code registered for
// the asset matches; comparison is exact.
func (r *AssetsRepository) FindByTagCode(code string) (*models.Asset, error) {
	return r.fetchFlatAssetByCondition(
		goqu.L("EXISTS (SELECT 1 FROM asset_tags t WHERE t.asset_id = a.id AND t.code = ?)", code),
	)
}

func (r *AssetsRepository) GetAssetsBy(filter models.AssetFilter) ([]models.Asset, error) {
	query := r.getAssetQuery()

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(goqu.Or(
			goqu.I("a.name").ILike(pattern),
			goqu.I("a.asset_tag").ILike(pattern),
			goqu.I("a.serial_number").ILike(pattern),
		))
	}
	if filter.Status != "" {
		query = query.Where(goqu.Ex{"a.status": filter.Status})
	}
	if filter.Category != "" {
		query = query.Where(goqu.Ex{"a.category": filter.Category})
	}

	query = query.Order(goqu.I("a.name").Asc())

	var flatAssets []models.FlatAssetRecord
	if err := query.Executor().ScanStructs(&flatAssets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	assets := make([]models.Asset, 0, len(flatAssets))
	for _, flatAsset := range flatAssets {
		assets = append(assets, flatAsset.TransformToAsset())
	}

	return assets, nil
}

// PersistAsset inserts a new asset together with its tag codes. New assets
// always start out available.
func (r *AssetsRepository) PersistAsset(req models.CreateAssetRequest) (*models.Asset, error) {
	assetID := uuid.NewString()

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		record := goqu.Record{
			"id":            assetID,
			"name":          req.Name,
			"serial_number": req.SerialNumber,
			"asset_tag":     req.AssetTag,
			"category":      req.Category,
			"model":         req.Model,
			"manufacturer":  req.Manufacturer,
			"status":        metadata.StatusAvailable,
			"location":      req.Location,
			"notes":         req.Notes,
		}

		if _, err := tx.Insert("assets").Rows(record).Executor().Exec(); err != nil {
			return wrapAssetError(err, "Duplicate serial number or asset tag")
		}

		tagRows := make([]goqu.Record, 0, len(req.TagCodes))
		for _, code := range req.TagCodes {
			tagRows = append(tagRows, goqu.Record{"code": code, "asset_id": assetID})
		}
		if _, err := tx.Insert("asset_tags").Rows(tagRows).Executor().Exec(); err != nil {
			return wrapAssetError(err, "Duplicate tag code")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetAsset(assetID)
}

func (r *AssetsRepository) UpdateAsset(id string, changes models.UpdateAssetRequest) error {
	record := goqu.Record{"updated_at": goqu.L("now()")}
	if changes.Name != nil {
		record["name"] = *changes.Name
	}
	if changes.Category != nil {
		record["category"] = *changes.Category
	}
	if changes.Model != nil {
		record["model"] = *changes.Model
	}
	if changes.Manufacturer != nil {
		record["manufacturer"] = *changes.Manufacturer
	}
	if changes.Location != nil {
		record["location"] = *changes.Location
	}
	if changes.Notes != nil {
		record["notes"] = *changes.Notes
	}

	query := r.repository.GoquDBWrapper.
		Update("assets").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update asset %s: %w", id, err)
	}

	return nil
}

// AddTagCode registers an additional physical tag for the asset, e.g. an
// NFC sticker next to an existing QR label.
func (r *AssetsRepository) AddTagCode(id string, code string) error {
	query := r.repository.GoquDBWrapper.
		Insert("asset_tags").
		Rows(goqu.Record{"code": code, "asset_id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return wrapAssetError(err, "Duplicate tag code")
	}

	return nil
}

// CompareAndSwapStatus flips the asset's custody state only when the row is
// still in the expected status. A false return means the row was not in the
// expected state, which is how a lost transition race is detected.
func (r *AssetsRepository) CompareAndSwapStatus(tx *goqu.TxDatabase, id string, expected, next metadata.AssetStatus, assigneeID *string) (bool, error) {
	query := tx.Update("assets").
		Set(goqu.Record{
			"status":              next,
			"assigned_to_user_id": assigneeID,
			"updated_at":          goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id, "status": expected})

	result, err := query.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update asset status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// MarkIssueReported bumps the fault counters; it runs inside the same
// transaction as the status swap of a flagged check-in.
func (r *AssetsRepository) MarkIssueReported(tx *goqu.TxDatabase, id string, reportedAt time.Time) error {
	query := tx.Update("assets").
		Set(goqu.Record{
			"issue_count":     goqu.L("issue_count + 1"),
			"has_issues":      true,
			"last_issue_date": reportedAt,
		}).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to record issue on asset %s: %w", id, err)
	}

	return nil
}

func (r *AssetsRepository) CountByStatus() (map[metadata.AssetStatus]int, error) {
	query := r.repository.GoquDBWrapper.
		Select(goqu.I("status"), goqu.COUNT("id").As("total")).
		From("assets").
		GroupBy(goqu.I("status"))

	var rows []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("unable to count assets by status: %w", err)
	}

	counts := make(map[metadata.AssetStatus]int, len(rows))
	for _, row := range rows {
		counts[metadata.AssetStatus(row.Status)] = row.Total
	}

	return counts, nil
}

func (r *AssetsRepository) fetchFlatAssetByCondition(condition goqu.Expression) (*models.Asset, error) {
	var flatAsset models.FlatAssetRecord

	query := r.getAssetQuery().Where(condition)

	ok, err := query.Executor().ScanStruct(&flatAsset)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset from database: %w", err)
	}
	if !ok {
		return nil, nil
	}

	asset := flatAsset.TransformToAsset()
	return &asset, nil
}

func (r *AssetsRepository) getAssetQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("a.id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("a.serial_number").As("serial_number"),
			goqu.I("a.asset_tag").As("asset_tag"),
			goqu.I("a.category").As("category"),
			goqu.I("a.model").As("model"),
			goqu.I("a.manufacturer").As("manufacturer"),
			goqu.I("a.status").As("status"),
			goqu.I("a.assigned_to_user_id").As("assigned_to_user_id"),
			goqu.I("u.name").As("assigned_to_name"),
			goqu.I("a.location").As("location"),
			goqu.I("a.notes").As("notes"),
			goqu.I("a.has_issues").As("has_issues"),
			goqu.I("a.issue_count").As("issue_count"),
			goqu.I("a.last_issue_date").As("last_issue_date"),
			goqu.L("(SELECT COALESCE(array_agg(t.code ORDER BY t.code), '{}') FROM asset_tags t WHERE t.asset_id = a.id)").As("tag_codes"),
			goqu.I("a.created_at").As("created_at"),
			goqu.I("a.updated_at").As("updated_at"),
		).
		From(goqu.T("assets").As("a")).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"a.assigned_to_user_id": goqu.I("u.id")}),
		)
}

func wrapAssetError(err error, message string) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return custom_error.WrapDBError(message, string(pqErr.Code))
	}
	return fmt.Errorf("failed to persist asset record: %w", err)
}
