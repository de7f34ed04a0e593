package users

import (
	"fmt"

	"divemanager/internal/repository"
	custom_error "divemanager/pkg/errors"
	"divemanager/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UserRepository interface {
	PersistUser(req models.CreateUserRequest) (*models.User, error)
	GetUser(id string) (*models.User, error)
	FindByTagCode(code string) (*models.User, error)
	GetUsers(search string) ([]models.User, error)
	UpdateUser(id string, changes models.UpdateUserRequest) error
	DeleteUser(id string) error
	IsReferencedByMovements(id string) (bool, error)
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

func (r *userRepositoryImpl) PersistUser(req models.CreateUserRequest) (*models.User, error) {
	userID := uuid.NewString()

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		record := goqu.Record{
			"id":                  userID,
			"name":                req.Name,
			"email":               req.Email,
			"license_number":      req.LicenseNumber,
			"certification_level": req.CertificationLevel,
			"role":                req.Role,
		}

		if _, err := tx.Insert("users").Rows(record).Executor().Exec(); err != nil {
			return wrapUserError(err, "Duplicate email address")
		}

		tagRows := make([]goqu.Record, 0, len(req.TagCodes))
		for _, code := range req.TagCodes {
			tagRows = append(tagRows, goqu.Record{"code": code, "user_id": userID})
		}
		if _, err := tx.Insert("user_tags").Rows(tagRows).Executor().Exec(); err != nil {
			return wrapUserError(err, "Duplicate tag code")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetUser(userID)
}

func (r *userRepositoryImpl) GetUser(id string) (*models.User, error) {
	return r.fetchFlatUserByCondition(goqu.Ex{"u.id": id})
}

// FindByTagCode resolves a scanned code to the member carrying it. Matching
// is case-sensitive and exact.
func (r *userRepositoryImpl) FindByTagCode(code string) (*models.User, error) {
	return r.fetchFlatUserByCondition(
		goqu.L("EXISTS (SELECT 1 FROM user_tags t WHERE t.user_id = u.id AND t.code = ?)", code),
	)
}

func (r *userRepositoryImpl) GetUsers(search string) ([]models.User, error) {
	query := r.getUserQuery()

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(goqu.Or(
			goqu.I("u.name").ILike(pattern),
			goqu.I("u.email").ILike(pattern),
		))
	}

	query = query.Order(goqu.I("u.name").Asc())

	var flatUsers []models.FlatUserRecord
	if err := query.Executor().ScanStructs(&flatUsers); err != nil {
		return nil, fmt.Errorf("unable to select users from database: %w", err)
	}

	users := make([]models.User, 0, len(flatUsers))
	for _, flatUser := range flatUsers {
		users = append(users, flatUser.TransformToUser())
	}

	return users, nil
}

func (r *userRepositoryImpl) UpdateUser(id string, changes models.UpdateUserRequest) error {
	record := goqu.Record{}
	if changes.Name != nil {
		record["name"] = *changes.Name
	}
	if changes.Email != nil {
		record["email"] = *changes.Email
	}
	if changes.LicenseNumber != nil {
		record["license_number"] = *changes.LicenseNumber
	}
	if changes.CertificationLevel != nil {
		record["certification_level"] = *changes.CertificationLevel
	}
	if changes.Role != nil {
		record["role"] = *changes.Role
	}
	if changes.IsActive != nil {
		record["is_active"] = *changes.IsActive
	}

	query := r.repository.GoquDBWrapper.
		Update("users").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return wrapUserError(err, "Duplicate email address")
	}

	return nil
}

// DeleteUser removes the user and their tags. Callers must check
// IsReferencedByMovements first; the movement ledger is the audit trail and
// its rows are never orphaned.
func (r *userRepositoryImpl) DeleteUser(id string) error {
	query := r.repository.GoquDBWrapper.
		Delete("users").
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return wrapUserError(err, "User is referenced by other records")
	}

	return nil
}

func (r *userRepositoryImpl) IsReferencedByMovements(id string) (bool, error) {
	var count int64
	query := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("id")).
		From("movements").
		Where(goqu.Ex{"user_id": id})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("failed to check user movements: %w", err)
	}

	return count > 0, nil
}

func (r *userRepositoryImpl) fetchFlatUserByCondition(condition goqu.Expression) (*models.User, error) {
	var flatUser models.FlatUserRecord

	query := r.getUserQuery().Where(condition)

	ok, err := query.Executor().ScanStruct(&flatUser)
	if err != nil {
		return nil, fmt.Errorf("unable to select user from database: %w", err)
	}
	if !ok {
		return nil, nil
	}

	user := flatUser.TransformToUser()
	return &user, nil
}

func (r *userRepositoryImpl) getUserQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("u.id").As("user_id"),
			goqu.I("u.name").As("user_name"),
			goqu.I("u.email").As("email"),
			goqu.I("u.license_number").As("license_number"),
			goqu.I("u.certification_level").As("certification_level"),
			goqu.I("u.role").As("role"),
			goqu.L("(SELECT COALESCE(array_agg(t.code ORDER BY t.code), '{}') FROM user_tags t WHERE t.user_id = u.id)").As("tag_codes"),
			goqu.I("u.is_active").As("is_active"),
			goqu.I("u.created_at").As("created_at"),
		).
		From(goqu.T("users").As("u"))
}

func wrapUserError(err error, message string) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return custom_error.WrapDBError(message, string(pqErr.Code))
	}
	return fmt.Errorf("failed to persist user record: %w", err)
}
