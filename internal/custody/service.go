package custody

import (
	"errors"
	"fmt"
	"time"

	"divemanager/internal/issues"
	"divemanager/internal/movements"
	"divemanager/internal/repository"
	"divemanager/pkg/metadata"
	"divemanager/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

const returnIssueTitle = "Problem reported on return"

// errLostRace signals that the conditional status update matched zero rows:
// another transition committed between our validation read and our write.
var errLostRace = errors.New("asset status changed concurrently")

type AssetStore interface {
	GetAsset(id string) (*models.Asset, error)
	CompareAndSwapStatus(tx *goqu.TxDatabase, id string, expected, next metadata.AssetStatus, assigneeID *string) (bool, error)
	MarkIssueReported(tx *goqu.TxDatabase, id string, reportedAt time.Time) error
}

type UserStore interface {
	GetUser(id string) (*models.User, error)
}

type MovementStore interface {
	Insert(tx *goqu.TxDatabase, record movements.NewMovement) (*models.Movement, error)
}

type IssueStore interface {
	Insert(tx *goqu.TxDatabase, issue issues.NewIssue) (*models.Issue, error)
}

// Service enforces the legality of custody transitions and makes the
// multi-table write of each transition a single atomic unit.
type Service struct {
	assets    AssetStore
	users     UserStore
	movements MovementStore
	issues    IssueStore
	log       *zap.Logger

	// transact wraps the validate-and-write sequence of one transition;
	// injectable so the race handling is testable without a store.
	transact func(fn func(tx *goqu.TxDatabase) error) error
}

func NewService(repo *repository.Repository, assets AssetStore, users UserStore, movementStore MovementStore, issueStore IssueStore, log *zap.Logger) *Service {
	return &Service{
		assets:    assets,
		users:     users,
		movements: movementStore,
		issues:    issueStore,
		log:       log,
		transact: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(repo.GoquDBWrapper, fn)
		},
	}
}

// Result is the outcome of a committed custody transfer.
type Result struct {
	Message  string           `json:"message"`
	Movement *models.Movement `json:"movement"`
	Asset    *models.Asset    `json:"asset"`
	Issue    *models.Issue    `json:"issue,omitempty"`
}

// Checkout hands an available asset to a member. The status swap and the
// ledger entry commit together or not at all; when two checkouts race for
// the same asset, the conditional update lets exactly one win.
func (s *Service) Checkout(req models.CheckoutRequest, method metadata.Method) (*Result, error) {
	asset, user, err := s.loadParticipants(req.AssetID, req.UserID)
	if err != nil {
		return nil, err
	}

	if asset.Status != metadata.StatusAvailable {
		return nil, &InvalidTransitionError{Current: asset.Status}
	}

	var movement *models.Movement
	err = s.transact(func(tx *goqu.TxDatabase) error {
		swapped, err := s.assets.CompareAndSwapStatus(tx, asset.ID, metadata.StatusAvailable, metadata.StatusCheckedOut, &user.ID)
		if err != nil {
			return err
		}
		if !swapped {
			return errLostRace
		}

		movement, err = s.movements.Insert(tx, movements.NewMovement{
			AssetID:     asset.ID,
			UserID:      user.ID,
			Type:        metadata.MovementCheckout,
			PerformedBy: req.PerformedBy,
			Notes:       req.Notes,
			Method:      method,
		})
		return err
	})
	if errors.Is(err, errLostRace) {
		return nil, s.lostRaceError(req.AssetID)
	}
	if err != nil {
		return nil, fmt.Errorf("checkout transaction failed: %w", err)
	}

	updatedAsset, err := s.assets.GetAsset(asset.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload asset after checkout: %w", err)
	}

	s.log.Info("Asset checked out",
		zap.String("asset_id", asset.ID),
		zap.String("user_id", user.ID),
		zap.String("performed_by", req.PerformedBy),
	)

	return &Result{
		Message:  fmt.Sprintf("%s assigned to %s", asset.Name, user.Name),
		Movement: movement,
		Asset:    updatedAsset,
	}, nil
}

// CheckIn returns a checked-out asset. Only the current holder may return
// it; a flagged return lands the asset in defective and opens a ticket in
// the same transaction.
func (s *Service) CheckIn(req models.CheckinRequest, method metadata.Method) (*Result, error) {
	asset, user, err := s.loadParticipants(req.AssetID, req.UserID)
	if err != nil {
		return nil, err
	}

	if asset.Status != metadata.StatusCheckedOut {
		return nil, &InvalidTransitionError{Current: asset.Status}
	}

	if asset.AssignedTo == nil || asset.AssignedTo.ID != user.ID {
		holder := "another member"
		if asset.AssignedTo != nil && asset.AssignedTo.Name != "" {
			holder = asset.AssignedTo.Name
		}
		return nil, &WrongHolderError{Holder: holder}
	}

	nextStatus := metadata.StatusAvailable
	if req.HasIssues {
		nextStatus = metadata.StatusDefective
	}

	var movement *models.Movement
	var issue *models.Issue
	err = s.transact(func(tx *goqu.TxDatabase) error {
		swapped, err := s.assets.CompareAndSwapStatus(tx, asset.ID, metadata.StatusCheckedOut, nextStatus, nil)
		if err != nil {
			return err
		}
		if !swapped {
			return errLostRace
		}

		if req.HasIssues {
			if err := s.assets.MarkIssueReported(tx, asset.ID, time.Now()); err != nil {
				return err
			}
		}

		movement, err = s.movements.Insert(tx, movements.NewMovement{
			AssetID:          asset.ID,
			UserID:           user.ID,
			Type:             metadata.MovementCheckin,
			PerformedBy:      req.PerformedBy,
			Notes:            req.Notes,
			HasIssues:        req.HasIssues,
			IssueDescription: req.IssueDescription,
			Method:           method,
		})
		if err != nil {
			return err
		}

		if req.HasIssues && req.IssueDescription != "" {
			issue, err = s.issues.Insert(tx, issues.NewIssue{
				AssetID:     asset.ID,
				Title:       returnIssueTitle,
				Description: req.IssueDescription,
				Severity:    metadata.SeverityMedium,
				ReportedBy:  req.PerformedBy,
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if errors.Is(err, errLostRace) {
		return nil, s.lostRaceError(req.AssetID)
	}
	if err != nil {
		return nil, fmt.Errorf("check-in transaction failed: %w", err)
	}

	updatedAsset, err := s.assets.GetAsset(asset.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload asset after check-in: %w", err)
	}

	s.log.Info("Asset checked in",
		zap.String("asset_id", asset.ID),
		zap.String("user_id", user.ID),
		zap.Bool("has_issues", req.HasIssues),
	)

	message := fmt.Sprintf("%s returned by %s", asset.Name, user.Name)
	if req.HasIssues {
		message += " (with reported issue)"
	}

	return &Result{
		Message:  message,
		Movement: movement,
		Asset:    updatedAsset,
		Issue:    issue,
	}, nil
}

func (s *Service) loadParticipants(assetID, userID string) (*models.Asset, *models.User, error) {
	asset, err := s.assets.GetAsset(assetID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load asset: %w", err)
	}
	if asset == nil {
		return nil, nil, &NotFoundError{Resource: "asset"}
	}

	user, err := s.users.GetUser(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, nil, &NotFoundError{Resource: "user"}
	}

	return asset, user, nil
}

// lostRaceError re-reads the asset so the caller learns the status it
// actually ended up in, not the one we validated against.
func (s *Service) lostRaceError(assetID string) error {
	current, err := s.assets.GetAsset(assetID)
	if err != nil || current == nil {
		return &InvalidTransitionError{Current: metadata.StatusCheckedOut}
	}
	return &InvalidTransitionError{Current: current.Status}
}
