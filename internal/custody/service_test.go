package custody

import (
	"errors"
	"testing"
	"time"

	"divemanager/internal/issues"
	"divemanager/internal/movements"
	"divemanager/pkg/metadata"
	"divemanager/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) GetAsset(id string) (*models.Asset, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetStore) CompareAndSwapStatus(tx *goqu.TxDatabase, id string, expected, next metadata.AssetStatus, assigneeID *string) (bool, error) {
	args := m.Called(tx, id, expected, next, assigneeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetStore) MarkIssueReported(tx *goqu.TxDatabase, id string, reportedAt time.Time) error {
	args := m.Called(tx, id, reportedAt)
	return args.Error(0)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetUser(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockMovementStore struct {
	mock.Mock
}

func (m *MockMovementStore) Insert(tx *goqu.TxDatabase, record movements.NewMovement) (*models.Movement, error) {
	args := m.Called(tx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movement), args.Error(1)
}

type MockIssueStore struct {
	mock.Mock
}

func (m *MockIssueStore) Insert(tx *goqu.TxDatabase, issue issues.NewIssue) (*models.Issue, error) {
	args := m.Called(tx, issue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Issue), args.Error(1)
}

func newTestService(assetStore *MockAssetStore, userStore *MockUserStore, movementStore *MockMovementStore, issueStore *MockIssueStore) *Service {
	return &Service{
		assets:    assetStore,
		users:     userStore,
		movements: movementStore,
		issues:    issueStore,
		log:       zap.NewNop(),
		transact: func(fn func(tx *goqu.TxDatabase) error) error {
			return fn(nil)
		},
	}
}

func availableAsset() *models.Asset {
	return &models.Asset{
		ID:     "asset-1",
		Name:   "Scubapro MK25 EVO Regulator",
		Status: metadata.StatusAvailable,
	}
}

func checkedOutAsset(holderID, holderName string) *models.Asset {
	return &models.Asset{
		ID:     "asset-1",
		Name:   "Scubapro MK25 EVO Regulator",
		Status: metadata.StatusCheckedOut,
		AssignedTo: &models.AssetAssignee{
			ID:   holderID,
			Name: holderName,
		},
	}
}

func member() *models.User {
	return &models.User{ID: "user-1", Name: "Jean Dupont"}
}

func TestCheckoutSuccess(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	movementStore := new(MockMovementStore)
	issueStore := new(MockIssueStore)
	service := newTestService(assetStore, userStore, movementStore, issueStore)

	assetStore.On("GetAsset", "asset-1").Return(availableAsset(), nil).Once()
	userStore.On("GetUser", "user-1").Return(member(), nil).Once()
	assetStore.On("CompareAndSwapStatus", mock.Anything, "asset-1", metadata.StatusAvailable, metadata.StatusCheckedOut, mock.MatchedBy(func(assigneeID *string) bool {
		return assigneeID != nil && *assigneeID == "user-1"
	})).Return(true, nil).Once()
	movementStore.On("Insert", mock.Anything, mock.MatchedBy(func(record movements.NewMovement) bool {
		return record.AssetID == "asset-1" &&
			record.UserID == "user-1" &&
			record.Type == metadata.MovementCheckout &&
			record.PerformedBy == "Pierre Dubois" &&
			record.Method == metadata.MethodQRScan
	})).Return(&models.Movement{ID: "mov-1", Type: metadata.MovementCheckout}, nil).Once()
	assetStore.On("GetAsset", "asset-1").Return(checkedOutAsset("user-1", "Jean Dupont"), nil).Once()

	result, err := service.Checkout(models.CheckoutRequest{
		AssetID:     "asset-1",
		UserID:      "user-1",
		PerformedBy: "Pierre Dubois",
	}, metadata.MethodQRScan)

	assert.NoError(t, err)
	assert.Equal(t, "Scubapro MK25 EVO Regulator assigned to Jean Dupont", result.Message)
	assert.Equal(t, "mov-1", result.Movement.ID)
	assert.Equal(t, metadata.StatusCheckedOut, result.Asset.Status)
	assert.Equal(t, "user-1", result.Asset.AssignedTo.ID)

	assetStore.AssertExpectations(t)
	movementStore.AssertExpectations(t)
}

func TestCheckoutAssetNotFound(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	service := newTestService(assetStore, userStore, new(MockMovementStore), new(MockIssueStore))

	assetStore.On("GetAsset", "missing").Return(nil, nil).Once()

	_, err := service.Checkout(models.CheckoutRequest{
		AssetID:     "missing",
		UserID:      "user-1",
		PerformedBy: "Pierre Dubois",
	}, metadata.MethodManual)

	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "asset", notFoundErr.Resource)
	userStore.AssertNotCalled(t, "GetUser", mock.Anything)
}

func TestCheckoutUserNotFound(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	service := newTestService(assetStore, userStore, new(MockMovementStore), new(MockIssueStore))

	assetStore.On("GetAsset", "asset-1").Return(availableAsset(), nil).Once()
	userStore.On("GetUser", "missing").Return(nil, nil).Once()

	_, err := service.Checkout(models.CheckoutRequest{
		AssetID:     "asset-1",
		UserID:      "missing",
		PerformedBy: "Pierre Dubois",
	}, metadata.MethodManual)

	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "user", notFoundErr.Resource)
}

func TestCheckoutRejectedWhenNotAvailable(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	movementStore := new(MockMovementStore)
	service := newTestService(assetStore, userStore, movementStore, new(MockIssueStore))

	asset := availableAsset()
	asset.Status = metadata.StatusMaintenance

	assetStore.On("GetAsset", "asset-1").Return(asset, nil).Once()
	userStore.On("GetUser", "user-1").Return(member(), nil).Once()

	_, err := service.Checkout(models.CheckoutRequest{
		AssetID:     "asset-1",
		UserID:      "user-1",
		PerformedBy: "Pierre Dubois",
	}, metadata.MethodManual)

	var invalidErr *InvalidTransitionError
	assert.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, metadata.StatusMaintenance, invalidErr.Current)
	assetStore.AssertNotCalled(t, "CompareAndSwapStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	movementStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCheckoutLostRaceReportsFreshStatus(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	movementStore := new(MockMovementStore)
	service := newTestService(assetStore, userStore, movementStore, new(MockIssueStore))

	assetStore.On("GetAsset", "asset-1").Return(availableAsset(), nil).Once()
	userStore.On("GetUser", "user-1").Return(member(), nil).Once()
	assetStore.On("CompareAndSwapStatus", mock.Anything, "asset-1", metadata.StatusAvailable, metadata.StatusCheckedOut, mock.Anything).Return(false, nil).Once()
	// Another checkout committed first; the re-read sees its result.
	assetStore.On("GetAsset", "asset-1").Return(checkedOutAsset("user-2", "Marie Martin"), nil).Once()

	_, err := service.Checkout(models.CheckoutRequest{
		AssetID:     "asset-1",
		UserID:      "user-1",
		PerformedBy: "Pierre Dubois",
	}, metadata.MethodManual)

	var invalidErr *InvalidTransitionError
	assert.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, metadata.StatusCheckedOut, invalidErr.Current)
	movementStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assetStore.AssertExpectations(t)
}

func TestCheckinSuccess(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	movementStore := new(MockMovementStore)
	issueStore := new(MockIssueStore)
	service := newTestService(assetStore, userStore, movementStore, issueStore)

	returnedAsset := availableAsset()

	assetStore.On("GetAsset", "asset-1").Return(checkedOutAsset("user-1", "Jean Dupont"), nil).Once()
	userStore.On("GetUser", "user-1").Return(member(), nil).Once()
	assetStore.On("CompareAndSwapStatus", mock.Anything, "asset-1", metadata.StatusCheckedOut, metadata.StatusAvailable, (*string)(nil)).Return(true, nil).Once()
	movementStore.On("Insert", mock.Anything, mock.MatchedBy(func(record movements.NewMovement) bool {
		return record.Type == metadata.MovementCheckin && !record.HasIssues
	})).Return(&models.Movement{ID: "mov-2", Type: metadata.MovementCheckin}, nil).Once()
	assetStore.On("GetAsset", "asset-1").Return(returnedAsset, nil).Once()

	result, err := service.CheckIn(models.CheckinRequest{
		AssetID:     "asset-1",
		UserID:      "user-1",
		PerformedBy: "Pierre Dubois",
	}, metadata.MethodManual)

	assert.NoError(t, err)
	assert.Equal(t, "Scubapro MK25 EVO Regulator returned by Jean Dupont", result.Message)
	assert.Equal(t, metadata.StatusAvailable, result.Asset.Status)
	assert.Nil(t, result.Asset.AssignedTo)
	assert.Nil(t, result.Issue)

	assetStore.AssertNotCalled(t, "MarkIssueReported", mock.Anything, mock.Anything, mock.Anything)
	issueStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	assetStore.AssertExpectations(t)
}

func TestCheckinRejectsWrongHolder(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	movementStore := new(MockMovementStore)
	service := newTestService(assetStore, userStore, movementStore, new(MockIssueStore))

	assetStore.On("GetAsset", "asset-1").Return(checkedOutAsset("user-2", "Marie Martin"), nil).Once()
	userStore.On("GetUser", "user-1").Return(member(), nil).Once()

	_, err := service.CheckIn(models.CheckinRequest{
		AssetID:     "asset-1",
		UserID:      "user-1",
		PerformedBy: "Pierre Dubois",
	}, metadata.MethodManual)

	var holderErr *WrongHolderError
	assert.ErrorAs(t, err, &holderErr)
	assert.Equal(t, "Marie Martin", holderErr.Holder)
	assetStore.AssertNotCalled(t, "CompareAndSwapStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	movementStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCheckinReplayRejected(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	service := newTestService(assetStore, userStore, new(MockMovementStore), new(MockIssueStore))

	// The first check-in already moved the asset back to available, so a
	// replay of the same request fails the source-state check.
	assetStore.On("GetAsset", "asset-1").Return(availableAsset(), nil).Once()
	userStore.On("GetUser", "user-1").Return(member(), nil).Once()

	_, err := service.CheckIn(models.CheckinRequest{
		AssetID:     "asset-1",
		UserID:      "user-1",
		PerformedBy: "Pierre Dubois",
	}, metadata.MethodManual)

	var invalidErr *InvalidTransitionError
	assert.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, metadata.StatusAvailable, invalidErr.Current)
}

func TestCheckinWithIssueOpensTicket(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	movementStore := new(MockMovementStore)
	issueStore := new(MockIssueStore)
	service := newTestService(assetStore, userStore, movementStore, issueStore)

	defectiveAsset := availableAsset()
	defectiveAsset.Status = metadata.StatusDefective
	defectiveAsset.HasIssues = true
	defectiveAsset.IssueCount = 1

	assetStore.On("GetAsset", "asset-1").Return(checkedOutAsset("user-1", "Jean Dupont"), nil).Once()
	userStore.On("GetUser", "user-1").Return(member(), nil).Once()
	assetStore.On("CompareAndSwapStatus", mock.Anything, "asset-1", metadata.StatusCheckedOut, metadata.StatusDefective, (*string)(nil)).Return(true, nil).Once()
	assetStore.On("MarkIssueReported", mock.Anything, "asset-1", mock.Anything).Return(nil).Once()
	movementStore.On("Insert", mock.Anything, mock.MatchedBy(func(record movements.NewMovement) bool {
		return record.Type == metadata.MovementCheckin &&
			record.HasIssues &&
			record.IssueDescription == "strap broke"
	})).Return(&models.Movement{ID: "mov-3", Type: metadata.MovementCheckin, HasIssues: true}, nil).Once()
	issueStore.On("Insert", mock.Anything, mock.MatchedBy(func(issue issues.NewIssue) bool {
		return issue.AssetID == "asset-1" &&
			issue.Title == "Problem reported on return" &&
			issue.Description == "strap broke" &&
			issue.Severity == metadata.SeverityMedium &&
			issue.ReportedBy == "Pierre Dubois"
	})).Return(&models.Issue{ID: "issue-1", Status: metadata.IssueOpen, Severity: metadata.SeverityMedium}, nil).Once()
	assetStore.On("GetAsset", "asset-1").Return(defectiveAsset, nil).Once()

	result, err := service.CheckIn(models.CheckinRequest{
		AssetID:          "asset-1",
		UserID:           "user-1",
		PerformedBy:      "Pierre Dubois",
		HasIssues:        true,
		IssueDescription: "strap broke",
	}, metadata.MethodManual)

	assert.NoError(t, err)
	assert.Equal(t, "Scubapro MK25 EVO Regulator returned by Jean Dupont (with reported issue)", result.Message)
	assert.Equal(t, metadata.StatusDefective, result.Asset.Status)
	assert.Equal(t, 1, result.Asset.IssueCount)
	assert.Equal(t, metadata.IssueOpen, result.Issue.Status)

	assetStore.AssertExpectations(t)
	issueStore.AssertExpectations(t)
}

func TestCheckinIssueFlagWithoutDescription(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	movementStore := new(MockMovementStore)
	issueStore := new(MockIssueStore)
	service := newTestService(assetStore, userStore, movementStore, issueStore)

	defectiveAsset := availableAsset()
	defectiveAsset.Status = metadata.StatusDefective

	assetStore.On("GetAsset", "asset-1").Return(checkedOutAsset("user-1", "Jean Dupont"), nil).Once()
	userStore.On("GetUser", "user-1").Return(member(), nil).Once()
	assetStore.On("CompareAndSwapStatus", mock.Anything, "asset-1", metadata.StatusCheckedOut, metadata.StatusDefective, (*string)(nil)).Return(true, nil).Once()
	assetStore.On("MarkIssueReported", mock.Anything, "asset-1", mock.Anything).Return(nil).Once()
	movementStore.On("Insert", mock.Anything, mock.Anything).Return(&models.Movement{ID: "mov-4"}, nil).Once()
	assetStore.On("GetAsset", "asset-1").Return(defectiveAsset, nil).Once()

	result, err := service.CheckIn(models.CheckinRequest{
		AssetID:     "asset-1",
		UserID:      "user-1",
		PerformedBy: "Pierre Dubois",
		HasIssues:   true,
	}, metadata.MethodManual)

	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusDefective, result.Asset.Status)
	assert.Nil(t, result.Issue)
	issueStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCheckoutTransactionFailure(t *testing.T) {
	assetStore := new(MockAssetStore)
	userStore := new(MockUserStore)
	movementStore := new(MockMovementStore)
	service := newTestService(assetStore, userStore, movementStore, new(MockIssueStore))

	assetStore.On("GetAsset", "asset-1").Return(availableAsset(), nil).Once()
	userStore.On("GetUser", "user-1").Return(member(), nil).Once()
	assetStore.On("CompareAndSwapStatus", mock.Anything, "asset-1", metadata.StatusAvailable, metadata.StatusCheckedOut, mock.Anything).Return(false, errors.New("connection reset")).Once()

	_, err := service.Checkout(models.CheckoutRequest{
		AssetID:     "asset-1",
		UserID:      "user-1",
		PerformedBy: "Pierre Dubois",
	}, metadata.MethodManual)

	assert.Error(t, err)
	var invalidErr *InvalidTransitionError
	assert.False(t, errors.As(err, &invalidErr))
	movementStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
