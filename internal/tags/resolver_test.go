package tags

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"divemanager/pkg/metadata"
	"divemanager/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockAssetFinder struct {
	mock.Mock
}

func (m *MockAssetFinder) FindByTagCode(code string) (*models.Asset, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByTagCode(code string) (*models.User, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestResolveAssetTag(t *testing.T) {
	assetFinder := new(MockAssetFinder)
	userFinder := new(MockUserFinder)
	resolver := NewResolver(assetFinder, userFinder)

	assetFinder.On("FindByTagCode", "DET-001-QR").Return(&models.Asset{
		ID:     "asset-1",
		Name:   "Scubapro MK25 EVO Regulator",
		Status: metadata.StatusAvailable,
	}, nil).Once()

	resolution, err := resolver.Resolve("DET-001-QR")

	assert.NoError(t, err)
	assert.Equal(t, KindAsset, resolution.Kind)
	assert.Equal(t, "asset-1", resolution.Asset.ID)
	assert.Nil(t, resolution.User)
	userFinder.AssertNotCalled(t, "FindByTagCode", mock.Anything)
}

func TestResolveUserTag(t *testing.T) {
	assetFinder := new(MockAssetFinder)
	userFinder := new(MockUserFinder)
	resolver := NewResolver(assetFinder, userFinder)

	assetFinder.On("FindByTagCode", "MEM-001-QR").Return(nil, nil).Once()
	userFinder.On("FindByTagCode", "MEM-001-QR").Return(&models.User{
		ID:   "user-1",
		Name: "Jean Dupont",
	}, nil).Once()

	resolution, err := resolver.Resolve("MEM-001-QR")

	assert.NoError(t, err)
	assert.Equal(t, KindUser, resolution.Kind)
	assert.Equal(t, "user-1", resolution.User.ID)
	assert.Nil(t, resolution.Asset)
}

func TestResolveUnknownTag(t *testing.T) {
	assetFinder := new(MockAssetFinder)
	userFinder := new(MockUserFinder)
	resolver := NewResolver(assetFinder, userFinder)

	assetFinder.On("FindByTagCode", "UNKNOWN").Return(nil, nil).Once()
	userFinder.On("FindByTagCode", "UNKNOWN").Return(nil, nil).Once()

	resolution, err := resolver.Resolve("UNKNOWN")

	assert.NoError(t, err)
	assert.Nil(t, resolution)
}

func TestResolveStoreFailure(t *testing.T) {
	assetFinder := new(MockAssetFinder)
	userFinder := new(MockUserFinder)
	resolver := NewResolver(assetFinder, userFinder)

	assetFinder.On("FindByTagCode", "DET-001-QR").Return(nil, errors.New("connection refused")).Once()

	resolution, err := resolver.Resolve("DET-001-QR")

	assert.Error(t, err)
	assert.Nil(t, resolution)
}

func TestScanEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	assetFinder := new(MockAssetFinder)
	userFinder := new(MockUserFinder)
	handler := NewHandler(NewResolver(assetFinder, userFinder), zap.NewNop())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))

	assetFinder.On("FindByTagCode", "DET-003-QR").Return(&models.Asset{
		ID:     "asset-3",
		Name:   "Cressi Big Eyes Mask",
		Status: metadata.StatusAvailable,
	}, nil).Once()
	assetFinder.On("FindByTagCode", "NOPE").Return(nil, nil).Once()
	userFinder.On("FindByTagCode", "NOPE").Return(nil, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/scan/DET-003-QR", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"asset"`)
	assert.Contains(t, w.Body.String(), "Cressi Big Eyes Mask")

	req, _ = http.NewRequest(http.MethodGet, "/api/scan/NOPE", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Tag code not recognized")
}
