package sellers

import (
	"context"
	"testing"
	"time"

	"github.com/mallexplorer/sme-backend/pkg/db/models"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSellersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	requests := `
CREATE TABLE IF NOT EXISTS seller_access_requests (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  store_id TEXT NOT NULL,
  store_name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  decided_at DATETIME,
  decided_by TEXT
);`
	pendingIndex := `
CREATE UNIQUE INDEX IF NOT EXISTS idx_seller_access_requests_pending
  ON seller_access_requests (user_id, store_id) WHERE status = 'pending';`
	approvals := `
CREATE TABLE IF NOT EXISTS seller_approvals (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  store_id TEXT NOT NULL,
  granted_by TEXT NOT NULL,
  created_at DATETIME,
  CONSTRAINT idx_seller_approvals_user_store UNIQUE (user_id, store_id)
);`

	for _, stmt := range []string{requests, pendingIndex, approvals} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM seller_access_requests")
		db.Exec("DELETE FROM seller_approvals")
	})
	return db
}

func TestRepositoryRequestLifecycle(t *testing.T) {
	db := setupSellersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	storeID := uuid.New()
	adminID := uuid.New()

	request, err := repo.CreateRequest(ctx, userID, storeID, "Trail & Peak")
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusPending, request.Status)

	pending, err := repo.FindPendingRequest(ctx, userID, storeID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, pending.ID)

	applied, err := repo.DecideRequest(ctx, request.ID, enums.RequestStatusApproved, adminID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, applied)

	// A second decision loses the status guard.
	applied, err = repo.DecideRequest(ctx, request.ID, enums.RequestStatusRejected, adminID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, applied)

	decided, err := repo.FindRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, adminID, *decided.DecidedBy)

	_, err = repo.FindPendingRequest(ctx, userID, storeID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDecideRejectsNonTerminalStatus(t *testing.T) {
	db := setupSellersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.DecideRequest(context.Background(), uuid.New(), enums.RequestStatusPending, uuid.New(), time.Now().UTC())
	require.Error(t, err)
}

func TestRepositoryPendingIndexBlocksDuplicates(t *testing.T) {
	db := setupSellersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	storeID := uuid.New()

	_, err := repo.CreateRequest(ctx, userID, storeID, "Trail & Peak")
	require.NoError(t, err)

	_, err = repo.CreateRequest(ctx, userID, storeID, "Trail & Peak")
	require.Error(t, err)

	// A decided request frees the pair for a new attempt.
	pending, err := repo.FindPendingRequest(ctx, userID, storeID)
	require.NoError(t, err)
	applied, err := repo.DecideRequest(ctx, pending.ID, enums.RequestStatusRejected, uuid.New(), time.Now().UTC())
	require.NoError(t, err)
	require.True(t, applied)

	_, err = repo.CreateRequest(ctx, userID, storeID, "Trail & Peak")
	require.NoError(t, err)
}

func TestRepositoryApprovalIndex(t *testing.T) {
	db := setupSellersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	storeID := uuid.New()
	adminID := uuid.New()

	has, err := repo.HasApprovals(ctx, userID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.GrantApproval(ctx, userID, storeID, adminID))
	// Granting the same pair again is a no-op.
	require.NoError(t, repo.GrantApproval(ctx, userID, storeID, adminID))

	has, err = repo.HasApprovals(ctx, userID)
	require.NoError(t, err)
	assert.True(t, has)

	approved, err := repo.IsApproved(ctx, userID, storeID)
	require.NoError(t, err)
	assert.True(t, approved)

	approved, err = repo.IsApproved(ctx, userID, uuid.New())
	require.NoError(t, err)
	assert.False(t, approved)

	ids, err := repo.ListApprovedStoreIDs(ctx, userID)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, storeID, ids[0])
}

// racingRequestRepo hides the pending row from the pre-check so the
// insert has to rely on the partial unique index.
type racingRequestRepo struct {
	*Repository
}

func (r racingRequestRepo) FindPendingRequest(ctx context.Context, userID, storeID uuid.UUID) (*models.SellerAccessRequest, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestServiceRequestAccessDuplicateRaceMapsToConflict(t *testing.T) {
	db := setupSellersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	storeID := uuid.New()

	_, err := repo.CreateRequest(ctx, userID, storeID, "Trail & Peak")
	require.NoError(t, err)

	svc := mustService(t, racingRequestRepo{repo}, stubStoreReader{stores: map[uuid.UUID]*models.Store{
		storeID: {ID: storeID, Name: "Trail & Peak"},
	}})

	_, err = svc.RequestAccess(ctx, userID, RequestAccessRequest{StoreID: storeID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a typed error, got %v", err)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}
