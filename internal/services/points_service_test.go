package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsAppendAndBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewPointsService(db)
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	_, err := svc.Append(profile.ID, 10, models.ReasonReportSubmitted, nil)
	require.NoError(t, err)
	_, err = svc.Append(profile.ID, 25, models.ReasonReportVerified, nil)
	require.NoError(t, err)

	balance, err := svc.Balance(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, balance)

	// Cached aggregate moves with the ledger.
	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", profile.ID).Error)
	assert.Equal(t, 35, stored.Points)
}

func TestPointsBalanceEmptyLedger(t *testing.T) {
	db := newTestDB(t)
	svc := NewPointsService(db)
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	balance, err := svc.Balance(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestPointsBalanceUnknownProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewPointsService(db)

	_, err := svc.Balance(uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestPointsAppendUnknownProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewPointsService(db)

	_, err := svc.Append(uuid.New(), 10, models.ReasonReportSubmitted, nil)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestPointsNegativeDeltaRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewPointsService(db)
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	_, err := svc.Append(profile.ID, 10, models.ReasonReportSubmitted, nil)
	require.NoError(t, err)

	_, err = svc.Append(profile.ID, -15, "penalty", nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Failed append leaves neither a ledger row nor a cache change.
	balance, err := svc.Balance(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, balance)

	var count int64
	require.NoError(t, db.Model(&models.PointsTransaction{}).Where("user_id = ?", profile.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", profile.ID).Error)
	assert.Equal(t, 10, stored.Points)
}

func TestPointsNegativeDeltaToZeroAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewPointsService(db)
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	_, err := svc.Append(profile.ID, 10, models.ReasonReportSubmitted, nil)
	require.NoError(t, err)
	_, err = svc.Append(profile.ID, -10, "penalty", nil)
	require.NoError(t, err)

	balance, err := svc.Balance(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestPointsHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewPointsService(db)
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	_, err := svc.Append(profile.ID, 10, models.ReasonReportSubmitted, nil)
	require.NoError(t, err)
	_, err = svc.Append(profile.ID, 25, models.ReasonReportVerified, nil)
	require.NoError(t, err)

	history, err := svc.History(profile.ID, 50)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, !history[0].CreatedAt.Before(history[1].CreatedAt))
}

func TestPointsReconcileFixesDrift(t *testing.T) {
	db := newTestDB(t)
	svc := NewPointsService(db)
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	_, err := svc.Append(profile.ID, 10, models.ReasonReportSubmitted, nil)
	require.NoError(t, err)

	// Simulate cache drift.
	require.NoError(t, db.Model(&models.Profile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{"points": 999, "total_reports": 7}).Error)

	require.NoError(t, svc.Reconcile())

	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", profile.ID).Error)
	assert.Equal(t, 10, stored.Points)
	assert.Equal(t, 0, stored.TotalReports)
}
