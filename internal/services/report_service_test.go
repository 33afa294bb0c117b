package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/dto"
	"github.com/mangrovewatch/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReportRequest() *dto.CreateReportRequest {
	return &dto.CreateReportRequest{
		Title:       "Cut trees near the east channel",
		Description: "Several mangroves felled overnight, stumps still fresh.",
		ReportType:  models.ReportTypeIllegalCutting,
		Priority:    models.PriorityMedium,
		Latitude:    21.95,
		Longitude:   89.18,
	}
}

func TestSubmitCreatesPendingReport(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	resp, err := svc.Submit(profile.UserID, validReportRequest())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, profile.ID, resp.ReporterID)
	assert.Equal(t, "reporter@example.com", resp.Reporter.Email)

	// Submission bundles the counter increment and the point award.
	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", profile.ID).Error)
	assert.Equal(t, 1, stored.TotalReports)
	assert.Equal(t, 10, stored.Points)

	var txn models.PointsTransaction
	require.NoError(t, db.First(&txn, "user_id = ?", profile.ID).Error)
	assert.Equal(t, models.ReasonReportSubmitted, txn.Reason)
	require.NotNil(t, txn.ReportID)
	assert.Equal(t, resp.ID, *txn.ReportID)
}

func TestSubmitDefaultsPriorityToMedium(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	req := validReportRequest()
	req.Priority = ""
	resp, err := svc.Submit(profile.UserID, req)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, resp.Priority)
}

func TestSubmitValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	badConfidence := 150.0

	tests := []struct {
		name    string
		mutate  func(*dto.CreateReportRequest)
		wantErr error
	}{
		{"missing title", func(r *dto.CreateReportRequest) { r.Title = "  " }, ErrTitleRequired},
		{"missing description", func(r *dto.CreateReportRequest) { r.Description = "" }, ErrDescriptionRequired},
		{"unknown type", func(r *dto.CreateReportRequest) { r.ReportType = "arson" }, ErrInvalidReportType},
		{"unknown priority", func(r *dto.CreateReportRequest) { r.Priority = "urgent" }, ErrInvalidPriority},
		{"latitude out of range", func(r *dto.CreateReportRequest) { r.Latitude = 91 }, ErrInvalidLatitude},
		{"longitude out of range", func(r *dto.CreateReportRequest) { r.Longitude = -181 }, ErrInvalidLongitude},
		{"confidence out of range", func(r *dto.CreateReportRequest) { r.AIConfidenceScore = &badConfidence }, ErrInvalidConfidence},
		{"banned word", func(r *dto.CreateReportRequest) { r.Title = "this is bullshit" }, ErrContentRejected},
		{"url in description", func(r *dto.CreateReportRequest) { r.Description = "see https://spam.example" }, ErrContentRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validReportRequest()
			tt.mutate(req)
			_, err := svc.Submit(profile.UserID, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Rejected submissions leave no rows behind.
	var reports int64
	require.NoError(t, db.Model(&models.Report{}).Count(&reports).Error)
	assert.EqualValues(t, 0, reports)

	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", profile.ID).Error)
	assert.Equal(t, 0, stored.TotalReports)
	assert.Equal(t, 0, stored.Points)
}

func TestSubmitUnknownArea(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	missing := uuid.New()
	req := validReportRequest()
	req.AreaID = &missing

	_, err := svc.Submit(profile.UserID, req)
	assert.ErrorIs(t, err, ErrAreaNotFound)
}

func TestSubmitWithArea(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)
	area := seedArea(t, db, "East Channel")

	req := validReportRequest()
	req.AreaID = &area.ID

	resp, err := svc.Submit(profile.UserID, req)
	require.NoError(t, err)
	require.NotNil(t, resp.AreaID)
	assert.Equal(t, area.ID, *resp.AreaID)
}

func TestSubmitCriticalEmitsBroadcastAlert(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	req := validReportRequest()
	req.Priority = models.PriorityCritical
	resp, err := svc.Submit(profile.UserID, req)
	require.NoError(t, err)

	var alert models.Alert
	require.NoError(t, db.First(&alert, "alert_type = ?", models.AlertTypeNewReport).Error)
	assert.Nil(t, alert.UserID)
	assert.Equal(t, models.PriorityCritical, alert.Severity)
	require.NotNil(t, alert.ReportID)
	assert.Equal(t, resp.ID, *alert.ReportID)
}

func TestSubmitMediumEmitsNoAlert(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	_, err := svc.Submit(profile.UserID, validReportRequest())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Alert{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateStatusForbiddenForCommunityMember(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	resp, err := svc.Submit(profile.UserID, validReportRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(resp.ID, models.StatusVerified, models.RoleCommunityMember, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	var stored models.Report
	require.NoError(t, db.First(&stored, "id = ?", resp.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestUpdateStatusVerifyAwardsPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	resp, err := svc.Submit(profile.UserID, validReportRequest())
	require.NoError(t, err)

	notes := "confirmed on site"
	updated, err := svc.UpdateStatus(resp.ID, models.StatusVerified, models.RoleModerator, &notes)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, updated.Status)
	require.NotNil(t, updated.ValidationNotes)
	assert.Equal(t, notes, *updated.ValidationNotes)

	// +10 submission, +25 verification.
	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", profile.ID).Error)
	assert.Equal(t, 35, stored.Points)

	var txn models.PointsTransaction
	require.NoError(t, db.First(&txn, "reason = ?", models.ReasonReportVerified).Error)
	assert.Equal(t, 25, txn.Points)
	assert.Equal(t, profile.ID, txn.UserID)
}

func TestUpdateStatusRejectAwardsNothingByDefault(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	resp, err := svc.Submit(profile.UserID, validReportRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(resp.ID, models.StatusRejected, models.RoleAdmin, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)

	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", profile.ID).Error)
	assert.Equal(t, 10, stored.Points)
}

func TestUpdateStatusResolveSetsResolvedAt(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	resp, err := svc.Submit(profile.UserID, validReportRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(resp.ID, models.StatusVerified, models.RoleModerator, nil)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(resp.ID, models.StatusResolved, models.RoleModerator, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)
	assert.NotNil(t, updated.ResolvedAt)
}

func TestUpdateStatusIllegalTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	resp, err := svc.Submit(profile.UserID, validReportRequest())
	require.NoError(t, err)

	// pending cannot skip straight to resolved.
	_, err = svc.UpdateStatus(resp.ID, models.StatusResolved, models.RoleModerator, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(resp.ID, models.StatusRejected, models.RoleModerator, nil)
	require.NoError(t, err)

	// rejected is terminal.
	_, err = svc.UpdateStatus(resp.ID, models.StatusVerified, models.RoleModerator, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	resp, err := svc.Submit(profile.UserID, validReportRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(resp.ID, "archived", models.RoleModerator, nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusUnknownReport(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())

	_, err := svc.UpdateStatus(uuid.New(), models.StatusVerified, models.RoleModerator, nil)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestListFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	for i := 0; i < 3; i++ {
		req := validReportRequest()
		if i == 2 {
			req.ReportType = models.ReportTypePollution
		}
		_, err := svc.Submit(profile.UserID, req)
		require.NoError(t, err)
	}

	all, err := svc.List(dto.ReportFilter{}, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
	assert.Len(t, all.Reports, 2)
	assert.Equal(t, 2, all.TotalPages)

	pollution, err := svc.List(dto.ReportFilter{ReportType: models.ReportTypePollution}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pollution.Total)

	none, err := svc.List(dto.ReportFilter{Status: models.StatusVerified}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, none.Total)
}

func TestStatsCountsAndPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())
	profile := seedProfile(t, db, "reporter@example.com", models.RoleCommunityMember)

	first, err := svc.Submit(profile.UserID, validReportRequest())
	require.NoError(t, err)
	_, err = svc.Submit(profile.UserID, validReportRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(first.ID, models.StatusVerified, models.RoleModerator, nil)
	require.NoError(t, err)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.ByStatus[models.StatusPending])
	assert.EqualValues(t, 1, stats.ByStatus[models.StatusVerified])
	assert.EqualValues(t, 2, stats.ByType[models.ReportTypeIllegalCutting])
	// 2 submissions at +10 plus one verification at +25.
	assert.EqualValues(t, 45, stats.PointsAwarded)
}

func TestGetUnknownReport(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReportService(db, testConfig())

	_, err := svc.Get(uuid.New())
	assert.ErrorIs(t, err, ErrReportNotFound)
}
