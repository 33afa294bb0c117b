package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreaCreateRequiresModerator(t *testing.T) {
	db := newTestDB(t)
	svc := NewAreaService(db)
	member := seedProfile(t, db, "member@example.com", models.RoleCommunityMember)

	_, err := svc.Create(member.ID, models.RoleCommunityMember, "West Delta", nil, 21.9, 89.2, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	var count int64
	require.NoError(t, db.Model(&models.Area{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAreaCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAreaService(db)
	mod := seedProfile(t, db, "mod@example.com", models.RoleModerator)

	radius := 2.5
	area, err := svc.Create(mod.ID, models.RoleModerator, "  West Delta  ", nil, 21.9, 89.2, &radius)
	require.NoError(t, err)
	assert.Equal(t, "West Delta", area.Name)
	require.NotNil(t, area.CreatedBy)
	assert.Equal(t, mod.ID, *area.CreatedBy)
}

func TestAreaCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAreaService(db)
	mod := seedProfile(t, db, "mod@example.com", models.RoleModerator)

	negative := -1.0

	tests := []struct {
		name    string
		area    string
		lat     float64
		lng     float64
		radius  *float64
		wantErr error
	}{
		{"blank name", "   ", 21.9, 89.2, nil, ErrAreaNameRequired},
		{"bad latitude", "Delta", 95, 89.2, nil, ErrInvalidLatitude},
		{"bad longitude", "Delta", 21.9, 185, nil, ErrInvalidLongitude},
		{"negative radius", "Delta", 21.9, 89.2, &negative, ErrInvalidRadius},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(mod.ID, models.RoleModerator, tt.area, nil, tt.lat, tt.lng, tt.radius)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAreaListSortedByName(t *testing.T) {
	db := newTestDB(t)
	svc := NewAreaService(db)

	seedArea(t, db, "Zeta Creek")
	seedArea(t, db, "Alpha Bay")

	areas, err := svc.List()
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "Alpha Bay", areas[0].Name)
	assert.Equal(t, "Zeta Creek", areas[1].Name)
}

func TestAreaGetUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewAreaService(db)

	_, err := svc.Get(uuid.New())
	assert.ErrorIs(t, err, ErrAreaNotFound)
}
