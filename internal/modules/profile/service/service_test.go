package profile

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
	profileDto "quezon.gov.ph/portal/internal/modules/profile/dto"
	"quezon.gov.ph/portal/pkg/apperror"
)

type memRepo struct {
	rows []entity.Profile
}

func (m *memRepo) find(match func(entity.Profile) bool) (*entity.Profile, error) {
	for _, p := range m.rows {
		if match(p) {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	return m.find(func(p entity.Profile) bool { return p.ID == id })
}

func (m *memRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	return m.find(func(p entity.Profile) bool { return p.UserID == userID })
}

func (m *memRepo) FindAll(ctx context.Context, role string) ([]entity.Profile, error) {
	var out []entity.Profile
	for _, p := range m.rows {
		if role == "" || p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, profile *entity.Profile) error {
	for i := range m.rows {
		if m.rows[i].ID == profile.ID {
			m.rows[i] = *profile
		}
	}
	return nil
}

func (m *memRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

func seed() (*memRepo, entity.Profile) {
	p := entity.Profile{ID: uuid.New(), UserID: uuid.New(), Email: gofakeit.Email(), Role: "user"}
	return &memRepo{rows: []entity.Profile{p, {ID: uuid.New(), UserID: uuid.New(), Email: gofakeit.Email(), Role: "admin"}}}, p
}

func TestUpdateOwnProfile(t *testing.T) {
	repo, p := seed()
	svc := NewProfileService(repo, nil)

	name := "  Maria Clara  "
	blank := " "
	updated, err := svc.UpdateProfile(context.Background(), p.UserID, profileDto.UpdateProfileRequest{FullName: &name, AvatarURL: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Maria Clara", *updated.FullName)
	assert.Nil(t, updated.AvatarURL)

	me, err := svc.GetCurrentProfile(context.Background(), p.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Clara", *me.FullName)

	_, err = svc.GetCurrentProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAdminListAndUpdate(t *testing.T) {
	repo, p := seed()
	svc := NewProfileService(repo, nil)

	admins, err := svc.List(context.Background(), profileDto.ProfileFilter{Role: "admin"})
	require.NoError(t, err)
	assert.Len(t, admins, 1)

	email := "  Clerk@Quezon.gov.ph "
	updated, err := svc.AdminUpdate(context.Background(), p.ID, profileDto.AdminUpdateProfileRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "clerk@quezon.gov.ph", updated.Email)

	_, err = svc.AdminUpdate(context.Background(), uuid.New(), profileDto.AdminUpdateProfileRequest{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
