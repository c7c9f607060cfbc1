package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/contact/dto"
	"quezon.gov.ph/portal/pkg/apperror"
)

type memRepo struct {
	rows    []entity.ContactMessage
	failing bool
}

func (m *memRepo) Create(ctx context.Context, msg *entity.ContactMessage) error {
	if m.failing {
		return errors.New("connection reset")
	}
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	m.rows = append(m.rows, *msg)
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) FindAll(ctx context.Context, status entity.MessageStatus) ([]entity.ContactMessage, error) {
	var out []entity.ContactMessage
	for _, r := range m.rows {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MessageStatus) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

func contactRequest() dto.ContactRequest {
	return dto.ContactRequest{
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Subject: "  Business permit renewal  ",
		Message: gofakeit.Paragraph(1, 3, 12, " "),
	}
}

func TestSubmitStartsAsNew(t *testing.T) {
	repo := &memRepo{}
	svc := NewContactService(repo, nil, nil, time.Minute)

	msg, err := svc.Submit(context.Background(), "203.0.113.10", contactRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.MessageNew, msg.Status)
	assert.Equal(t, "Business permit renewal", msg.Subject)

	// without redis there is no limit
	_, err = svc.Submit(context.Background(), "203.0.113.10", contactRequest())
	require.NoError(t, err)
	assert.Len(t, repo.rows, 2)
}

func TestSubmitStoreFailure(t *testing.T) {
	svc := NewContactService(&memRepo{failing: true}, nil, nil, time.Minute)
	_, err := svc.Submit(context.Background(), "203.0.113.10", contactRequest())
	assert.Error(t, err)
}

func TestUpdateStatus(t *testing.T) {
	repo := &memRepo{}
	svc := NewContactService(repo, nil, nil, time.Minute)
	msg, err := svc.Submit(context.Background(), "203.0.113.10", contactRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), msg.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, entity.MessageResolved, updated.Status)

	list, err := svc.List(context.Background(), dto.ContactFilter{Status: "resolved"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.UpdateStatus(context.Background(), msg.ID, "spam")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), "closed")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), msg.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), msg.ID), apperror.ErrNotFound)
}
