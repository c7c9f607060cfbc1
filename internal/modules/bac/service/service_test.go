package bac

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/bac/dto"
	"quezon.gov.ph/portal/internal/modules/bac/repository"
	"quezon.gov.ph/portal/pkg/apperror"
)

type memRepo struct {
	rows []entity.BacDocument
	last repository.Filter
}

func (m *memRepo) Create(ctx context.Context, b *entity.BacDocument) error {
	b.ID = uuid.New()
	m.rows = append(m.rows, *b)
	return nil
}

func (m *memRepo) Update(ctx context.Context, b *entity.BacDocument) error {
	for i := range m.rows {
		if m.rows[i].ID == b.ID {
			m.rows[i] = *b
		}
	}
	return nil
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

func (m *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.BacDocument, error) {
	for _, b := range m.rows {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) FindAll(ctx context.Context, f repository.Filter) ([]entity.BacDocument, error) {
	m.last = f
	var out []entity.BacDocument
	for _, b := range m.rows {
		if (f.DocumentType == "" || b.DocumentType == f.DocumentType) && (f.Status == "" || b.Status == f.Status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memRepo) FindPublic(ctx context.Context, f repository.Filter, offset, limit int) ([]entity.BacDocument, int64, error) {
	out, _ := m.FindAll(ctx, f)
	return out, int64(len(out)), nil
}

func (m *memRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

func bacRequest(docType string) dto.BacDocumentRequest {
	ref := "BAC-" + gofakeit.DigitN(6)
	return dto.BacDocumentRequest{
		Title:           gofakeit.Sentence(4),
		DocumentType:    docType,
		ReferenceNumber: &ref,
		ContractDate:    "2026-05-04",
	}
}

func TestCreateSetsDefaultsAndOwner(t *testing.T) {
	repo := &memRepo{}
	svc := NewBacService(repo, nil, nil)
	owner := uuid.New()

	b, err := svc.Create(context.Background(), owner, bacRequest("notice_of_award"))
	require.NoError(t, err)
	assert.Equal(t, entity.BacActive, b.Status)
	assert.Equal(t, owner, *b.CreatedBy)
	require.NotNil(t, b.ContractDate)
	assert.Equal(t, time.May, b.ContractDate.Month())

	bad := bacRequest("notice_of_award")
	bad.ContractDate = "May fourth"
	_, err = svc.Create(context.Background(), owner, bad)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestPublicFiltersByTypeAndStatus(t *testing.T) {
	repo := &memRepo{}
	svc := NewBacService(repo, nil, nil)
	for _, typ := range []string{"invitation_to_bid", "invitation_to_bid", "contract_agreement"} {
		_, err := svc.Create(context.Background(), uuid.Nil, bacRequest(typ))
		require.NoError(t, err)
	}

	page, err := svc.GetPublic(context.Background(), dto.BacFilter{DocumentType: "invitation_to_bid", Status: "active"})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, entity.BacInvitationToBid, repo.last.DocumentType)
	assert.Equal(t, entity.BacActive, repo.last.Status)
}

func TestUpdateAndDelete(t *testing.T) {
	repo := &memRepo{}
	svc := NewBacService(repo, nil, nil)

	b, err := svc.Create(context.Background(), uuid.Nil, bacRequest("invitation_to_bid"))
	require.NoError(t, err)

	req := bacRequest("contract_agreement")
	req.Status = "completed"
	updated, err := svc.Update(context.Background(), b.ID, req)
	require.NoError(t, err)
	assert.Equal(t, entity.BacCompleted, updated.Status)
	assert.Equal(t, entity.BacContractAgreement, updated.DocumentType)

	require.NoError(t, svc.Delete(context.Background(), b.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), b.ID), apperror.ErrNotFound)
	_, err = svc.Update(context.Background(), b.ID, req)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
