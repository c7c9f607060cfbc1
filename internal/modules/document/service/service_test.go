package document

import (
	"context"
	"sort"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/document/dto"
	"quezon.gov.ph/portal/internal/mutation"
	"quezon.gov.ph/portal/pkg/apperror"
)

type memRepo struct {
	rows map[uuid.UUID]entity.Document
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[uuid.UUID]entity.Document{}}
}

func (m *memRepo) Create(ctx context.Context, d *entity.Document) error {
	d.ID = uuid.New()
	m.rows[d.ID] = *d
	return nil
}

func (m *memRepo) Update(ctx context.Context, d *entity.Document) error {
	d.DownloadCount = m.rows[d.ID].DownloadCount
	m.rows[d.ID] = *d
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	d, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (m *memRepo) FindAll(ctx context.Context, status entity.ContentStatus, category string) ([]entity.Document, error) {
	var out []entity.Document
	for _, d := range m.rows {
		if (status == "" || d.Status == status) && (category == "" || d.Category == category) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *memRepo) FindPublished(ctx context.Context, category string, offset, limit int) ([]entity.Document, int64, error) {
	out, _ := m.FindAll(ctx, entity.ContentPublished, category)
	return out, int64(len(out)), nil
}

func (m *memRepo) AddDownloads(ctx context.Context, id uuid.UUID, n int) error {
	d := m.rows[id]
	d.DownloadCount += n
	m.rows[id] = d
	return nil
}

func (m *memRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

type fakeAttacher struct{ urls []string }

func (f *fakeAttacher) MarkAttached(ctx context.Context, urls ...string) error {
	f.urls = append(f.urls, urls...)
	return nil
}

func docRequest(title, category, status string) dto.DocumentRequest {
	return dto.DocumentRequest{
		Title:    title,
		Category: category,
		FileURL:  "https://res.cloudinary.com/demo/raw/upload/v1/portal/documents/" + gofakeit.UUID() + ".pdf",
		Status:   status,
	}
}

func TestListOrderedByTitle(t *testing.T) {
	att := &fakeAttacher{}
	svc := NewDocumentService(newMemRepo(), nil, mutation.New(nil, att), nil, nil)

	for _, title := range []string{"Zoning Ordinance", "Annual Budget", "Citizen's Charter"} {
		_, err := svc.Create(context.Background(), docRequest(title, "ordinances", "published"))
		require.NoError(t, err)
	}
	assert.Len(t, att.urls, 3)

	docs, err := svc.List(context.Background(), dto.AdminDocumentFilter{})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "Annual Budget", docs[0].Title)
	assert.Equal(t, "Zoning Ordinance", docs[2].Title)
}

func TestPublicFiltersByCategory(t *testing.T) {
	svc := NewDocumentService(newMemRepo(), nil, nil, nil, nil)
	_, _ = svc.Create(context.Background(), docRequest("Budget", "finance", "published"))
	_, _ = svc.Create(context.Background(), docRequest("Draft budget", "finance", "draft"))
	_, _ = svc.Create(context.Background(), docRequest("Permit form", "forms", "published"))

	page, err := svc.GetPublished(context.Background(), dto.DocumentFilter{Category: "finance"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Budget", page.Data[0].Title)
	assert.Equal(t, 1, page.Meta.CurrentPage)
}

type countingRecorder struct {
	repo *memRepo
}

func (r countingRecorder) Record(ctx context.Context, id uuid.UUID, ip string) error {
	return r.repo.AddDownloads(ctx, id, 1)
}

func TestDownloadCountsPublishedOnly(t *testing.T) {
	repo := newMemRepo()
	svc := NewDocumentService(repo, nil, nil, nil, countingRecorder{repo: repo})

	pub, err := svc.Create(context.Background(), docRequest("Budget", "finance", "published"))
	require.NoError(t, err)
	draft, err := svc.Create(context.Background(), docRequest("Draft", "finance", "draft"))
	require.NoError(t, err)

	url, err := svc.Download(context.Background(), pub.ID, "198.51.100.4")
	require.NoError(t, err)
	assert.Equal(t, pub.FileURL, url)
	assert.Equal(t, 1, repo.rows[pub.ID].DownloadCount)

	_, err = svc.Download(context.Background(), draft.ID, "198.51.100.4")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Zero(t, repo.rows[draft.ID].DownloadCount)

	// editing does not reset the counter
	_, err = svc.Update(context.Background(), pub.ID, docRequest("Budget 2026", "finance", ""))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.rows[pub.ID].DownloadCount)
	assert.Equal(t, entity.ContentPublished, repo.rows[pub.ID].Status)
}
