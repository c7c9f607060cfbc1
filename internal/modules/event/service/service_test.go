package event

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/event/dto"
	"quezon.gov.ph/portal/pkg/apperror"
	commonDto "quezon.gov.ph/portal/pkg/dto"
)

type memRepo struct {
	rows map[uuid.UUID]entity.Event
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[uuid.UUID]entity.Event{}}
}

func (m *memRepo) Create(ctx context.Context, e *entity.Event) error {
	e.ID = uuid.New()
	m.rows[e.ID] = *e
	return nil
}

func (m *memRepo) Update(ctx context.Context, e *entity.Event) error {
	m.rows[e.ID] = *e
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	e, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (m *memRepo) FindAll(ctx context.Context, status entity.EventStatus) ([]entity.Event, error) {
	var out []entity.Event
	for _, e := range m.rows {
		if status == "" || e.Status == status {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out, nil
}

func (m *memRepo) FindPublic(ctx context.Context, statuses []entity.EventStatus, category string, offset, limit int) ([]entity.Event, int64, error) {
	all, _ := m.FindAll(ctx, "")
	var out []entity.Event
	for _, e := range all {
		for _, s := range statuses {
			if e.Status == s {
				out = append(out, e)
			}
		}
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

type fakeIndexer struct {
	indexed int
	removed int
}

func (f *fakeIndexer) IndexEvent(e *entity.Event) error {
	f.indexed++
	return nil
}

func (f *fakeIndexer) Remove(index, id string) error {
	f.removed++
	return nil
}

func eventRequest(date, status string) dto.EventRequest {
	return dto.EventRequest{
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		EventDate:   date,
		Status:      status,
	}
}

func TestCreateParsesInputDateTime(t *testing.T) {
	idx := &fakeIndexer{}
	svc := NewEventService(newMemRepo(), idx, nil, nil)

	e, err := svc.Create(context.Background(), eventRequest("2026-12-08T08:00", ""))
	require.NoError(t, err)

	assert.Equal(t, entity.EventUpcoming, e.Status)
	assert.Equal(t, "PHP", e.Currency)
	assert.True(t, e.EventDate.Equal(time.Date(2026, 12, 8, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, idx.indexed)
}

func TestCreateRejectsBadDates(t *testing.T) {
	svc := NewEventService(newMemRepo(), nil, nil, nil)

	_, err := svc.Create(context.Background(), eventRequest("soon", ""))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	req := eventRequest("2026-12-08T08:00", "")
	req.EndDate = "2026-12-07T08:00"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestAdminListOrderedByEventDate(t *testing.T) {
	svc := NewEventService(newMemRepo(), nil, nil, nil)
	for _, d := range []string{"2026-12-08T08:00", "2026-01-15T09:00", "2026-06-20T10:30"} {
		_, err := svc.Create(context.Background(), eventRequest(d, ""))
		require.NoError(t, err)
	}

	events, err := svc.List(context.Background(), dto.AdminEventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, time.January, events[0].EventDate.Month())
	assert.Equal(t, time.December, events[2].EventDate.Month())
}

func TestPublicDefaultsToUpcomingAndOngoing(t *testing.T) {
	svc := NewEventService(newMemRepo(), nil, nil, nil)
	for _, st := range []string{"upcoming", "ongoing", "completed", "cancelled"} {
		_, err := svc.Create(context.Background(), eventRequest("2026-03-01T08:00", st))
		require.NoError(t, err)
	}

	page, err := svc.GetPublic(context.Background(), dto.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)

	page, err = svc.GetPublic(context.Background(), dto.EventFilter{Status: "completed", PageQuery: commonDto.PageQuery{Limit: 5}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, entity.EventCompleted, page.Data[0].Status)
}

func TestUpdateAndDelete(t *testing.T) {
	idx := &fakeIndexer{}
	svc := NewEventService(newMemRepo(), idx, nil, nil)

	e, err := svc.Create(context.Background(), eventRequest("2026-03-01T08:00", ""))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), e.ID, eventRequest("2026-03-02T08:00", "cancelled"))
	require.NoError(t, err)
	assert.Equal(t, entity.EventCancelled, updated.Status)

	// any status may follow any other
	updated, err = svc.Update(context.Background(), e.ID, eventRequest("2026-03-02T08:00", "upcoming"))
	require.NoError(t, err)
	assert.Equal(t, entity.EventUpcoming, updated.Status)

	require.NoError(t, svc.Delete(context.Background(), e.ID))
	assert.Equal(t, 1, idx.removed)
	assert.ErrorIs(t, svc.Delete(context.Background(), e.ID), apperror.ErrNotFound)

	_, err = svc.GetByID(context.Background(), e.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
