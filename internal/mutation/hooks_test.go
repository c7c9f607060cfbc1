package mutation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAttacher struct {
	urls  []string
	calls int
}

func (f *fakeAttacher) MarkAttached(ctx context.Context, fileURLs ...string) error {
	f.calls++
	f.urls = append(f.urls, fileURLs...)
	return nil
}

func TestAfterMarksNonEmptyURLs(t *testing.T) {
	a := &fakeAttacher{}
	h := New(nil, a)

	h.After(context.Background(), "news", OpCreate, "https://res.cloudinary.com/x/image/upload/v1/a.webp", "")
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, []string{"https://res.cloudinary.com/x/image/upload/v1/a.webp"}, a.urls)
}

func TestAfterSkipsAttachOnDeleteAndEmpty(t *testing.T) {
	a := &fakeAttacher{}
	h := New(nil, a)

	h.After(context.Background(), "documents", OpDelete, "https://res.cloudinary.com/x/raw/upload/v1/f.pdf")
	h.After(context.Background(), "documents", OpUpdate, "", "")
	assert.Zero(t, a.calls)
}

func TestNilHooksAreSafe(t *testing.T) {
	var h *Hooks
	assert.NotPanics(t, func() { h.After(context.Background(), "events", OpCreate, "u") })
	assert.NotPanics(t, func() { New(nil, nil).After(context.Background(), "events", OpCreate, "u") })
}

func TestDeref(t *testing.T) {
	s := "x"
	assert.Equal(t, "x", Deref(&s))
	assert.Equal(t, "", Deref(nil))
}
