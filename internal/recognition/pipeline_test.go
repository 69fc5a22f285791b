package recognition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/wardrobe/internal/config"
	"github.com/your-org/wardrobe/internal/models"
)

type fakeBlobStore struct {
	saved    []string
	deleted  []string
	saveErr  error
	nextName int
}

func (f *fakeBlobStore) Save(_ context.Context, r io.Reader, _, _ string, _ int64) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	_, _ = io.Copy(io.Discard, r)
	f.nextName++
	name := fmt.Sprintf("stored-%d.jpg", f.nextName)
	f.saved = append(f.saved, name)
	return name, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, name string) bool {
	f.deleted = append(f.deleted, name)
	return true
}

func (f *fakeBlobStore) LocalPath(_ context.Context, name string) (string, func(), error) {
	return "/blobs/" + name, nil, nil
}

type fakeItemWriter struct {
	items     []*models.Item
	images    []*models.ItemImage
	itemErr   error
	imageErr  error
	imageFail int // fail on the Nth CreateItemImage call, 1-based; 0 = use imageErr always
	calls     int
}

func (f *fakeItemWriter) CreateItem(_ context.Context, item *models.Item) error {
	if f.itemErr != nil {
		return f.itemErr
	}
	item.ID = uuid.New()
	f.items = append(f.items, item)
	return nil
}

func (f *fakeItemWriter) CreateItemImage(_ context.Context, img *models.ItemImage) error {
	f.calls++
	if f.imageErr != nil && (f.imageFail == 0 || f.calls == f.imageFail) {
		return f.imageErr
	}
	img.ID = uuid.New()
	f.images = append(f.images, img)
	return nil
}

type fakeRecognizer struct {
	results map[string]Result
	err     error
}

func (f *fakeRecognizer) Backend() string { return "fake" }

func (f *fakeRecognizer) Recognize(_ context.Context, path string) (Result, error) {
	if f.err != nil {
		return Result{}, f.err
	}
	if res, ok := f.results[path]; ok {
		return res, nil
	}
	return Result{Category: "other", Confidence: 0.5}, nil
}

func uploadsOf(n int) []Upload {
	ups := make([]Upload, 0, n)
	for i := 0; i < n; i++ {
		ups = append(ups, Upload{
			Reader:      strings.NewReader("fake image bytes"),
			Filename:    fmt.Sprintf("photo_%d.jpg", i+1),
			ContentType: "image/jpeg",
			Size:        16,
		})
	}
	return ups
}

func newTestPipeline(blobs *fakeBlobStore, store *fakeItemWriter, rec Recognizer) *Pipeline {
	cfg := config.RecognitionConfig{Enabled: true, MaxImages: 10}
	return NewPipeline(cfg, blobs, store, rec)
}

func TestPipelineDisabled(t *testing.T) {
	p := NewPipeline(config.RecognitionConfig{Enabled: false}, &fakeBlobStore{}, &fakeItemWriter{}, &fakeRecognizer{})
	_, err := p.CreateFromImages(context.Background(), uploadsOf(1))
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestPipelineNoImages(t *testing.T) {
	p := newTestPipeline(&fakeBlobStore{}, &fakeItemWriter{}, &fakeRecognizer{})

	_, err := p.CreateFromImages(context.Background(), nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "at least one image is required", vErr.Msg)
}

func TestPipelineTooManyImages(t *testing.T) {
	blobs := &fakeBlobStore{}
	store := &fakeItemWriter{}
	p := newTestPipeline(blobs, store, &fakeRecognizer{})

	_, err := p.CreateFromImages(context.Background(), uploadsOf(11))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, blobs.saved)
	assert.Empty(t, store.items)
}

func TestPipelineRejectsNonImage(t *testing.T) {
	blobs := &fakeBlobStore{}
	p := newTestPipeline(blobs, &fakeItemWriter{}, &fakeRecognizer{})

	ups := uploadsOf(2)
	ups[1].ContentType = "application/pdf"

	_, err := p.CreateFromImages(context.Background(), ups)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "file 2 is not an image", vErr.Msg)
	// The first file was already stored; upload-phase rejections do not
	// trigger compensation.
	assert.Len(t, blobs.saved, 1)
	assert.Empty(t, blobs.deleted)
}

func TestPipelineSuccess(t *testing.T) {
	blobs := &fakeBlobStore{}
	store := &fakeItemWriter{}
	rec := &fakeRecognizer{results: map[string]Result{
		"/blobs/stored-1.jpg": {Category: "dress", Name: "Платье", Confidence: 0.9},
		"/blobs/stored-2.jpg": {Category: "dress", Name: "Платье", Confidence: 0.7},
	}}
	p := newTestPipeline(blobs, store, rec)

	out, err := p.CreateFromImages(context.Background(), uploadsOf(2))
	require.NoError(t, err)

	assert.Equal(t, 2, out.ImagesCount)
	assert.Equal(t, "dress", out.Recognition.Category)
	assert.InDelta(t, 0.8, out.Recognition.Confidence, 1e-9)

	require.Len(t, store.items, 1)
	item := store.items[0]
	assert.Equal(t, "Платье", item.Name)
	assert.Equal(t, "Автоматически распознано (уверенность: 80%)", item.Notes)

	require.Len(t, store.images, 2)
	assert.True(t, store.images[0].IsPrimary)
	assert.False(t, store.images[1].IsPrimary)
	assert.Equal(t, models.AngleFront, store.images[0].Angle)
	assert.Equal(t, models.AngleBack, store.images[1].Angle)
	assert.Equal(t, item.ID, store.images[0].ItemID)

	assert.Empty(t, blobs.deleted)
}

func TestPipelineDefaultNameWhenUnrecognized(t *testing.T) {
	store := &fakeItemWriter{}
	rec := &fakeRecognizer{results: map[string]Result{
		"/blobs/stored-1.jpg": {Category: "other", Confidence: 0.4},
	}}
	p := newTestPipeline(&fakeBlobStore{}, store, rec)

	_, err := p.CreateFromImages(context.Background(), uploadsOf(1))
	require.NoError(t, err)

	require.Len(t, store.items, 1)
	assert.Equal(t, "Распознанный предмет", store.items[0].Name)
}

func TestPipelineAnglesRunOutAfterFour(t *testing.T) {
	store := &fakeItemWriter{}
	p := newTestPipeline(&fakeBlobStore{}, store, &fakeRecognizer{})

	_, err := p.CreateFromImages(context.Background(), uploadsOf(6))
	require.NoError(t, err)

	require.Len(t, store.images, 6)
	assert.Equal(t, models.AngleDetail, store.images[3].Angle)
	assert.Empty(t, store.images[4].Angle)
	assert.Empty(t, store.images[5].Angle)
}

func TestPipelineCleansUpWhenRecognitionFails(t *testing.T) {
	blobs := &fakeBlobStore{}
	store := &fakeItemWriter{}
	p := newTestPipeline(blobs, store, &fakeRecognizer{err: errors.New("model exploded")})

	_, err := p.CreateFromImages(context.Background(), uploadsOf(3))

	require.ErrorIs(t, err, ErrNoUsableResults)
	assert.Empty(t, store.items)
	assert.ElementsMatch(t, blobs.saved, blobs.deleted)
	assert.Len(t, blobs.deleted, 3)
}

func TestPipelineCleansUpWhenItemCreateFails(t *testing.T) {
	blobs := &fakeBlobStore{}
	store := &fakeItemWriter{itemErr: errors.New("db down")}
	p := newTestPipeline(blobs, store, &fakeRecognizer{})

	_, err := p.CreateFromImages(context.Background(), uploadsOf(2))

	require.Error(t, err)
	assert.ElementsMatch(t, blobs.saved, blobs.deleted)
}

func TestPipelineCleansUpWhenImageLinkFails(t *testing.T) {
	blobs := &fakeBlobStore{}
	store := &fakeItemWriter{imageErr: errors.New("db down"), imageFail: 2}
	p := newTestPipeline(blobs, store, &fakeRecognizer{})

	_, err := p.CreateFromImages(context.Background(), uploadsOf(2))

	require.Error(t, err)
	// All stored files are removed even though the item row already exists.
	assert.ElementsMatch(t, blobs.saved, blobs.deleted)
	assert.Len(t, store.items, 1)
}

func TestRecognizeManySkipsFailures(t *testing.T) {
	calls := 0
	rec := &countingRecognizer{fail: map[int]bool{1: true}, calls: &calls}

	res, err := RecognizeMany(context.Background(), rec, []string{"a.jpg", "b.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "shirt", res.Category)
	assert.Equal(t, 2, calls)
}

func TestRecognizeManyAllFailed(t *testing.T) {
	calls := 0
	rec := &countingRecognizer{fail: map[int]bool{1: true, 2: true}, calls: &calls}

	_, err := RecognizeMany(context.Background(), rec, []string{"a.jpg", "b.jpg"})
	assert.ErrorIs(t, err, ErrNoUsableResults)
}

type countingRecognizer struct {
	fail  map[int]bool
	calls *int
}

func (c *countingRecognizer) Backend() string { return "counting" }

func (c *countingRecognizer) Recognize(_ context.Context, _ string) (Result, error) {
	*c.calls++
	if c.fail[*c.calls] {
		return Result{}, ErrProcessFailed
	}
	return Result{Category: "shirt", Confidence: 0.6}, nil
}
