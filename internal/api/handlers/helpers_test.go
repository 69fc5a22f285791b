package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/your-org/wardrobe/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore backs both ItemStore and ImageStore in handler tests.
type fakeStore struct {
	items  map[uuid.UUID]*models.Item
	images map[uuid.UUID]*models.ItemImage

	itemErr    error
	primaryOK  bool
	primarySet [2]uuid.UUID
	imageErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:     map[uuid.UUID]*models.Item{},
		images:    map[uuid.UUID]*models.ItemImage{},
		primaryOK: true,
	}
}

func (f *fakeStore) addItem(name string) *models.Item {
	item := &models.Item{
		ID:        uuid.New(),
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.items[item.ID] = item
	return item
}

func (f *fakeStore) CreateItem(_ context.Context, item *models.Item) error {
	if f.itemErr != nil {
		return f.itemErr
	}
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	f.items[item.ID] = item
	return nil
}

func (f *fakeStore) GetItem(_ context.Context, id uuid.UUID) (*models.Item, error) {
	return f.items[id], f.itemErr
}

func (f *fakeStore) ListItems(_ context.Context, offset, limit int) ([]models.Item, int, error) {
	all := make([]models.Item, 0, len(f.items))
	for _, it := range f.items {
		all = append(all, *it)
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeStore) UpdateItem(_ context.Context, item *models.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeStore) SoftDeleteItem(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeStore) CreateItemImage(_ context.Context, img *models.ItemImage) error {
	if f.imageErr != nil {
		return f.imageErr
	}
	img.ID = uuid.New()
	img.CreatedAt = time.Now()
	img.UpdatedAt = time.Now()
	if img.IsPrimary {
		for _, other := range f.images {
			if other.ItemID == img.ItemID {
				other.IsPrimary = false
			}
		}
	}
	f.images[img.ID] = img
	return nil
}

func (f *fakeStore) GetItemImage(_ context.Context, id uuid.UUID) (*models.ItemImage, error) {
	return f.images[id], nil
}

func (f *fakeStore) ListItemImages(_ context.Context, itemID uuid.UUID) ([]models.ItemImage, error) {
	var out []models.ItemImage
	for _, img := range f.images {
		if img.ItemID == itemID {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (f *fakeStore) CountItemImages(_ context.Context, itemID uuid.UUID) (int, error) {
	n := 0
	for _, img := range f.images {
		if img.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) UpdateItemImage(_ context.Context, img *models.ItemImage) error {
	if img.IsPrimary {
		for _, other := range f.images {
			if other.ItemID == img.ItemID && other.ID != img.ID {
				other.IsPrimary = false
			}
		}
	}
	f.images[img.ID] = img
	return nil
}

func (f *fakeStore) SetPrimaryImage(_ context.Context, itemID, imageID uuid.UUID) (bool, error) {
	f.primarySet = [2]uuid.UUID{itemID, imageID}
	if !f.primaryOK {
		return false, nil
	}
	for _, img := range f.images {
		if img.ItemID == itemID {
			img.IsPrimary = img.ID == imageID
		}
	}
	return true, nil
}

func (f *fakeStore) SoftDeleteItemImage(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.images[id]; !ok {
		return false, nil
	}
	delete(f.images, id)
	return true, nil
}

// fakeBlobs is an in-memory storage.BlobStore.
type fakeBlobs struct {
	saveErr error
	saved   []string
	deleted []string
	n       int
}

func (f *fakeBlobs) Save(_ context.Context, r io.Reader, _, _ string, _ int64) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	_, _ = io.Copy(io.Discard, r)
	f.n++
	name := fmt.Sprintf("blob-%d.jpg", f.n)
	f.saved = append(f.saved, name)
	return name, nil
}

func (f *fakeBlobs) Delete(_ context.Context, name string) bool {
	f.deleted = append(f.deleted, name)
	return true
}

func (f *fakeBlobs) LocalPath(_ context.Context, name string) (string, func(), error) {
	return "/blobs/" + name, nil, nil
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// multipartBody builds a form with image file parts under the given field
// plus optional text fields.
func multipartBody(t *testing.T, field string, filenames []string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, fn := range filenames {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fn))
		hdr.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
