package app_test

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"net/http"
	"strings"
	"testing"

	"archived_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupItem(t *testing.T, ts *TestServer) (tokenPair, itemBody) {
	t.Helper()
	tokens := ts.RegisterAndLogin(t, "alice")
	collection := ts.CreateCollection(t, tokens.AccessToken, "Coins")
	item := ts.CreateItem(t, tokens.AccessToken, collection.ID, "Denarius")
	return tokens, item
}

func TestImages_UploadAndList(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens, item := setupItem(t, ts)

	images := ts.UploadImages(t, tokens.AccessToken, item.ID,
		pngFile(t, "files", "front.png"),
		pngFile(t, "files", "BACK.PNG"),
	)
	require.Len(t, images, 2)
	assert.Equal(t, 1, images[0].ImageOrder)
	assert.Equal(t, 2, images[1].ImageOrder)
	for _, img := range images {
		assert.Equal(t, item.ID, img.ItemID)
		assert.True(t, strings.HasPrefix(img.ImageURL, "http://testserver/backend/uploads/"), img.ImageURL)
		assert.True(t, strings.HasSuffix(img.ImageURL, ".png"), img.ImageURL)
		assert.True(t, ts.storedFileExists(img.ImageURL))
	}

	res, body := ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/items/%d/images", item.ID), tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Len(t, decode[[]imageBody](t, body), 2)

	// загруженный файл раздается как статика
	name := images[0].ImageURL[strings.LastIndex(images[0].ImageURL, "/")+1:]
	res, _ = ts.SendRequest(t, http.MethodGet, "/backend/uploads/"+name, "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestImages_UploadValidation(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens, item := setupItem(t, ts)
	path := fmt.Sprintf("/items/%d/images/upload", item.ID)

	res, body := ts.SendMultipart(t, http.MethodPost, path, tokens.AccessToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "No files provided", decode[errorBody](t, body).Detail)

	res, body = ts.SendMultipart(t, http.MethodPost, path, tokens.AccessToken, nil, []formFile{
		{Field: "files", Filename: "notes.txt", Data: []byte("hello")},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, decode[errorBody](t, body).Detail, "File type .txt not allowed")

	res, body = ts.SendMultipart(t, http.MethodPost, path, tokens.AccessToken, nil, []formFile{
		{Field: "files", Filename: "fake.png", Data: []byte("definitely not a png")},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, decode[errorBody](t, body).Detail, "is not a valid image")

	// в одном запросе один плохой файл отменяет всю загрузку
	res, _ = ts.SendMultipart(t, http.MethodPost, path, tokens.AccessToken, nil, []formFile{
		pngFile(t, "files", "ok.png"),
		{Field: "files", Filename: "bad.exe", Data: []byte("MZ")},
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/items/%d/images", item.ID), tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, decode[[]imageBody](t, body))
}

func TestImages_UploadCompressesLargeImages(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t, func(cfg *config.Config) {
		cfg.Upload.MaxSize = 8 * 1024
	})
	tokens, item := setupItem(t, ts)

	large := noisyPNG(t, 160, 160)
	require.Greater(t, len(large), 8*1024)

	images := ts.UploadImages(t, tokens.AccessToken, item.ID, formFile{Field: "files", Filename: "scan.png", Data: large})
	require.Len(t, images, 1)
	assert.True(t, strings.HasSuffix(images[0].ImageURL, ".jpg"), images[0].ImageURL)
	assert.True(t, ts.storedFileExists(images[0].ImageURL))
}

func TestImages_PatchReplacesAndReorders(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens, item := setupItem(t, ts)
	images := ts.UploadImages(t, tokens.AccessToken, item.ID,
		pngFile(t, "files", "a.png"),
		pngFile(t, "files", "b.png"),
	)
	a, b := images[0], images[1]

	res, body := ts.SendMultipart(t, http.MethodPatch, fmt.Sprintf("/items/%d/images", item.ID), tokens.AccessToken,
		map[string][]string{
			"deleted_item_images": {itoa(a.ID)},
			"new_images_order":    {"new-0", itoa(b.ID)},
		},
		[]formFile{pngFile(t, "new_files", "c.png")},
	)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	updated := decode[[]imageBody](t, body)
	require.Len(t, updated, 2)
	assert.NotEqual(t, b.ID, updated[0].ID)
	assert.Equal(t, 0, updated[0].ImageOrder)
	assert.Equal(t, b.ID, updated[1].ID)
	assert.Equal(t, 1, updated[1].ImageOrder)

	assert.False(t, ts.storedFileExists(a.ImageURL))
	assert.True(t, ts.storedFileExists(updated[0].ImageURL))
}

func TestImages_PatchValidation(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens, item := setupItem(t, ts)
	images := ts.UploadImages(t, tokens.AccessToken, item.ID,
		pngFile(t, "files", "a.png"),
		pngFile(t, "files", "b.png"),
	)
	a, b := images[0], images[1]

	otherItem := ts.CreateItem(t, tokens.AccessToken, item.CollectionID, "Aureus")
	foreign := ts.UploadImages(t, tokens.AccessToken, otherItem.ID, pngFile(t, "files", "x.png"))[0]

	path := fmt.Sprintf("/items/%d/images", item.ID)
	cases := []struct {
		name   string
		fields map[string][]string
		files  []formFile
		status int
		detail string
	}{
		{
			name:   "foreign id in order",
			fields: map[string][]string{"new_images_order": {itoa(foreign.ID), itoa(a.ID)}},
			status: http.StatusBadRequest,
			detail: "Invalid image IDs in order",
		},
		{
			name:   "deleted id of another item",
			fields: map[string][]string{"deleted_item_images": {itoa(foreign.ID)}},
			status: http.StatusNotFound,
			detail: "Images not found or you don't have access to them",
		},
		{
			name:   "unknown placeholder",
			fields: map[string][]string{"new_images_order": {"new-3", itoa(a.ID)}},
			files:  []formFile{pngFile(t, "new_files", "c.png")},
			status: http.StatusBadRequest,
			detail: "Unknown temp ID",
		},
		{
			name: "deleted id in order",
			fields: map[string][]string{
				"deleted_item_images": {itoa(a.ID)},
				"new_images_order":    {itoa(a.ID), itoa(b.ID)},
			},
			status: http.StatusBadRequest,
			detail: "Invalid image ID in order",
		},
		{
			name:   "malformed deleted id",
			fields: map[string][]string{"deleted_item_images": {"abc"}},
			status: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, body := ts.SendMultipart(t, http.MethodPatch, path, tokens.AccessToken, tc.fields, tc.files)
			assert.Equal(t, tc.status, res.StatusCode, body)
			if tc.detail != "" {
				assert.Contains(t, decode[errorBody](t, body).Detail, tc.detail)
			}
		})
	}

	// ни один неудачный запрос ничего не изменил
	res, body := ts.SendRequest(t, http.MethodGet, path, tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	current := decode[[]imageBody](t, body)
	require.Len(t, current, 2)
	assert.True(t, ts.storedFileExists(a.ImageURL))
	assert.True(t, ts.storedFileExists(foreign.ImageURL))
}

func TestImages_Delete(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens, item := setupItem(t, ts)
	bob := ts.RegisterAndLogin(t, "bob")
	image := ts.UploadImages(t, tokens.AccessToken, item.ID, pngFile(t, "files", "a.png"))[0]
	path := fmt.Sprintf("/images/%d", image.ID)

	res, body := ts.SendRequest(t, http.MethodDelete, path, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Item not found or you don't have access to it", decode[errorBody](t, body).Detail)

	res, _ = ts.SendRequest(t, http.MethodDelete, path, tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.False(t, ts.storedFileExists(image.ImageURL))

	res, body = ts.SendRequest(t, http.MethodDelete, path, tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Image not found", decode[errorBody](t, body).Detail)
}

// noisyPNG - плохо сжимаемая картинка, чтобы превысить лимит размера
func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
