package app_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollections_CreateAndListInOrder(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens := ts.RegisterAndLogin(t, "alice")

	first := ts.CreateCollection(t, tokens.AccessToken, "Coins")
	second := ts.CreateCollection(t, tokens.AccessToken, "Stamps")
	assert.Equal(t, 1, first.CollectionOrder)
	assert.Equal(t, 2, second.CollectionOrder)
	assert.NotNil(t, first.Items)

	res, body := ts.SendRequest(t, http.MethodGet, "/users/me/collections", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	list := decode[[]collectionBody](t, body)
	require.Len(t, list, 2)
	assert.Equal(t, []uint{first.ID, second.ID}, []uint{list[0].ID, list[1].ID})
}

func TestCollections_Validation(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens := ts.RegisterAndLogin(t, "alice")

	res, body := ts.SendRequest(t, http.MethodPost, "/users/me/collections", tokens.AccessToken, map[string]string{"name": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode, body)
	assert.Contains(t, decode[errorBody](t, body).Errors, "name")
}

func TestCollections_Reorder(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens := ts.RegisterAndLogin(t, "alice")

	a := ts.CreateCollection(t, tokens.AccessToken, "A")
	b := ts.CreateCollection(t, tokens.AccessToken, "B")
	c := ts.CreateCollection(t, tokens.AccessToken, "C")

	res, body := ts.SendRequest(t, http.MethodPatch, "/users/me/collections/order", tokens.AccessToken, []uint{})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "No collection orders provided", decode[errorBody](t, body).Detail)

	for _, ids := range [][]uint{{a.ID, b.ID}, {a.ID, b.ID, c.ID, 999}, {a.ID, a.ID, b.ID}} {
		res, body = ts.SendRequest(t, http.MethodPatch, "/users/me/collections/order", tokens.AccessToken, ids)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, "ids %v: %s", ids, body)
	}

	res, body = ts.SendRequest(t, http.MethodPatch, "/users/me/collections/order", tokens.AccessToken, []uint{c.ID, a.ID, b.ID})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	list := decode[[]collectionBody](t, body)
	require.Len(t, list, 3)
	assert.Equal(t, []uint{c.ID, a.ID, b.ID}, []uint{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{list[0].CollectionOrder, list[1].CollectionOrder, list[2].CollectionOrder})

	// новая коллекция встает в конец
	d := ts.CreateCollection(t, tokens.AccessToken, "D")
	assert.Equal(t, 3, d.CollectionOrder)
}

func TestCollections_OwnershipIsEnforced(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	alice := ts.RegisterAndLogin(t, "alice")
	bob := ts.RegisterAndLogin(t, "bob")

	collection := ts.CreateCollection(t, alice.AccessToken, "Coins")
	path := fmt.Sprintf("/collections/%d", collection.ID)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		res, body := ts.SendRequest(t, method, path, bob.AccessToken, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, "Collection not found or you don't have access to it", decode[errorBody](t, body).Detail)
	}

	res, _ := ts.SendRequest(t, http.MethodPost, path+"/items", bob.AccessToken, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/collections/abc", alice.AccessToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestCollections_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens := ts.RegisterAndLogin(t, "alice")

	collection := ts.CreateCollection(t, tokens.AccessToken, "Coins")
	item := ts.CreateItem(t, tokens.AccessToken, collection.ID, "Denarius")
	images := ts.UploadImages(t, tokens.AccessToken, item.ID, pngFile(t, "files", "a.png"))
	path := fmt.Sprintf("/collections/%d", collection.ID)

	description := "Ancient coins"
	res, body := ts.SendRequest(t, http.MethodPatch, path, tokens.AccessToken, map[string]interface{}{
		"name":        "Roman coins",
		"description": description,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	updated := decode[collectionBody](t, body)
	assert.Equal(t, "Roman coins", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, description, *updated.Description)
	require.Len(t, updated.Items, 1)

	res, body = ts.SendRequest(t, http.MethodDelete, path, tokens.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodGet, path, tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/items/%d", item.ID), tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.False(t, ts.storedFileExists(images[0].ImageURL))
}

func TestCollections_Items(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens := ts.RegisterAndLogin(t, "alice")

	collection := ts.CreateCollection(t, tokens.AccessToken, "Coins")
	a := ts.CreateItem(t, tokens.AccessToken, collection.ID, "Aureus")
	b := ts.CreateItem(t, tokens.AccessToken, collection.ID, "Denarius")
	assert.Equal(t, 1, a.ItemOrder)
	assert.Equal(t, 2, b.ItemOrder)
	assert.Equal(t, collection.ID, a.CollectionID)

	itemsPath := fmt.Sprintf("/collections/%d/items", collection.ID)
	res, body := ts.SendRequest(t, http.MethodGet, itemsPath, tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	items := decode[[]itemBody](t, body)
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)

	orderPath := itemsPath + "/order"
	for _, ids := range [][]uint{{}, {a.ID, a.ID}, {a.ID, 0}} {
		res, body = ts.SendRequest(t, http.MethodPatch, orderPath, tokens.AccessToken, map[string][]uint{"item_ids": ids})
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode, "ids %v: %s", ids, body)
	}

	res, body = ts.SendRequest(t, http.MethodPatch, orderPath, tokens.AccessToken, map[string][]uint{"item_ids": {a.ID}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Item IDs in order update must match exactly with current collection items", decode[errorBody](t, body).Detail)

	res, body = ts.SendRequest(t, http.MethodPatch, orderPath, tokens.AccessToken, map[string][]uint{"item_ids": {b.ID, a.ID}})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	items = decode[[]itemBody](t, body)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, 0, items[0].ItemOrder)
	assert.Equal(t, 1, items[1].ItemOrder)
}
