package app_test

import (
	"fmt"
	"net/http"
	"testing"

	"archived_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItems_GetUpdateDelete(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	alice := ts.RegisterAndLogin(t, "alice")
	bob := ts.RegisterAndLogin(t, "bob")

	collection := ts.CreateCollection(t, alice.AccessToken, "Coins")
	item := ts.CreateItem(t, alice.AccessToken, collection.ID, "Denarius")
	path := fmt.Sprintf("/items/%d", item.ID)

	res, body := ts.SendRequest(t, http.MethodGet, path, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Item not found or you don't have access to it", decode[errorBody](t, body).Detail)

	res, body = ts.SendRequest(t, http.MethodPatch, path, alice.AccessToken, map[string]string{
		"name":        "Silver denarius",
		"description": "Trajan, 103 AD",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	updated := decode[itemBody](t, body)
	assert.Equal(t, "Silver denarius", updated.Name)
	require.NotNil(t, updated.Description)
	assert.NotNil(t, updated.Images)
	assert.NotNil(t, updated.Tags)

	res, body = ts.SendRequest(t, http.MethodGet, path, alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, "Silver denarius", decode[itemBody](t, body).Name)

	res, _ = ts.SendRequest(t, http.MethodDelete, path, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodDelete, path, alice.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, path, alice.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestItems_Tags(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens := ts.RegisterAndLogin(t, "alice")

	collection := ts.CreateCollection(t, tokens.AccessToken, "Coins")
	item := ts.CreateItem(t, tokens.AccessToken, collection.ID, "Denarius")
	other := ts.CreateItem(t, tokens.AccessToken, collection.ID, "Aureus")
	path := fmt.Sprintf("/items/%d/tags", item.ID)

	res, body := ts.SendRequest(t, http.MethodPost, path, tokens.AccessToken, map[string][]string{
		"tags": {" silver ", "", "roman", "silver"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, []string{"roman", "silver"}, tagNames(decode[[]tagBody](t, body)))

	res, body = ts.SendRequest(t, http.MethodPost, path, tokens.AccessToken, map[string][]string{
		"tags": {"roman", "empire"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, []string{"empire", "roman", "silver"}, tagNames(decode[[]tagBody](t, body)))

	// тег с тем же именем переиспользуется
	res, _ = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/items/%d/tags", other.ID), tokens.AccessToken, map[string][]string{
		"tags": {"roman"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assertCount(t, ts, &models.Tag{}, 3)

	res, body = ts.SendRequest(t, http.MethodGet, path, tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Len(t, decode[[]tagBody](t, body), 3)

	res, body = ts.SendRequest(t, http.MethodDelete, path, tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Empty(t, decode[[]tagBody](t, body))
	assert.Equal(t, "[]", body)

	// теги без предметов удаляет обслуживание
	removed, err := ts.App.Services.MaintenanceService.CleanupUnusedTags(ts.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assertCount(t, ts, &models.Tag{}, 1)
}

func tagNames(tags []tagBody) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
