package app_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shareBody struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	IsEnabled bool   `json:"is_enabled"`
}

func TestShare_Lifecycle(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens := ts.RegisterAndLogin(t, "alice")

	collection := ts.CreateCollection(t, tokens.AccessToken, "Coins")
	first := ts.CreateItem(t, tokens.AccessToken, collection.ID, "Aureus")
	second := ts.CreateItem(t, tokens.AccessToken, collection.ID, "Denarius")
	managePath := fmt.Sprintf("/share/collections/%d", collection.ID)

	res, body := ts.SendRequest(t, http.MethodDelete, managePath, tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Share link not found", decode[errorBody](t, body).Detail)

	res, body = ts.SendRequest(t, http.MethodPost, managePath, tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	share := decode[shareBody](t, body)
	assert.NotEmpty(t, share.Token)
	assert.True(t, share.IsEnabled)
	assert.Equal(t, "http://frontend.test/share/"+share.Token, share.URL)

	// публичный просмотр без токена доступа
	res, body = ts.SendRequest(t, http.MethodGet, "/share/"+share.Token, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	shared := decode[collectionBody](t, body)
	assert.Equal(t, collection.ID, shared.ID)
	require.Len(t, shared.Items, 2)
	assert.Equal(t, first.ID, shared.Items[0].ID)

	res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/share/%s/items/%d", share.Token, second.ID), "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, "Denarius", decode[itemBody](t, body).Name)

	// повторное включение сохраняет токен
	res, body = ts.SendRequest(t, http.MethodPost, managePath, tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, share.Token, decode[shareBody](t, body).Token)

	res, body = ts.SendRequest(t, http.MethodDelete, managePath, tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.JSONEq(t, `{"status":"disabled"}`, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/share/"+share.Token, "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Invalid or disabled share link", decode[errorBody](t, body).Detail)

	res, body = ts.SendRequest(t, http.MethodPost, managePath, tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	reenabled := decode[shareBody](t, body)
	assert.Equal(t, share.Token, reenabled.Token)
	assert.True(t, reenabled.IsEnabled)
}

func TestShare_RotateToken(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens := ts.RegisterAndLogin(t, "alice")
	collection := ts.CreateCollection(t, tokens.AccessToken, "Coins")
	managePath := fmt.Sprintf("/share/collections/%d", collection.ID)

	res, body := ts.SendRequest(t, http.MethodPost, managePath, tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	original := decode[shareBody](t, body)

	res, body = ts.SendRequest(t, http.MethodPost, managePath+"?rotate=true", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	rotated := decode[shareBody](t, body)
	assert.NotEqual(t, original.Token, rotated.Token)

	res, _ = ts.SendRequest(t, http.MethodGet, "/share/"+original.Token, "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodGet, "/share/"+rotated.Token, "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestShare_ScopeAndOwnership(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	alice := ts.RegisterAndLogin(t, "alice")
	bob := ts.RegisterAndLogin(t, "bob")

	shared := ts.CreateCollection(t, alice.AccessToken, "Coins")
	private := ts.CreateCollection(t, alice.AccessToken, "Diaries")
	hidden := ts.CreateItem(t, alice.AccessToken, private.ID, "Diary 1998")

	res, _ := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/share/collections/%d", shared.ID), bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/share/collections/%d", shared.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/share/collections/%d", shared.ID), alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	share := decode[shareBody](t, body)

	res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/share/%s/items/%d", share.Token, hidden.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Item not found in shared collection", decode[errorBody](t, body).Detail)

	res, _ = ts.SendRequest(t, http.MethodGet, "/share/unknown-token", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
