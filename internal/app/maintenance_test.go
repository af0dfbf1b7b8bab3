package app_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"archived_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenance_CleanExpiredRefreshTokens(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens := ts.RegisterAndLogin(t, "alice")

	var user models.User
	require.NoError(t, ts.DB.Where("username = ?", "alice").First(&user).Error)
	require.NoError(t, ts.DB.Create(&models.RefreshToken{
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)

	removed, err := ts.App.Services.MaintenanceService.CleanExpiredRefreshTokens(ts.DB)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	// действующий токен не тронут
	res, body := ts.SendRequest(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
}

func TestMaintenance_RunAll(t *testing.T) {
	t.Parallel()
	ts := NewTestServer(t)
	tokens := ts.RegisterAndLogin(t, "alice")
	collection := ts.CreateCollection(t, tokens.AccessToken, "Coins")
	item := ts.CreateItem(t, tokens.AccessToken, collection.ID, "Aureus")

	res, body := ts.SendRequest(t, http.MethodPost, "/items/"+itoa(item.ID)+"/tags", tokens.AccessToken, map[string][]string{"tags": {"gold"}})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	res, _ = ts.SendRequest(t, http.MethodDelete, "/items/"+itoa(item.ID)+"/tags", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	ts.App.Services.MaintenanceService.RunAll(context.Background(), ts.DB)

	var count int64
	require.NoError(t, ts.DB.Model(&models.Tag{}).Count(&count).Error)
	assert.Zero(t, count)
}
