package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"archived_backend/internal/app"
	"archived_backend/internal/config"
	"archived_backend/internal/email"
	"archived_backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret     = "test_secret_key_that_is_long_enough_0123456789"
	testAdminEmail = "admin@archived.test"
	testPassword   = "password123"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// recordingMailer - email.Provider, который запоминает письма вместо отправки
type recordingMailer struct {
	mu      sync.Mutex
	sent    []sentEmail
	failFor map[string]bool
}

type sentEmail struct {
	To       []string
	Subject  string
	Template string
	Data     email.TemplateData
}

func (m *recordingMailer) Send(msg *email.Email) error {
	return m.record(msg.To, msg.Subject, "", nil)
}

func (m *recordingMailer) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	return m.record(to, subject, templateName, data)
}

func (m *recordingMailer) Validate() error { return nil }

func (m *recordingMailer) record(to []string, subject, templateName string, data email.TemplateData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, addr := range to {
		if m.failFor[addr] {
			return fmt.Errorf("smtp: mailbox unavailable: %s", addr)
		}
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Template: templateName, Data: data})
	return nil
}

func (m *recordingMailer) Sent() []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmail(nil), m.sent...)
}

type TestServer struct {
	Server    *httptest.Server
	DB        *gorm.DB
	App       *app.Application
	Mailer    *recordingMailer
	UploadDir string

	clockMu sync.Mutex
	now     time.Time
}

type testOption func(cfg *config.Config)

// NewTestServer поднимает роутер на отдельной sqlite-базе и локальном хранилище во временной директории
func NewTestServer(t *testing.T, opts ...testOption) *TestServer {
	t.Helper()

	dir := t.TempDir()
	uploadDir := filepath.Join(dir, "uploads")

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Database.DSN = "file:" + filepath.Join(dir, "archived.db")
	cfg.JWT.Secret = testSecret
	cfg.JWT.Algorithm = "HS256"
	cfg.JWT.AccessTTLMinutes = 30
	cfg.JWT.RefreshTTLMinutes = 60
	cfg.CORS.Origins = []string{"http://localhost:5173"}
	cfg.API.BaseURL = "http://testserver"
	cfg.API.FrontendURL = "http://frontend.test"
	cfg.Storage.Type = "local"
	cfg.Upload.Dir = "backend/uploads"
	cfg.Upload.MaxSize = 1024 * 1024
	cfg.Upload.AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	cfg.Upload.ImageQuality = 85
	cfg.Email.AdminEmail = testAdminEmail
	cfg.RateLimit.MaxRequests = 3
	cfg.RateLimit.WindowSeconds = 3600
	cfg.Maintenance.IntervalMinutes = 60
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := app.OpenDatabase(cfg)
	require.NoError(t, err, "Не удалось открыть тестовую БД")

	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: uploadDir,
		BaseURL:  cfg.UploadURL(),
	})
	require.NoError(t, err)

	ts := &TestServer{
		DB:        db,
		Mailer:    &recordingMailer{failFor: map[string]bool{}},
		UploadDir: uploadDir,
		now:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	application, err := app.SetupRouter(context.Background(), cfg, db, app.Dependencies{
		Mailer:  ts.Mailer,
		Storage: store,
		Now:     ts.Now,
	})
	require.NoError(t, err)

	ts.App = application
	ts.Server = httptest.NewServer(application.Router)

	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// Now/Advance - управляемые часы лимитера контактной формы
func (ts *TestServer) Now() time.Time {
	ts.clockMu.Lock()
	defer ts.clockMu.Unlock()
	return ts.now
}

func (ts *TestServer) Advance(d time.Duration) {
	ts.clockMu.Lock()
	defer ts.clockMu.Unlock()
	ts.now = ts.now.Add(d)
}

// SendRequest отправляет JSON (или без тела при body == nil)
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Ошибка кодирования JSON для запроса")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req, token)
}

func (ts *TestServer) SendForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(t, req, "")
}

type formFile struct {
	Field    string
	Filename string
	Data     []byte
}

// SendMultipart отправляет multipart/form-data с повторяющимися полями и файлами
func (ts *TestServer) SendMultipart(t *testing.T, method, path, token string, fields map[string][]string, files []formFile) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, writer.WriteField(name, v))
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.Field, f.Filename)
		require.NoError(t, err)
		_, err = part.Write(f.Data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return ts.do(t, req, token)
}

func (ts *TestServer) SendWithHeaders(t *testing.T, method, path string, headers map[string]string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return ts.do(t, req, "")
}

func (ts *TestServer) do(t *testing.T, req *http.Request, token string) (*http.Response, string) {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "Ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err, "Ошибка чтения тела ответа")
	return res, string(resBody)
}

// =======================
// Хелперы предметной области
// =======================

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type errorBody struct {
	Detail string                 `json:"detail"`
	Code   string                 `json:"code"`
	Errors map[string]interface{} `json:"errors"`
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(body), &out), "body: %s", body)
	return out
}

// RegisterAndLogin регистрирует пользователя через API и возвращает пару токенов
func (ts *TestServer) RegisterAndLogin(t *testing.T, username string) tokenPair {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	return ts.Login(t, username, testPassword)
}

func (ts *TestServer) Login(t *testing.T, username, password string) tokenPair {
	t.Helper()

	res, body := ts.SendForm(t, "/auth/token", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	return decode[tokenPair](t, body)
}

type collectionBody struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Description     *string    `json:"description"`
	OwnerID         uint       `json:"owner_id"`
	CollectionOrder int        `json:"collection_order"`
	Items           []itemBody `json:"items"`
}

type itemBody struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	Description  *string     `json:"description"`
	CollectionID uint        `json:"collection_id"`
	ItemOrder    int         `json:"item_order"`
	Images       []imageBody `json:"images"`
	Tags         []tagBody   `json:"tags"`
}

type imageBody struct {
	ID         uint   `json:"id"`
	ImageURL   string `json:"image_url"`
	ItemID     uint   `json:"item_id"`
	ImageOrder int    `json:"image_order"`
}

type tagBody struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (ts *TestServer) CreateCollection(t *testing.T, token, name string) collectionBody {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/users/me/collections", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	return decode[collectionBody](t, body)
}

func (ts *TestServer) CreateItem(t *testing.T, token string, collectionID uint, name string) itemBody {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/collections/%d/items", collectionID), token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	return decode[itemBody](t, body)
}

func (ts *TestServer) UploadImages(t *testing.T, token string, itemID uint, files ...formFile) []imageBody {
	t.Helper()
	res, body := ts.SendMultipart(t, http.MethodPost, fmt.Sprintf("/items/%d/images/upload", itemID), token, nil, files)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	return decode[[]imageBody](t, body)
}

// pngBytes - настоящая PNG-картинка заданного размера
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x ^ y) * 3), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngFile(t *testing.T, field, name string) formFile {
	return formFile{Field: field, Filename: name, Data: pngBytes(t, 8, 8)}
}

// storedFileExists проверяет наличие файла изображения в локальном хранилище
func (ts *TestServer) storedFileExists(imageURL string) bool {
	ok, err := ts.App.Services.Storage.Exists(context.Background(), storage.NameFromURL(imageURL))
	return err == nil && ok
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

var _ email.Provider = (*recordingMailer)(nil)
