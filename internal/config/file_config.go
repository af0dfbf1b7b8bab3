package config

import (
	"strings"
	"time"
)

// UploadURL - публичный префикс для файлов из локального хранилища,
// например http://localhost:8000/backend/uploads
func (c *Config) UploadURL() string {
	return strings.TrimRight(c.API.BaseURL, "/") + "/" + c.UploadPath()
}

// UploadPath - путь, по которому роутер раздает загруженные файлы (без ведущего "/")
func (c *Config) UploadPath() string {
	return strings.Trim(c.Upload.Dir, "/")
}

// ShareURL строит ссылку на публичную страницу коллекции
func (c *Config) ShareURL(token string) string {
	if c.API.FrontendURL == "" {
		return "/share/" + token
	}
	return strings.TrimRight(c.API.FrontendURL, "/") + "/share/" + token
}

// IsAllowedExtension сравнивает расширение без учета регистра
func (c *Config) IsAllowedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.Upload.AllowedExtensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTTLMinutes) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLMinutes) * time.Minute
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func (c *Config) MaintenanceInterval() time.Duration {
	return time.Duration(c.Maintenance.IntervalMinutes) * time.Minute
}

// IsDevelopment - любое окружение, кроме development, считается боевым
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
