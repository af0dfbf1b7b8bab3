package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// applyEnv перекрывает значения из файла переменными окружения
func applyEnv(cfg *Config) error {
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.JWT.Secret, "SECRET_KEY")
	setString(&cfg.JWT.Algorithm, "ALGORITHM")
	setString(&cfg.Server.Host, "HOST")
	setString(&cfg.Server.Env, "APP_ENV")
	setString(&cfg.API.BaseURL, "API_BASE_URL")
	setString(&cfg.API.FrontendURL, "FRONTEND_URL")
	setString(&cfg.Upload.Dir, "UPLOAD_DIR")
	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.Region, "S3_REGION")
	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "S3_SECRET_KEY")
	setString(&cfg.Storage.PublicURL, "S3_PUBLIC_URL")
	setString(&cfg.Email.SMTPHost, "SMTP_SERVER")
	setString(&cfg.Email.SMTPUsername, "SMTP_USERNAME")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.AdminEmail, "ADMIN_EMAIL")
	setList(&cfg.CORS.Origins, "CORS_ORIGINS")
	setList(&cfg.Upload.AllowedExtensions, "ALLOWED_EXTENSIONS")

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &cfg.Server.Port},
		{"ACCESS_TOKEN_EXPIRE_MINUTES", &cfg.JWT.AccessTTLMinutes},
		{"REFRESH_TOKEN_EXPIRE_MINUTES", &cfg.JWT.RefreshTTLMinutes},
		{"IMAGE_QUALITY", &cfg.Upload.ImageQuality},
		{"SMTP_PORT", &cfg.Email.SMTPPort},
		{"RATE_LIMIT_MAX_REQUESTS", &cfg.RateLimit.MaxRequests},
		{"RATE_LIMIT_WINDOW_SECONDS", &cfg.RateLimit.WindowSeconds},
		{"MAINTENANCE_INTERVAL_MINUTES", &cfg.Maintenance.IntervalMinutes},
	}
	for _, it := range ints {
		if err := setInt(it.dst, it.key); err != nil {
			return err
		}
	}

	if raw := getEnv("MAX_FILE_SIZE", ""); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_FILE_SIZE %q: %w", raw, err)
		}
		cfg.Upload.MaxSize = size
	}

	return nil
}

func setString(dst *string, key string) {
	if value := getEnv(key, ""); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	*dst = value
	return nil
}

// setList разбирает список через запятую, пустые элементы отбрасываются
func setList(dst *[]string, key string) {
	raw := getEnv(key, "")
	if raw == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}
