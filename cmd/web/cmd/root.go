package cmd

import (
	"fmt"
	"os"

	"archived_backend/internal/config"
	"archived_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "archived",
	Short: "ARCHIVED - бэкенд личных коллекций",
	Long: `ARCHIVED - REST API для личных коллекций: пользователи, коллекции,
предметы, изображения, теги, публичные ссылки и контактная форма.

Без подкоманды запускает HTTP сервер.`,
	PersistentPreRunE: setupApp,
	RunE:              runServe,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	logger.Init(cfg.Server.Env)
	gin.SetMode(ginMode(cfg))
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	return nil
}

// ginMode - debug только в development: в debug-режиме детали 5xx уходят клиенту
func ginMode(cfg *config.Config) string {
	if cfg.IsDevelopment() {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "путь к YAML конфигурации (перекрывает CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd, resetDBCmd, cleanupTagsCmd)
}
