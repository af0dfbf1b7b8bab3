package cmd

import (
	"archived_backend/internal/app"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP сервер",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	return app.Run(cfg)
}
