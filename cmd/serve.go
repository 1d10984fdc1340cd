package cmd

import (
	"context"
	"time"

	"github.com/shandysiswandi/godataset/internal/app"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		grace      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API. The config file defaults to /config/config.yaml, or ./config/config.yaml when LOCAL=true.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application := app.New(configPath)
			wait := application.Start()
			<-wait

			ctx, cancel := context.WithTimeout(context.Background(), grace)
			defer cancel()
			application.Stop(ctx)

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file path")
	cmd.Flags().DurationVar(&grace, "shutdown-timeout", 10*time.Second, "time allowed for graceful shutdown")

	return cmd
}
