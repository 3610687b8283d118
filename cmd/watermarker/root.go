package main

import (
	"image-watermarker/internal/app"
	"image-watermarker/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/zlog"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "watermarker",
		Short: "Stamp a watermark on every new image in a directory tree",
		Long: `Watermarker polls an input directory, composites a watermark onto every
JPEG or PNG it has not seen before and writes the result to a flat output
directory. Processed names are kept in a ledger so files are never stamped twice.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (environment variables override it)")

	cmd.AddCommand(newRunCmd(&configPath), newOnceCmd(&configPath))

	return cmd
}

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Poll the input directory until interrupted",
		Example: `  watermarker run
  watermarker run --config config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configPath)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}

func newOnceCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configPath)
			if err != nil {
				return err
			}

			summary, err := a.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("pass %s: %d processed, %d already done, %d failed\n",
				summary.ID, summary.Processed, summary.Duplicates, summary.Failed)
			return nil
		},
	}
}

func newApp(cmd *cobra.Command, configPath string) (*app.App, error) {
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to load config")
		return nil, err
	}

	a, err := app.NewApp(cmd.Context(), cfg, &zlog.Logger)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to create app")
		return nil, err
	}

	return a, nil
}
