package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tell-platform/complaint-system/internal/infrastructure/config"
	"github.com/tell-platform/complaint-system/pkg/logger"
)

const serviceName = "complaint-api"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tell",
	Short: "TELL complaint management backend",
	Long: `TELL lets citizens file complaints that authorities triage and resolve.

	tell serve            run the HTTP API
	tell seed-admin       create or reset the admin account
	tell ensure-indexes   create MongoDB indexes
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and initialises the process logger.
func bootstrap() (*config.Config, zerolog.Logger) {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	return cfg, log
}
