package main

import (
	"fmt"
	"os"
	"strings"

	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/template"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "surveyctl",
		Short: "Survey builder CLI",
		Long: `surveyctl works with survey drafts stored as JSON files.
It lists question types and templates, creates drafts from templates, checks
whether a draft can be published, exports drafts as spreadsheets and publishes
them to the survey storage service.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
	}

	root.PersistentFlags().Bool("json", false, "output JSON")
	root.PersistentFlags().Bool("debug", false, "log to stderr")
	_ = viper.BindPFlag("json", root.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))

	root.AddCommand(typesCmd())
	root.AddCommand(templatesCmd())
	root.AddCommand(previewCmd())
	root.AddCommand(newCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(publishCmd())
	root.AddCommand(tokenCmd())
	return root
}

// initConfig reads the same environment keys as the server.
func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("storage_api_url", "STORAGE_API_URL")
	_ = viper.BindEnv("jwt_secret", "JWT_SECRET")
	_ = viper.BindEnv("token", "SURVEY_TOKEN")
}

func newLogger() *zap.Logger {
	if !viper.GetBool("debug") {
		return zap.NewNop()
	}
	logger, err := logutil.ZapDevelopmentConfig().Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadCatalogs() (*questiontype.Registry, *template.Catalog, error) {
	registry, err := questiontype.Default()
	if err != nil {
		return nil, nil, err
	}
	templates, err := template.Default()
	if err != nil {
		return nil, nil, err
	}
	return registry, templates, nil
}
