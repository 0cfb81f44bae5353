package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/auth"
	"NYCU-SDC/survey-builder/internal/draft"
	"NYCU-SDC/survey-builder/internal/gateway"
	"NYCU-SDC/survey-builder/internal/jwt"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/sheet"
	"NYCU-SDC/survey-builder/internal/template"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errInvalidSurvey = errors.New("survey is not ready to publish")

func typesCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List question types",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := loadCatalogs()
			if err != nil {
				return err
			}

			types := registry.List()
			if category != "" {
				if !registry.IsValidCategory(questiontype.Category(category)) {
					return fmt.Errorf("%w: %s", internal.ErrInvalidCategory, category)
				}
				types = registry.ListByCategory(questiontype.Category(category))
			}
			if viper.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), types)
			}

			tw := newTable(cmd)
			tw.AppendHeader(table.Row{"Type", "Name", "Category", "Options", "Icon"})
			for _, t := range types {
				tw.AppendRow(table.Row{t.Type, t.Name, t.Category, t.HasOptions, t.Icon})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category filter")
	return cmd
}

func templatesCmd() *cobra.Command {
	var category, search string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List survey templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, templates, err := loadCatalogs()
			if err != nil {
				return err
			}

			summaries := templates.List()
			if search != "" {
				summaries = templates.Search(search)
			}
			if category != "" {
				filtered := summaries[:0]
				for _, s := range summaries {
					if s.Category == template.Category(category) {
						filtered = append(filtered, s)
					}
				}
				summaries = filtered
			}
			if viper.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), summaries)
			}

			tw := newTable(cmd)
			tw.AppendHeader(table.Row{"ID", "Name", "Category", "Questions"})
			for _, s := range summaries {
				tw.AppendRow(table.Row{s.ID, s.Name, s.Category, s.QuestionCount})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category filter")
	cmd.Flags().StringVar(&search, "search", "", "match name, description or category")
	return cmd
}

func previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <template>",
		Short: "Show what a template contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, templates, err := loadCatalogs()
			if err != nil {
				return err
			}

			preview, err := templates.Preview(args[0])
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), preview)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n%s\n\n", preview.Icon, preview.Name, preview.Description)
			fmt.Fprintf(out, "Questions: %d\nEstimated time: %d min\n", preview.QuestionCount, preview.EstimatedMinutes)
			if len(preview.Features) > 0 {
				fmt.Fprintf(out, "Features: %s\n", strings.Join(preview.Features, ", "))
			}
			return nil
		},
	}
}

func newCmd() *cobra.Command {
	var templateID, title, output string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a draft file, blank or from a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, templates, err := loadCatalogs()
			if err != nil {
				return err
			}

			value := blankSurvey(title)
			if templateID != "" {
				value, err = templates.Instantiate(templateID, template.Customization{Title: title})
				if err != nil {
					return err
				}
			}

			if output == "" {
				return printJSON(cmd.OutOrStdout(), value)
			}
			return writeSurveyFile(output, value)
		},
	}
	cmd.Flags().StringVar(&templateID, "template", "", "template id")
	cmd.Flags().StringVar(&title, "title", "", "survey title")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check whether a draft can be published",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := loadCatalogs()
			if err != nil {
				return err
			}
			value, err := readSurveyFile(args[0])
			if err != nil {
				return err
			}

			validation := draft.Validate(registry, value)
			if viper.GetBool("json") {
				err = printJSON(cmd.OutOrStdout(), validation)
				if err != nil {
					return err
				}
			} else if validation.Valid {
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
			} else {
				tw := newTable(cmd)
				tw.AppendHeader(table.Row{"Question", "Problem"})
				for _, p := range validation.Problems {
					tw.AppendRow(table.Row{p.QuestionID, p.Message})
				}
				tw.Render()
			}

			if !validation.Valid {
				return fmt.Errorf("%w: %d problem(s)", errInvalidSurvey, len(validation.Problems))
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a draft as an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := loadCatalogs()
			if err != nil {
				return err
			}
			value, err := readSurveyFile(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = sheet.Filename(value)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			err = sheet.Write(f, value, registry)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", value.Title, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default derived from the title)")
	return cmd
}

func publishCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Save a draft to the storage service and publish it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL := viper.GetString("storage_api_url")
			if apiURL == "" {
				return errors.New("--api-url or STORAGE_API_URL is required")
			}
			token := viper.GetString("token")
			if token == "" {
				return internal.ErrNoCredentials
			}

			registry, _, err := loadCatalogs()
			if err != nil {
				return err
			}
			value, err := readSurveyFile(args[0])
			if err != nil {
				return err
			}

			logger := newLogger()
			client := gateway.New(logger, apiURL, auth.NewCredentials(token),
				gateway.WithTimeout(timeout),
				gateway.WithUnauthorizedHandler(func(ctx context.Context) {
					fmt.Fprintln(cmd.ErrOrStderr(), "The storage service rejected the token, log in again.")
				}))

			store := draft.NewStore(logger, registry, client)
			defer store.Close()
			store.SetSurvey(value)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			_, err = store.Save(ctx)
			if err != nil {
				return err
			}
			published, err := store.Publish(ctx)
			if err != nil {
				var validation draft.ErrValidation
				if errors.As(err, &validation) {
					for _, p := range validation.Problems {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", p.QuestionID, p.Message)
					}
				}
				return err
			}

			err = writeSurveyFile(args[0], published)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published survey %s (%s)\n", published.ID, published.Status)
			return nil
		},
	}
	cmd.Flags().String("api-url", "", "storage service base URL")
	cmd.Flags().String("token", "", "access token")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	_ = viper.BindPFlag("storage_api_url", cmd.Flags().Lookup("api-url"))
	_ = viper.BindPFlag("token", cmd.Flags().Lookup("token"))
	return cmd
}

func tokenCmd() *cobra.Command {
	var userID string
	var expiration time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development access token with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user required")
			}
			service := jwt.NewService(newLogger(), viper.GetString("jwt_secret"))
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			token, err := service.New(ctx, userID, expiration)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().DurationVar(&expiration, "expiration", 24*time.Hour, "token lifetime")
	cmd.Flags().String("secret", "", "signing secret")
	_ = viper.BindPFlag("jwt_secret", cmd.Flags().Lookup("secret"))
	return cmd
}
