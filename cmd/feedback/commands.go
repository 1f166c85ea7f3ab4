package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedback-go/internal/entry"
	"feedback-go/internal/models"
	"feedback-go/internal/router"
	"feedback-go/internal/scoring"
	"feedback-go/internal/services"
	"feedback-go/internal/shapers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*root)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			services.NewScheduler(a.log, a.repo, time.Hour).Start(ctx)

			r := router.Setup(a.log, a.conf, router.Deps{
				Surveys:  a.repo,
				Accounts: a.repo,
				Issuer:   a.issuer,
				Notifier: services.NewInvitationNotifier(a.log),
			})

			srv := &http.Server{
				Addr:              ":" + a.conf.Get().Server.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.log.Info("Server listening", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newSeedCmd(root *string) *cobra.Command {
	var orgID string
	cmd := &cobra.Command{
		Use:   "seed <surveys.yaml>",
		Short: "Create the surveys declared in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := models.LoadSurveyDefinitions(args[0])
			if err != nil {
				return err
			}
			a, err := bootstrap(*root)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			for _, def := range defs {
				survey := def.Build(orgID)
				if err := a.repo.CreateSurvey(cmd.Context(), survey); err != nil {
					return fmt.Errorf("create survey %q: %w", def.Title, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d questions\n", survey.ID, survey.Title, len(survey.Questions))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization id owning the surveys")
	cmd.MarkFlagRequired("org")
	return cmd
}

func newScoreCmd(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "score <survey-id>",
		Short: "Print a survey's combined score as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*root)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			score, err := scoring.ComputeSurveyScore(cmd.Context(), a.repo, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(score)
		},
	}
}

func newExportCmd(root *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <survey-id>",
		Short: "Write a survey's responses as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*root)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			ctx := cmd.Context()
			questions, err := a.repo.AllQuestions(ctx, args[0])
			if err != nil {
				return err
			}
			ids := make([]string, len(questions))
			for i, q := range questions {
				ids[i] = q.ID
			}
			answers, err := a.repo.AnswersForQuestions(ctx, ids)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return shapers.WriteCSV(w, shapers.TableRows(questions, answers))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write instead of stdout")
	return cmd
}

func newEntryLinkCmd(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "entry-link <survey-id>",
		Short: "Print the respondent link and QR image URL for a survey",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*root)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			if _, err := a.repo.GetSurvey(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("survey %s: %w", args[0], err)
			}
			token, err := a.issuer.Issue(args[0])
			if err != nil {
				return err
			}
			cfg := a.conf.Get()
			link := entry.URL(cfg.Server.BaseURL, token)
			fmt.Fprintln(cmd.OutOrStdout(), link)
			fmt.Fprintln(cmd.OutOrStdout(), entry.QRImageURL(cfg.Entry.QRServiceURL, link))
			return nil
		},
	}
}
