// Command triage 提供症状分诊服务与命令行预测。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushteam/triagekit/internal/settings"
	"github.com/rushteam/triagekit/server"
	"github.com/rushteam/triagekit/triage"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "triage",
		Short:        "Symptom triage service",
		Long:         "triage ranks likely conditions from reported symptoms and vital signs.",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(predictCmd())
	rootCmd.AddCommand(symptomsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	s, err := settings.Load()
	if err != nil {
		return err
	}
	logger := newLogger(s, os.Stdout)
	a, err := buildApp(ctx, s, logger)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	srv := server.New(a.engine, logger, server.WithCORSOrigins(s.CORSOrigins...))
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(s.Addr) }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func predictCmd() *cobra.Command {
	var (
		symptoms []string
		vitals   []string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one request and print the result as JSON",
		Example: `  triage predict --symptom fever --symptom cough
  TRIAGE_SCORER=classifier triage predict --symptom headache \
    --vital bodyTemperature=38.2 --vital heartRate=90 --vital systolic=120 \
    --vital diastolic=80 --vital respiratoryRate=16`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseRequest(symptoms, vitals)
			if err != nil {
				return err
			}
			s, err := settings.Load()
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), s, newLogger(s, os.Stderr))
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			resp, err := a.engine.Predict(cmd.Context(), req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringArrayVarP(&symptoms, "symptom", "s", nil, "reported symptom (repeatable)")
	cmd.Flags().StringArrayVarP(&vitals, "vital", "v", nil, "vital sign, either a value in declared order or name=value (repeatable)")
	return cmd
}

func symptomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms",
		Short: "List known symptoms",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load()
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), s, newLogger(s, os.Stderr))
			if err != nil {
				return err
			}
			defer a.close(context.Background())
			for _, sym := range a.engine.Symptoms().Symptoms {
				fmt.Fprintln(cmd.OutOrStdout(), sym)
			}
			return nil
		},
	}
}

// parseRequest 解析命令行参数。生命体征要么全部是 name=value，要么全部是按声明顺序的数值。
func parseRequest(symptoms, vitals []string) (triage.Request, error) {
	req := triage.Request{Symptoms: symptoms}
	for _, v := range vitals {
		name, raw, named := strings.Cut(v, "=")
		if !named {
			raw = name
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return triage.Request{}, fmt.Errorf("invalid vital %q: %w", v, err)
		}
		if named {
			if req.VitalSigns != nil {
				return triage.Request{}, fmt.Errorf("cannot mix named and positional vitals")
			}
			if req.NamedVitals == nil {
				req.NamedVitals = make(map[string]float64)
			}
			req.NamedVitals[strings.TrimSpace(name)] = f
			continue
		}
		if req.NamedVitals != nil {
			return triage.Request{}, fmt.Errorf("cannot mix named and positional vitals")
		}
		req.VitalSigns = append(req.VitalSigns, f)
	}
	return req, nil
}
