package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/docbrief/ai/core/llm"
	"github.com/hrygo/docbrief/ai/summarize"
	"github.com/hrygo/docbrief/document"
	"github.com/hrygo/docbrief/document/extract"
	"github.com/hrygo/docbrief/internal/profile"
	"github.com/hrygo/docbrief/internal/version"
	"github.com/hrygo/docbrief/metrics"
	"github.com/hrygo/docbrief/pipeline"
	"github.com/hrygo/docbrief/server"
)

var rootCmd = &cobra.Command{
	Use:   "docbrief",
	Short: `A document summarization service. Upload a PDF or image, get short, medium and long AI summaries.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Only load .env for direct binary execution (not when running as systemd service)
		if !isRunningAsSystemdService() {
			// Try to load .env file from current directory (ignore error if file doesn't exist)
			_ = godotenv.Load()
		}
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Data:    viper.GetString("data"),
			Version: version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			panic(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store, err := document.NewLocalStore(instanceProfile.Data)
		if err != nil {
			slog.Error("failed to create document store", "error", err)
			return
		}

		var llmService llm.Service
		if instanceProfile.IsLLMEnabled() {
			llmService, err = llm.NewService(&llm.Config{
				Provider: instanceProfile.LLMProvider,
				Model:    instanceProfile.LLMModel,
				APIKey:   instanceProfile.LLMAPIKey,
				BaseURL:  instanceProfile.LLMBaseURL,
				Timeout:  instanceProfile.LLMTimeout,
			})
			if err != nil {
				slog.Error("failed to create llm service", "error", err)
				return
			}
			go llmService.Warmup(ctx)
		} else {
			slog.Warn("no LLM API key configured, all summaries will degrade to the fallback text")
		}

		var ocr extract.Extractor
		visionOCR, err := extract.NewVisionOCR(ctx, splitLanguages(instanceProfile.OCRLanguages), 0)
		if err != nil {
			slog.Warn("OCR backend unavailable, image uploads will fail extraction", "error", err)
		} else {
			ocr = visionOCR
			defer visionOCR.Close()
		}

		exporter := metrics.NewExporter(metrics.Config{})
		dispatcher := extract.NewDispatcher(extract.NewPDFExtractor(), ocr)
		orchestrator := summarize.NewOrchestrator(summarize.NewClient(llmService))
		p := pipeline.New(store, dispatcher, orchestrator, exporter, instanceProfile.MaxUploadBytes)

		s, err := server.NewServer(ctx, instanceProfile, p, exporter)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			return
		}

		c := make(chan os.Signal, 1)
		// Trigger graceful shutdown on SIGINT or SIGTERM.
		// The default signal sent by the `kill` command is SIGTERM,
		// which is taken as the graceful shutdown signal for many systems, eg., Kubernetes, Gunicorn.
		signal.Notify(c, terminationSignals...)

		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			return
		}

		printGreetings(instanceProfile)

		go func() {
			<-c
			s.Shutdown(ctx)
			cancel()
		}()

		// Wait for CTRL-C.
		<-ctx.Done()
	},
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("port", 28090)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 28090, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")

	for _, flag := range []string{"mode", "addr", "port", "data"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("docbrief")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func splitLanguages(s string) []string {
	var out []string
	for _, lang := range strings.Split(s, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			out = append(out, lang)
		}
	}
	return out
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("DocBrief %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
	}

	fmt.Printf("Data directory: %s\n", profile.Data)
	fmt.Printf("Mode: %s\n", profile.Mode)
	fmt.Printf("Upload limit: %d MiB\n", profile.MaxUploadBytes/(1024*1024))

	if len(profile.Addr) == 0 {
		fmt.Printf("Server running on port %d\n", profile.Port)
		fmt.Printf("Access DocBrief at: http://localhost:%d\n", profile.Port)
	} else {
		fmt.Printf("Server running on %s:%d\n", profile.Addr, profile.Port)
		fmt.Printf("Access DocBrief at: http://%s:%d\n", profile.Addr, profile.Port)
	}
}

// isRunningAsSystemdService detects if the process is running under systemd
func isRunningAsSystemdService() bool {
	// Check if invoked by systemd (environment variables set by systemd)
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
