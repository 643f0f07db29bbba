package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"schedex/internal/config"
	"schedex/internal/container"
	"schedex/internal/report"
	"schedex/models"
	"schedex/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schedex",
		Short: "Parse interior-design schedule workbooks into product records",
	}

	rootCmd.AddCommand(
		newParseCmd(),
		newReportCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newParseCmd() *cobra.Command {
	var pretty bool
	var enrich bool

	cmd := &cobra.Command{
		Use:   "parse <file.xlsx>...",
		Short: "Parse schedule workbooks and print product JSON",
		Long: `Parse one or more .xlsx schedule workbooks and print the extracted
products as JSON, one document per file.

Enrichment needs USE_LLM plus a DEEPINFRA_API_KEY in the environment
or a .env file.

Example: schedex parse aurora_ffe.xlsx --pretty`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), args, pretty, enrich)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	cmd.Flags().BoolVar(&enrich, "enrich", false, "Enrich sparse products through the configured LLM")

	return cmd
}

func newReportCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report <file.xlsx>",
		Short: "Print an extraction-quality summary for a workbook",
		Long: `Parse a schedule workbook and print per-field fill rates plus a
price distribution summary.

Example: schedex report aurora_ffe.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the parse API and ops servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

// buildContainer wires the parse pipeline from the environment.
// Enrichment is forced on or off by the --enrich flag regardless of
// USE_LLM.
func buildContainer(enrich bool) (*container.Container, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.Enrichment.Enabled = enrich
	if enrich && cfg.Enrichment.APIKey == "" {
		return nil, fmt.Errorf("enrichment requires DEEPINFRA_API_KEY")
	}

	return container.New(cfg)
}

func parseFile(ctx context.Context, c *container.Container, path string) (*models.ScheduleResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	wb, err := c.Reader.LoadWorkbook(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return c.Parser.ParseWorkbook(ctx, wb, filepath.Base(path)), nil
}

func runParse(ctx context.Context, paths []string, pretty, enrich bool) error {
	c, err := buildContainer(enrich)
	if err != nil {
		return err
	}

	for _, path := range paths {
		resp, err := parseFile(ctx, c, path)
		if err != nil {
			return err
		}

		var out []byte
		if pretty {
			out, err = json.MarshalIndent(resp, "", "  ")
		} else {
			out, err = json.Marshal(resp)
		}
		if err != nil {
			return fmt.Errorf("failed to encode result for %s: %w", path, err)
		}
		fmt.Println(string(out))
	}

	return nil
}

func runReport(ctx context.Context, path string, asJSON bool) error {
	c, err := buildContainer(false)
	if err != nil {
		return err
	}

	resp, err := parseFile(ctx, c, path)
	if err != nil {
		return err
	}

	quality := report.Build(resp)
	if asJSON {
		out, err := json.MarshalIndent(quality, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Print(quality.FormatText())
	return nil
}

func runServe() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application container: %w", err)
	}
	defer c.Shutdown(context.Background())

	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := c.InitWithDatabase(db); err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
	} else {
		log.Println("DATABASE_URL not set, running without the run ledger")
	}

	ops := ui.NewApp(ui.Config{Port: cfg.Ops.Port}, c.RunRepo, c.UsageRepo)
	go func() {
		if err := ops.Start(); err != nil {
			log.Printf("Ops server failed: %v", err)
		}
	}()

	server := ui.NewServer(ui.ServerConfig{
		GinMode:     cfg.Server.GinMode,
		MaxUploadMB: cfg.Server.MaxUploadMB,
	}, c.Reader, c.Parser)

	return server.Start(":" + cfg.Server.Port)
}
