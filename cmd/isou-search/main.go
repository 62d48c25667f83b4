package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kitbuilder587/isou-search-bot/internal/config"
	"github.com/kitbuilder587/isou-search-bot/internal/search"
	"github.com/kitbuilder587/isou-search-bot/internal/search/isou"
)

var (
	version = "0.1.0"
)

func main() {
	var (
		mode       string
		category   string
		timeoutSec int
		stream     bool
		baseURL    string
	)

	rootCmd := &cobra.Command{
		Use:   "isou-search [query]",
		Short: "Search isou.chat from the command line",
		Long: `isou-search sends a single query to the isou.chat AI search service
and prints the answer, image results and related questions.

Examples:
  isou-search what is the current AQI in Delhi?
  isou-search --mode deep --category science "quantum entanglement"
  isou-search --stream how does sse work`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(query, mode, category, baseURL, timeoutSec, stream)
		},
	}

	rootCmd.Flags().StringVar(&mode, "mode", string(search.ModeSimple), "search mode: simple or deep")
	rootCmd.Flags().StringVar(&category, "category", string(search.CategoryGeneral), "search category: general or science")
	rootCmd.Flags().IntVar(&timeoutSec, "timeout", 10, "request timeout in seconds")
	rootCmd.Flags().BoolVar(&stream, "stream", false, "print answer fragments as they arrive")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "override the search endpoint URL")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("isou-search v%s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSearch(query, mode, category, baseURL string, timeoutSec int, stream bool) error {
	logger, err := config.NewConsoleLogger(config.LogConfig{
		Level: os.Getenv("LOG_LEVEL"),
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	cfg := isou.Config{
		Mode:     search.Mode(mode),
		Category: search.Category(category),
		BaseURL:  baseURL,
		Timeout:  time.Duration(timeoutSec) * time.Second,
		Stream:   stream,
	}
	if stream {
		cfg.OnAnswer = func(delta string) {
			fmt.Print(delta)
		}
	}

	client, err := isou.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := client.Search(context.Background(), query)
	if err != nil {
		return err
	}

	if stream {
		// потоковый ответ уже напечатан фрагментами
		fmt.Println()
	}

	fmt.Print(formatResult(result, stream))
	return nil
}

func formatResult(result *search.SearchResult, streamed bool) string {
	separator := strings.Repeat("=", 80)

	var sb strings.Builder
	for _, img := range result.Images {
		sb.WriteString("\n" + separator)
		sb.WriteString("\nID:          " + img.ID)
		sb.WriteString("\nTitle:       " + img.Name)
		sb.WriteString("\nSource:      " + img.Source)
		sb.WriteString("\nURL:         " + img.URL)
		sb.WriteString("\nImage URL:   " + img.Img)
		sb.WriteString("\nThumbnail:   " + img.Thumbnail)
		sb.WriteString("\nDescription: " + img.Snippet)
		sb.WriteString("\nEngine:      " + img.Engine)
		sb.WriteString("\n" + separator + "\n")
	}

	if !streamed {
		sb.WriteString(fmt.Sprintf("Answer: %s\n", result.Answer))
	}
	sb.WriteString(fmt.Sprintf("\nRelated: %s\n", result.Related))

	return sb.String()
}
