package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/assess/internal/content"
	"github.com/abhisek/assess/internal/curriculum"
	"github.com/abhisek/assess/internal/llm"
	"github.com/abhisek/assess/internal/mastery"
	"github.com/abhisek/assess/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM configuration and request events",
}

var llmStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which LLM provider would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := llm.ConfigFromEnv()
		if cfg.Provider == "mock" {
			if discovered, ok := llm.DiscoverConfig(); ok {
				cfg = discovered
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		fmt.Printf("Provider: %s\n", cfg.Provider)
		switch cfg.Provider {
		case "anthropic":
			fmt.Printf("Model:    %s\n", cfg.Anthropic.Model)
		case "openai":
			fmt.Printf("Model:    %s\n", cfg.OpenAI.Model)
			if cfg.OpenAI.BaseURL != "" {
				fmt.Printf("Base URL: %s\n", cfg.OpenAI.BaseURL)
			}
		case "gemini":
			fmt.Printf("Model:    %s\n", cfg.Gemini.Model)
		case "mock":
			fmt.Println("No API key found; questions come from the built-in bank.")
		}
		return nil
	},
}

var llmEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent LLM request events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.Events().Recent(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-9s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Provider", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 110))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			model := e.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-5d  %-19s  %-9s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.Provider,
				e.Purpose,
				model,
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Generate one sample question against the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		svc, err := buildContentService(ctx, cmd, s)
		if err != nil {
			return err
		}

		graph := curriculum.Seed()
		area := graph.Roots()[0]
		q, err := svc.GenerateQuestion(ctx, content.QuestionRequest{
			Subject:    area.Subject,
			GradeLevel: area.GradeLevel,
			Area:       area,
			Difficulty: mastery.LabelMedium,
		})
		if err != nil {
			return fmt.Errorf("generate question: %w", err)
		}

		fmt.Printf("[%s] %s\n", q.Type, q.Text)
		for _, opt := range q.Options {
			fmt.Printf("  - %s\n", opt)
		}
		fmt.Printf("Answer: %s\n", q.CorrectAnswer)
		return nil
	},
}

func init() {
	llmEventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmTestCmd.Flags().String("provider", "", "LLM provider: anthropic, openai, gemini or mock (default: auto-detect)")

	llmCmd.AddCommand(llmStatusCmd)
	llmCmd.AddCommand(llmEventsCmd)
	llmCmd.AddCommand(llmTestCmd)
}
