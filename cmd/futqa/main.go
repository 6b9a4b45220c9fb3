// futqa is the FUT Minna Computer Science question-answering assistant.
//
// Configuration is read from environment variables, optionally loaded from
// a .env file in the working directory:
//
//	FUTQA_HTTP_ADDR            - HTTP API listen address (default ":8080")
//	FUTQA_DB_PATH              - SQLite interaction log (default "./futqa.db")
//	FUTQA_KNOWLEDGE_PATH       - YAML knowledge file (default: embedded)
//	FUTQA_MEMORY_SIZE          - turns remembered per session (default 10)
//	FUTQA_MIN_ANSWER_LEN       - answer acceptance threshold (default 50)
//	FUTQA_FOLLOWUP_MIN_OVERLAP - shared words marking a follow-up (default 2)
//	FUTQA_FOLLOWUP_WINDOW      - turns compared for follow-ups (default 3)
//	FUTQA_SESSION_COOLDOWN     - idle time before a session is sealed (default 30m)
//	FUTQA_SEED                 - conversational template seed (default random)
//	FUTQA_BACKEND_TIMEOUT      - generative call timeout (default 8s)
//	FUTQA_BACKEND_RATE_LIMIT   - generative calls per session per minute (default 10)
//	OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_MODEL
//	GROQ_API_KEY, GROQ_MODEL
//	REDIS_URL                  - enables session snapshots
//	LOG_LEVEL                  - "debug", "info", "warn", "error" (default "info")
//	LOG_FORMAT                 - "text" or "json" (default "text")
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bdobrica/futqa/common/version"
	"github.com/bdobrica/futqa/internal/futqa/app"
	"github.com/bdobrica/futqa/internal/futqa/backend"
	"github.com/bdobrica/futqa/internal/futqa/engine"
	"github.com/bdobrica/futqa/internal/futqa/memory"
)

var rootCmd = &cobra.Command{
	Use:           "futqa",
	Short:         "FUT Minna Computer Science assistant",
	Long:          `futqa answers questions about the Computer Science programme at the Federal University of Technology, Minna: courses, lecturers, materials, study tips and admission.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.LoadConfig()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTPAddr = addr
		}
		logger := app.SetupLogging(cfg.LogLevel, cfg.LogFormat)
		logger.Info("starting futqa", "version", version.Version, "commit", version.GitCommit)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeApp(a)

		err = a.Run(ctx)
		logger.Info("shutting down")
		return err
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := cliApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp(a)

		ctx := backend.WithSession(cmd.Context(), "cli-"+uuid.NewString())
		resp := a.Engine().Ask(ctx, strings.Join(args, " "), nil)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		printAnswer(cmd.OutOrStdout(), resp, mustBool(cmd, "verbose"))
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation. Besides questions, these commands are understood:

  /summary            show the conversation so far
  /feedback <text>    attach feedback to the last answer
  /reset              forget the conversation
  /quit               leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := cliApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp(a)
		return chat(cmd.Context(), a.Engine(), cmd.InOrStdin(), cmd.OutOrStdout(), mustBool(cmd, "verbose"))
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the recorded interactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.LoadConfig()
		if cfg.DatabasePath == "" {
			return errors.New("FUTQA_DB_PATH is not set; nothing has been recorded")
		}
		cfg.HTTPAddr = ""
		app.SetupLogging("warn", cfg.LogFormat)
		a, err := app.New(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		totals, err := a.Store().Totals(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(totals)
		}

		out := cmd.OutOrStdout()
		rate := 0.0
		if totals.Interactions > 0 {
			rate = 100 * float64(totals.Successful) / float64(totals.Interactions)
		}
		fmt.Fprintf(out, "Interactions: %d (%.1f%% successful)\n", totals.Interactions, rate)
		fmt.Fprintf(out, "Feedback:     %d\n", totals.Feedback)
		printCounts(out, "By strategy", totals.ByStrategy)
		printCounts(out, "By category", totals.ByCategory)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Info())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "HTTP listen address (overrides FUTQA_HTTP_ADDR)")
	askCmd.Flags().Bool("json", false, "Print the full response as JSON")
	statsCmd.Flags().Bool("json", false, "Print totals as JSON")
	for _, c := range []*cobra.Command{askCmd, chatCmd} {
		c.Flags().BoolP("verbose", "v", false, "Show category, strategy and confidence")
	}
	rootCmd.AddCommand(serveCmd, askCmd, chatCmd, statsCmd, versionCmd)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cliApp builds an App for the one-shot and interactive commands: no HTTP
// server, and warnings only unless LOG_LEVEL asks for more.
func cliApp(ctx context.Context) (*app.App, error) {
	cfg := app.LoadConfig()
	cfg.HTTPAddr = ""
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}
	logger := app.SetupLogging(cfg.LogLevel, cfg.LogFormat)
	return app.New(ctx, cfg, logger)
}

func closeApp(a *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

func chat(ctx context.Context, eng *engine.Engine, in io.Reader, out io.Writer, verbose bool) error {
	mem := memory.New(0)
	ctx = backend.WithSession(ctx, "cli-"+uuid.NewString())
	var lastID string

	fmt.Fprintln(out, "FUT Minna CS assistant. Type /quit to leave.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/summary":
			fmt.Fprintln(out, mem.Summary())
			continue
		case line == "/reset":
			mem.Reset()
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		case strings.HasPrefix(line, "/feedback"):
			text := strings.TrimSpace(strings.TrimPrefix(line, "/feedback"))
			if lastID == "" || text == "" {
				fmt.Fprintln(out, "Usage: /feedback <text>, after an answer.")
				continue
			}
			if err := eng.Feedback(ctx, lastID, text); err != nil {
				fmt.Fprintf(out, "Could not record feedback: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "Thanks for the feedback.")
			continue
		}

		resp := eng.Ask(ctx, line, mem)
		lastID = resp.InteractionID
		printAnswer(out, resp, verbose)
	}
}

func printAnswer(out io.Writer, resp engine.Response, verbose bool) {
	fmt.Fprintln(out, strings.TrimSpace(resp.Answer))
	if verbose {
		fmt.Fprintf(out, "\n[%s via %s, confidence %.2f]\n", resp.Analysis.Category, resp.Strategy, resp.Confidence)
	}
}

func printCounts(out io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-20s %d\n", k, counts[k])
	}
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
