// Command askai is a terminal chat client for hosted AI inference APIs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/xostack/askai"
	"github.com/xostack/askai/chat"
	"github.com/xostack/askai/config"
	"github.com/xostack/askai/credentials"
)

var (
	flagProvider    string
	flagModel       string
	flagSystem      string
	flagInteractive bool
	flagConfigure   bool
	flagDebug       bool
	flagConfigPath  string
)

var rootCmd = &cobra.Command{
	Use:   "askai [query...]",
	Short: "Chat with AI models in your terminal",
	Long: `askai forwards your text to a hosted AI inference API and prints the
response. With a query it performs a single exchange; without one (or with
--interactive) it starts a chat loop that keeps the conversation history for
the lifetime of the run.

Providers: groq (default), openai, anthropic, gemini, ollama.`,
	Example: `  askai "Explain goroutines"
  askai -p anthropic -m claude-3-opus-20240229 "Review this design"
  askai -p openai -i
  askai --system "You are a poet" -i
  askai --configure`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagProvider, "provider", "p", "", "AI provider to use (default from config, else groq)")
	rootCmd.Flags().StringVarP(&flagModel, "model", "m", "", "Specific model to use")
	rootCmd.Flags().StringVarP(&flagSystem, "system", "s", "", "System prompt")
	rootCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Start interactive chat mode")
	rootCmd.Flags().BoolVar(&flagConfigure, "configure", false, "Configure API keys")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable verbose logging")
	rootCmd.Flags().StringVar(&flagConfigPath, "config", "", "Path to settings file (default: XDG config dir)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return err
	}

	if flagConfigure {
		return runConfigure(store)
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := context.Background()
	provider, err := askai.GetProvider(ctx, cfg, store, flagProvider, flagModel, flagDebug)
	if err != nil {
		return err
	}

	session := chat.NewSession(provider, flagSystem)
	defer session.Close()

	if flagInteractive || len(args) == 0 {
		name := flagProvider
		if name == "" {
			name = cfg.DefaultProvider
		}
		return runInteractive(ctx, session, name, cfg.ModelFor(name, flagModel))
	}

	query := strings.Join(args, " ")
	reply, err := session.Send(ctx, query)
	if err != nil {
		return err
	}
	fmt.Println(reply)
	return nil
}

func loadSettings() (config.Config, error) {
	if flagConfigPath != "" {
		return config.LoadFromFile(flagConfigPath)
	}
	return config.Load()
}

// runInteractive drives the chat read-loop. A provider failure is reported
// and the loop continues; only exit/quit or end-of-input leave it.
func runInteractive(ctx context.Context, session *chat.Session, providerName, model string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Printf("=== askai (%s - %s) ===\n", strings.ToUpper(providerName), model)
	fmt.Println("Type 'exit' or 'quit' to end, 'clear' to reset the conversation")

	for {
		input, err := line.Prompt("\nyou> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "clear":
			session.Clear()
			fmt.Println("Conversation cleared.")
			continue
		}

		reply, err := session.Send(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n", reply)
	}
}

// runConfigure interactively collects API keys and persists them with
// owner-only permissions. Blank input keeps the existing value.
func runConfigure(store *credentials.Store) error {
	existing, err := store.Keys()
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("=== askai configuration ===")
	fmt.Println("Enter your API keys (press Enter to skip):")

	providers := []string{"groq", "openai", "anthropic", "gemini"}
	saved := 0
	for _, name := range providers {
		prompt := fmt.Sprintf("%s API key [%s]: ", name, maskKey(existing[name]))
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if err := store.Persist(name, input); err != nil {
			return err
		}
		saved++
	}

	if saved == 0 {
		fmt.Println("No keys changed.")
		return nil
	}
	fmt.Printf("Configuration saved to %s\n", store.Path())
	return nil
}

// maskKey shows only the first few characters of a stored key.
func maskKey(key string) string {
	if key == "" {
		return "not set"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:8] + "..."
}
