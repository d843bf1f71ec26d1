package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petal-labs/anthropic-go/anthropic"
	"github.com/petal-labs/anthropic-go/cli/keystore"
	"github.com/petal-labs/anthropic-go/core"
)

// keystoreEntry is the keystore name the API key is stored under.
const keystoreEntry = "anthropic"

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

var (
	prompt      string
	system      string
	temperature float64
	maxTokens   int
	stream      bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Send a message request",
	Long: `Send a message request to the Anthropic API.

Examples:
  plume chat --model claude-sonnet-4-5 --prompt "Hello"
  plume chat --prompt "Hello" --stream
  plume chat --prompt "Hello" --json`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&prompt, "prompt", "", "User message (required)")
	chatCmd.Flags().StringVar(&system, "system", "", "System prompt")
	chatCmd.Flags().Float64Var(&temperature, "temperature", 0, "Temperature (0 = use default)")
	chatCmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Max tokens (0 = use config or 1024)")
	chatCmd.Flags().BoolVar(&stream, "stream", false, "Enable streaming output")

	_ = chatCmd.MarkFlagRequired("prompt")
}

func runChat(cmd *cobra.Command, args []string) error {
	modelID := GetModel()
	if modelID == "" {
		return exitWithCode(ExitValidation, fmt.Errorf("model required: use --model flag or set default_model in config"))
	}

	apiKey, err := resolveAPIKey()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	client := anthropic.New(apiKey, clientOptions()...)
	params := buildParams(modelID)

	ctx := context.Background()

	if stream {
		return runStreamingChat(ctx, client, params)
	}
	return runNonStreamingChat(ctx, client, params)
}

// resolveAPIKey checks the keystore first, then the environment.
func resolveAPIKey() (string, error) {
	ks, err := keystore.NewKeystore()
	if err == nil {
		if key, kerr := ks.Get(keystoreEntry); kerr == nil {
			return key, nil
		}
	}

	if key := os.Getenv(anthropic.DefaultAPIKeyEnvVar); key != "" {
		return key, nil
	}

	return "", fmt.Errorf("no API key found: run 'plume keys set %s' or set %s", keystoreEntry, anthropic.DefaultAPIKeyEnvVar)
}

func clientOptions() []anthropic.Option {
	var opts []anthropic.Option
	if cfg := GetConfig(); cfg != nil {
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		if cfg.APIVersion != "" {
			opts = append(opts, anthropic.WithVersion(cfg.APIVersion))
		}
	}
	return opts
}

func buildParams(modelID string) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     modelID,
		MaxTokens: 1024,
		Messages:  []anthropic.MessageParam{anthropic.UserMessage(prompt)},
	}

	if cfg := GetConfig(); cfg != nil {
		if cfg.MaxTokens > 0 {
			params.MaxTokens = cfg.MaxTokens
		}
		if cfg.SystemPrompt != "" {
			params.System = cfg.SystemPrompt
		}
	}

	if maxTokens > 0 {
		params.MaxTokens = maxTokens
	}
	if system != "" {
		params.System = system
	}
	if temperature > 0 {
		params.Temperature = &temperature
	}

	return params
}

func runNonStreamingChat(ctx context.Context, client *anthropic.Client, params anthropic.MessageNewParams) error {
	msg, err := client.Messages().Create(ctx, params)
	if err != nil {
		return handleChatError(err)
	}

	if IsJSONOutput() {
		return outputJSON(msg)
	}

	fmt.Printf("> %s\n", prompt)
	fmt.Println(msg.Text())

	if IsVerbose() {
		printUsage(msg.Usage)
	}
	return nil
}

func runStreamingChat(ctx context.Context, client *anthropic.Client, params anthropic.MessageNewParams) error {
	msgStream, err := client.Messages().Stream(ctx, params)
	if err != nil {
		return handleChatError(err)
	}
	defer msgStream.Close()

	if IsJSONOutput() {
		// Accumulate for JSON output
		if _, err := msgStream.CollectText(); err != nil {
			return handleChatError(err)
		}
		final := msgStream.Final()
		if final == nil {
			return handleChatError(core.StreamError("stream ended before message start"))
		}
		return outputJSON(final)
	}

	// Stream text output
	fmt.Printf("> %s\n", prompt)

	for msgStream.Next() {
		ev := msgStream.Event()
		if ev.Type == anthropic.EventTypeContentBlockDelta && ev.Delta.Type == anthropic.DeltaTypeText {
			fmt.Print(ev.Delta.Text)
		}
	}

	// Final newline after streamed text
	fmt.Println()

	if err := msgStream.Err(); err != nil {
		return handleChatError(err)
	}

	if IsVerbose() {
		if final := msgStream.Final(); final != nil {
			printUsage(final.Usage)
		}
	}

	return nil
}

func printUsage(usage anthropic.Usage) {
	fmt.Fprintf(os.Stderr, "Usage: %d input + %d output tokens\n", usage.InputTokens, usage.OutputTokens)
}

func handleChatError(err error) error {
	// Network errors
	if errors.Is(err, core.ErrConnection) || errors.Is(err, core.ErrTimeout) {
		if IsJSONOutput() {
			outputSimpleErrorJSON("network_error", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: network error: %v\n", err)
		}
		return exitWithCode(ExitNetwork, err)
	}

	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		if IsJSONOutput() {
			outputErrorJSON(apiErr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", apiErr.Message)
			if apiErr.RequestID != "" {
				fmt.Fprintf(os.Stderr, "  Request ID: %s\n", apiErr.RequestID)
			}
		}
		return exitWithCode(ExitAPI, err)
	}

	// Generic error
	if IsJSONOutput() {
		outputSimpleErrorJSON("error", err.Error())
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitWithCode(ExitAPI, err)
}

func outputJSON(msg *anthropic.Message) error {
	output := map[string]interface{}{
		"id":          msg.ID,
		"model":       msg.Model,
		"stop_reason": msg.StopReason,
		"output":      msg.Text(),
		"usage": map[string]int{
			"input_tokens":  msg.Usage.InputTokens,
			"output_tokens": msg.Usage.OutputTokens,
		},
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputErrorJSON(apiErr *core.APIError) {
	output := map[string]interface{}{
		"error": map[string]interface{}{
			"type":       apiErr.Code,
			"message":    apiErr.Message,
			"status":     apiErr.Status,
			"request_id": apiErr.RequestID,
		},
	}

	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

func outputSimpleErrorJSON(errType, message string) {
	output := map[string]interface{}{
		"error": map[string]interface{}{
			"type":    errType,
			"message": message,
		},
	}

	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}
