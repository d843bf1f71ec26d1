package commands

import (
	"errors"
	"testing"

	"github.com/petal-labs/anthropic-go/cli/config"
	"github.com/petal-labs/anthropic-go/core"
)

func resetChatFlags() {
	prompt = ""
	system = ""
	temperature = 0
	maxTokens = 0
	stream = false
	cfg = &config.Config{}
	jsonOutput = false
}

func TestBuildParamsDefaults(t *testing.T) {
	resetChatFlags()
	prompt = "hello"

	params := buildParams("claude-sonnet-4-5")
	if params.Model != "claude-sonnet-4-5" {
		t.Errorf("Model = %q", params.Model)
	}
	if params.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", params.MaxTokens)
	}
	if params.Temperature != nil {
		t.Error("Temperature set without flag")
	}
	if len(params.Messages) != 1 || params.Messages[0].Content[0].Text != "hello" {
		t.Errorf("Messages = %+v", params.Messages)
	}
}

func TestBuildParamsFlagOverridesConfig(t *testing.T) {
	resetChatFlags()
	prompt = "hello"
	cfg = &config.Config{MaxTokens: 2048, SystemPrompt: "from config"}
	maxTokens = 512
	system = "from flag"
	temperature = 0.7

	params := buildParams("claude-sonnet-4-5")
	if params.MaxTokens != 512 {
		t.Errorf("MaxTokens = %d, want flag value 512", params.MaxTokens)
	}
	if params.System != "from flag" {
		t.Errorf("System = %q", params.System)
	}
	if params.Temperature == nil || *params.Temperature != 0.7 {
		t.Errorf("Temperature = %v", params.Temperature)
	}
}

func TestBuildParamsConfigFallback(t *testing.T) {
	resetChatFlags()
	prompt = "hello"
	cfg = &config.Config{MaxTokens: 2048, SystemPrompt: "from config"}

	params := buildParams("claude-sonnet-4-5")
	if params.MaxTokens != 2048 {
		t.Errorf("MaxTokens = %d, want config value 2048", params.MaxTokens)
	}
	if params.System != "from config" {
		t.Errorf("System = %q", params.System)
	}
}

func TestHandleChatErrorExitCodes(t *testing.T) {
	resetChatFlags()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"api error", core.FromStatus(429, nil, "", 0), ExitAPI},
		{"connection", core.NetworkError(errors.New("refused")), ExitNetwork},
		{"timeout", core.TimeoutError(errors.New("deadline")), ExitNetwork},
		{"generic", errors.New("boom"), ExitAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handleChatError(tt.err)
			var ec *exitError
			if !errors.As(err, &ec) {
				t.Fatalf("error = %v, want *exitError", err)
			}
			if ec.ExitCode() != tt.code {
				t.Errorf("ExitCode() = %d, want %d", ec.ExitCode(), tt.code)
			}
		})
	}
}
