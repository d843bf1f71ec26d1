package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSecretRedaction(t *testing.T) {
	secret := NewSecret("sk-ant-supersecret")

	if got := fmt.Sprint(secret); got != "[REDACTED]" {
		t.Errorf("Sprint = %q, want '[REDACTED]'", got)
	}
	if got := fmt.Sprintf("%#v", secret); strings.Contains(got, "supersecret") {
		t.Errorf("GoString leaked the value: %q", got)
	}

	data, err := json.Marshal(secret)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(data) != `"[REDACTED]"` {
		t.Errorf("MarshalJSON = %s, want redacted", data)
	}

	text, err := secret.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText error = %v", err)
	}
	if string(text) != "[REDACTED]" {
		t.Errorf("MarshalText = %s, want redacted", text)
	}
}

func TestSecretExpose(t *testing.T) {
	secret := NewSecret("sk-ant-abc")
	if secret.Expose() != "sk-ant-abc" {
		t.Errorf("Expose = %q, want original value", secret.Expose())
	}
	if secret.IsEmpty() {
		t.Error("IsEmpty = true for non-empty secret")
	}
	if !NewSecret("").IsEmpty() {
		t.Error("IsEmpty = false for empty secret")
	}
}
