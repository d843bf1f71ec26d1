package keystore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func tempKeystore(t *testing.T) (*FileKeystore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.enc")
	return NewFileKeystoreWithKey(path, []byte("test-master-key")), path
}

func TestKeystoreRoundTrip(t *testing.T) {
	ks, _ := tempKeystore(t)

	if err := ks.Set("anthropic", "sk-ant-test"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := ks.Get("anthropic")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "sk-ant-test" {
		t.Errorf("Get() = %q", got)
	}
}

func TestKeystoreGetMissing(t *testing.T) {
	ks, _ := tempKeystore(t)

	_, err := ks.Get("nope")
	if _, ok := err.(*ErrKeyNotFound); !ok {
		t.Errorf("error = %v, want *ErrKeyNotFound", err)
	}
}

func TestKeystoreDelete(t *testing.T) {
	ks, _ := tempKeystore(t)

	if err := ks.Set("anthropic", "value"); err != nil {
		t.Fatal(err)
	}
	if err := ks.Delete("anthropic"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := ks.Get("anthropic"); err == nil {
		t.Error("Get() after Delete() succeeded")
	}

	if err := ks.Delete("anthropic"); err == nil {
		t.Error("Delete() of missing key succeeded")
	}
}

func TestKeystoreList(t *testing.T) {
	ks, _ := tempKeystore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := ks.Set(name, "v"); err != nil {
			t.Fatal(err)
		}
	}

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestKeystoreFileNotPlaintext(t *testing.T) {
	ks, path := tempKeystore(t)

	if err := ks.Set("anthropic", "sk-ant-visible"); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw[:4]) != magicHeader {
		t.Errorf("file magic = %q", raw[:4])
	}
	if bytes.Contains(raw, []byte("sk-ant-visible")) {
		t.Error("key value appears in plaintext on disk")
	}
}

func TestKeystoreWrongMasterKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.enc")
	ks := NewFileKeystoreWithKey(path, []byte("right"))
	if err := ks.Set("anthropic", "value"); err != nil {
		t.Fatal(err)
	}

	other := NewFileKeystoreWithKey(path, []byte("wrong"))
	if _, err := other.Get("anthropic"); err == nil {
		t.Error("Get() with wrong master key succeeded")
	}
}

func TestKeystoreTamperDetection(t *testing.T) {
	ks, path := tempKeystore(t)
	if err := ks.Set("anthropic", "value"); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	raw[len(raw)-1] ^= 0xFF
	if err := os.WriteFile(path, raw, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := ks.Get("anthropic"); err == nil {
		t.Error("Get() on tampered file succeeded")
	}
}
