package internal

import (
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !cfg.Mongo.InMemory() || !cfg.Blobs.InMemory() {
		t.Fatal("default config should select the in-memory backends")
	}
	if cfg.Auth.AuthEnabled() {
		t.Fatal("default config should not require a passcode")
	}
	if got := cfg.App.HTTP.Address(); got != ":8080" {
		t.Fatalf("address = %q", got)
	}
}

func TestHTTPPortValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 0 accepted")
	}
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port above range accepted")
	}
}

func TestMongoRequiresDatabaseWhenRemote(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Mongo.URI = "mongodb://localhost:27017"
	cfg.Mongo.Database = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("remote mongo without database accepted")
	}
}

func TestBlobCredentialsRequiredWhenRemote(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Blobs.Endpoint = "minio:9000"
	if err := cfg.Validate(); err == nil {
		t.Fatal("remote blobs without credentials accepted")
	}
	cfg.Blobs.AccessKey = "key"
	cfg.Blobs.SecretKey = "secret"
	cfg.Blobs.Bucket = "docs"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("complete blob config rejected: %v", err)
	}
}

func TestAuthModeValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = AuthModePasscode
	if err := cfg.Validate(); err == nil {
		t.Fatal("passcode mode with empty passcode accepted")
	}
	cfg.Auth.Passcode = "hunter2"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("passcode mode rejected: %v", err)
	}
	if !cfg.Auth.AuthEnabled() {
		t.Fatal("passcode mode not reported as enabled")
	}

	cfg.Auth.Mode = "totp"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown auth mode accepted")
	}

	// Empty mode normalises to disabled.
	cfg.Auth = AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode rejected: %v", err)
	}
	if cfg.Auth.Mode != AuthModeDisabled {
		t.Fatalf("mode = %q, want %q", cfg.Auth.Mode, AuthModeDisabled)
	}
}
