// Package config provides configuration management for the Acca Engine application.
package config

import (
	"os"
	"strings"
	"testing"
)

const (
	validConfigPath     = "testdata/valid_config.yaml"
	expansionConfigPath = "testdata/expansion_config.yaml"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.Name != "acca-engine" {
		t.Errorf("expected app name 'acca-engine', got '%s'", cfg.App.Name)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected environment 'development', got '%s'", cfg.App.Environment)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("expected database host 'localhost', got '%s'", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected database port 5432, got %d", cfg.Database.Port)
	}
	if len(cfg.Engine.Leagues) != 3 {
		t.Errorf("expected 3 configured leagues, got %d", len(cfg.Engine.Leagues))
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load("testdata/nonexistent_config.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("ACCA_ENGINE_APP_NAME", "test-app")
	defer os.Unsetenv("ACCA_ENGINE_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.Name != "test-app" {
		t.Errorf("expected app name 'test-app' from environment, got '%s'", cfg.App.Name)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in the config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != "expanded_secret_value" {
		t.Errorf("expected password from environment expansion, got '%s'", cfg.Database.Password)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.App.Environment = "invalid"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidCron tests validation of malformed cron expressions
func TestValidateInvalidCron(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Scheduler.RefreshCron = "not a cron"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid cron expression")
	}
	if !strings.Contains(err.Error(), "cron") {
		t.Errorf("expected cron validation error, got: %v", err)
	}
}

// TestValidateProductionRequiresSSL tests the production SSL cross-field rule
func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for disabled SSL in production")
	}
}

// TestValidateStreamURLRequired tests the stream cross-field rule
func TestValidateStreamURLRequired(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.OddsFeed.StreamEnabled = true
	cfg.OddsFeed.StreamURL = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for missing stream URL")
	}
}

// TestValidateSafetyFloorCeiling tests the persistence floor cross-field rule
func TestValidateSafetyFloorCeiling(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Engine.MinSafetyToPersist = 95
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for safety floor above 80")
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("expected DSN to start with 'postgres://', got '%s'", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("expected DSN to carry ssl mode, got '%s'", dsn)
	}
}

// TestEnvironmentChecks tests the environment predicate helpers
func TestEnvironmentChecks(t *testing.T) {
	dev := &Config{App: AppConfig{Environment: "development"}}
	if !dev.IsDevelopment() || dev.IsProduction() || dev.IsStaging() {
		t.Error("development environment predicates inconsistent")
	}

	prod := &Config{App: AppConfig{Environment: "production"}}
	if !prod.IsProduction() || prod.IsDevelopment() {
		t.Error("production environment predicates inconsistent")
	}

	staging := &Config{App: AppConfig{Environment: "staging"}}
	if !staging.IsStaging() || staging.IsProduction() {
		t.Error("staging environment predicates inconsistent")
	}
}

// TestLoadWithDefaults tests defaulting when no config file exists
func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults("testdata/nonexistent_config.yaml")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("expected default environment 'development', got '%s'", cfg.App.Environment)
	}
	if cfg.Engine.PickHorizonDays != 3 {
		t.Errorf("expected default pick horizon 3, got %d", cfg.Engine.PickHorizonDays)
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
}

// TestOverlaySecrets tests applying a secrets overlay to the config
func TestOverlaySecrets(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	overlaySecretsOnConfig(cfg, &SecretsOverlay{
		DatabasePassword: "vault-password",
		OddsFeedAPIKey:   "vault-odds-key",
	})

	if cfg.Database.Password != "vault-password" {
		t.Errorf("expected overlaid database password, got '%s'", cfg.Database.Password)
	}
	if cfg.OddsFeed.APIKey != "vault-odds-key" {
		t.Errorf("expected overlaid odds feed key, got '%s'", cfg.OddsFeed.APIKey)
	}
	if cfg.PredictionFeed.APIKey != "local-prediction-key" {
		t.Errorf("empty overlay fields must not clobber config, got '%s'", cfg.PredictionFeed.APIKey)
	}
}
