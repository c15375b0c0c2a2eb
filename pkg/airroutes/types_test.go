package airroutes_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method airroutes.AuthMethod
		want   string
	}{
		{airroutes.AuthMethodStandard, "Standard"},
		{airroutes.AuthMethodAWSIAM, "AWS IAM"},
		{airroutes.AuthMethodGoogleIAM, "Google IAM"},
		{airroutes.AuthMethodAzureEntraID, "Azure Entra ID"},
		{airroutes.AuthMethod(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.method.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthMethod_IsValid(t *testing.T) {
	if !airroutes.AuthMethodAzureEntraID.IsValid() {
		t.Error("AuthMethodAzureEntraID should be valid")
	}
	if airroutes.AuthMethod(-1).IsValid() {
		t.Error("AuthMethod(-1) should be invalid")
	}
}

func TestConnectionConfig_WithDatabase(t *testing.T) {
	base := &airroutes.ConnectionConfig{
		Host:             "localhost",
		Database:         "postgres",
		AdditionalParams: map[string]string{"search_path": "public"},
	}

	target := base.WithDatabase("airroutes")
	target.AdditionalParams["search_path"] = "other"

	if base.Database != "postgres" {
		t.Errorf("base database changed to %q", base.Database)
	}
	if target.Database != "airroutes" {
		t.Errorf("target database = %q, want airroutes", target.Database)
	}
	if base.AdditionalParams["search_path"] != "public" {
		t.Error("AdditionalParams shared between clones")
	}
}

func TestProvisionConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     airroutes.ProvisionConfig
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  airroutes.ProvisionConfig{Connection: &airroutes.ConnectionConfig{Database: "airroutes"}},
		},
		{
			name:    "missing connection",
			cfg:     airroutes.ProvisionConfig{},
			wantErr: true,
		},
		{
			name:    "missing database",
			cfg:     airroutes.ProvisionConfig{Connection: &airroutes.ConnectionConfig{}},
			wantErr: true,
		},
		{
			name: "force without overwrite",
			cfg: airroutes.ProvisionConfig{
				Connection: &airroutes.ConnectionConfig{Database: "airroutes"},
				Force:      true,
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			cfg: airroutes.ProvisionConfig{
				Connection: &airroutes.ConnectionConfig{Database: "airroutes"},
				Timeout:    -time.Second,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, airroutes.ErrInvalidConfig) {
				t.Errorf("Validate() error should wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfig_Validate(t *testing.T) {
	conn := &airroutes.ConnectionConfig{Database: "airroutes"}

	tests := []struct {
		name    string
		cfg     airroutes.LoadConfig
		wantErr bool
	}{
		{"valid", airroutes.LoadConfig{Connection: conn, DataPath: "./data"}, false},
		{"s3 path", airroutes.LoadConfig{Connection: conn, DataPath: "s3://bucket/openflights"}, false},
		{"missing data path", airroutes.LoadConfig{Connection: conn}, true},
		{"missing connection", airroutes.LoadConfig{DataPath: "./data"}, true},
		{"table with resume", airroutes.LoadConfig{Connection: conn, DataPath: "./data", Table: "Routes", Resume: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, airroutes.ErrInvalidConfig) {
				t.Errorf("Validate() error should wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestResetConfig_Validate(t *testing.T) {
	if err := (&airroutes.ResetConfig{}).Validate(); !errors.Is(err, airroutes.ErrInvalidConfig) {
		t.Errorf("empty ResetConfig should be invalid, got %v", err)
	}
	cfg := airroutes.ResetConfig{Connection: &airroutes.ConnectionConfig{Database: "airroutes"}}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestVerifyConfig_Validate(t *testing.T) {
	conn := &airroutes.ConnectionConfig{Database: "airroutes"}

	if err := (&airroutes.VerifyConfig{Connection: conn, Samples: 5}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := (&airroutes.VerifyConfig{Connection: conn, Samples: -1}).Validate(); !errors.Is(err, airroutes.ErrInvalidConfig) {
		t.Errorf("negative samples should be invalid, got %v", err)
	}
	if err := (&airroutes.VerifyConfig{}).Validate(); !errors.Is(err, airroutes.ErrInvalidConfig) {
		t.Errorf("empty VerifyConfig should be invalid, got %v", err)
	}
}

func TestVerifyResult_Failed(t *testing.T) {
	r := &airroutes.VerifyResult{Checks: []airroutes.CheckOutcome{
		{Name: "ok", Violations: 0},
		{Name: "broken", Violations: 3},
	}}

	failed := r.Failed()
	if len(failed) != 1 || failed[0].Name != "broken" {
		t.Errorf("Failed() = %v, want only 'broken'", failed)
	}
}
