package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/shopspring/decimal"
)

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		weight, rate string
		want         int64
	}{
		{"4.8", "10", 48},
		{"5", "10", 50},
		{"4.85", "10", 48},
		{"0.99", "1", 0},
		{"3", "0", 0},
		{"2.5", "3.3", 8},
		{"0.1", "0.1", 0},
		{"1000", "12.75", 12750},
	}
	for _, tt := range tests {
		got, err := CalculatePoints(decimal.RequireFromString(tt.weight), decimal.RequireFromString(tt.rate))
		if err != nil {
			t.Errorf("CalculatePoints(%s, %s) error: %v", tt.weight, tt.rate, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CalculatePoints(%s, %s) = %d, want %d", tt.weight, tt.rate, got, tt.want)
		}
	}
}

func TestCalculatePoints_OutOfRange(t *testing.T) {
	tests := []struct {
		weight, rate string
	}{
		{"1000000000000000000", "10"},
		{"922337203685477580.8", "10"},
		{"1e40", "1"},
		{"5", "-1"},
	}
	for _, tt := range tests {
		got, err := CalculatePoints(decimal.RequireFromString(tt.weight), decimal.RequireFromString(tt.rate))
		if !errors.Is(err, ErrPointsOutOfRange) {
			t.Errorf("CalculatePoints(%s, %s) = %d, %v, want ErrPointsOutOfRange", tt.weight, tt.rate, got, err)
		}
	}

	// the largest representable award still fits
	got, err := CalculatePoints(decimal.RequireFromString("922337203685477580.6"), decimal.NewFromInt(10))
	if err != nil || got != 9223372036854775806 {
		t.Errorf("CalculatePoints(max-1) = %d, %v", got, err)
	}
}

func TestGenerateVerificationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateVerificationCode()
		if err != nil {
			t.Fatalf("GenerateVerificationCode() error: %v", err)
		}
		if len(code) != VerificationCodeLength {
			t.Fatalf("len(%q) = %d, want %d", code, len(code), VerificationCodeLength)
		}
		if strings.Trim(code, "0123456789") != "" {
			t.Fatalf("code %q has non-digit characters", code)
		}
		seen[code] = true
	}
	if len(seen) < 190 {
		t.Errorf("only %d distinct codes in 200 draws", len(seen))
	}
}

func TestJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", models.RoleCollector, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error: %v", err)
	}
	claims, err := ValidateJWT(token, "secret")
	if err != nil {
		t.Fatalf("ValidateJWT() error: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != models.RoleCollector {
		t.Errorf("claims = %+v, want user-1 COLLECTOR", claims)
	}
}

func TestJWT_Rejects(t *testing.T) {
	good, _ := GenerateJWT("user-1", models.RoleDonor, "secret", time.Hour)
	expired, _ := GenerateJWT("user-1", models.RoleDonor, "secret", -time.Minute)
	badRole, _ := GenerateJWT("user-1", models.Role("PIRATE"), "secret", time.Hour)

	tests := []struct {
		name, token, secret string
	}{
		{"wrong secret", good, "other"},
		{"expired", expired, "secret"},
		{"unknown role", badRole, "secret"},
		{"garbage", "not.a.token", "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateJWT(tt.token, tt.secret); err == nil {
				t.Error("ValidateJWT() error = nil, want error")
			}
		})
	}
	if _, err := GenerateJWT("user-1", models.RoleDonor, "", time.Hour); err == nil {
		t.Error("GenerateJWT(empty secret) error = nil, want error")
	}
}
