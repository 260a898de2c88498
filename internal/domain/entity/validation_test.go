package entity

import (
	"errors"
	"net"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://example.com/image.jpg", wantErr: false},
		{name: "valid http URL", url: "http://example.com/image.jpg", wantErr: false},
		{name: "valid URL with port", url: "https://cdn.example.com:8080/a.png", wantErr: false},
		{name: "valid URL with query", url: "https://example.com/img?w=640&h=480", wantErr: false},
		{name: "hostname is not resolved", url: "https://localhost.example/a.png", wantErr: false},
		{name: "empty URL", url: "", wantErr: true},
		{name: "invalid scheme - ftp", url: "ftp://example.com/a.png", wantErr: true},
		{name: "invalid scheme - javascript", url: "javascript:alert(1)", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
		{name: "loopback literal", url: "http://127.0.0.1/a.png", wantErr: true},
		{name: "metadata endpoint literal", url: "http://169.254.169.254/latest", wantErr: true},
		{name: "private literal", url: "https://10.1.2.3/a.png", wantErr: true},
		{name: "too long", url: "https://example.com/" + string(make([]byte, maxURLLength)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL_ErrorTypes(t *testing.T) {
	t.Run("empty URL returns ValidationError", func(t *testing.T) {
		err := ValidateURL("")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %T", err)
		}
		if vErr.Field != "url" {
			t.Errorf("Field = %q, want url", vErr.Field)
		}
	})

	t.Run("validation errors match ErrValidationFailed", func(t *testing.T) {
		err := ValidateURL("ftp://example.com")
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected errors.Is(err, ErrValidationFailed), got %v", err)
		}
	})
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{email: "editor@pulsepoint.ng", wantErr: false},
		{email: "first.last@example.com", wantErr: false},
		{email: "a-b@mail.example.org", wantErr: false},
		{email: "", wantErr: true},
		{email: "no-at-sign.example.com", wantErr: true},
		{email: "user@", wantErr: true},
		{email: "user@example", wantErr: true},
		{email: "user@example.museum", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip        string
		isPrivate bool
	}{
		{ip: "127.0.0.1", isPrivate: true},
		{ip: "::1", isPrivate: true},
		{ip: "169.254.169.254", isPrivate: true},
		{ip: "fe80::1", isPrivate: true},
		{ip: "10.123.45.67", isPrivate: true},
		{ip: "172.20.10.5", isPrivate: true},
		{ip: "192.168.1.1", isPrivate: true},
		{ip: "0.0.0.0", isPrivate: true},
		{ip: "8.8.8.8", isPrivate: false},
		{ip: "172.32.0.1", isPrivate: false},
		{ip: "2001:4860:4860::8888", isPrivate: false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("failed to parse IP: %s", tt.ip)
			}
			if got := isPrivateIP(ip); got != tt.isPrivate {
				t.Errorf("isPrivateIP(%s) = %v, want %v", tt.ip, got, tt.isPrivate)
			}
		})
	}
}
