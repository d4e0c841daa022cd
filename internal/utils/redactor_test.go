package utils

import (
	"net/http"
	"strings"
	"testing"
)

func TestHeaderRedactor_Redact(t *testing.T) {
	redactor := NewHeaderRedactor()

	t.Run("敏感头部脱敏", func(t *testing.T) {
		tests := []struct {
			name  string
			value string
			want  string
		}{
			{"Authorization", "Bearer secret-token-12345", "Bearer ***"},
			{"X-Token", "longtoken123456789", "long***6789"},
			{"X-Api-Key", "key12345678", "key1***5678"},
			{"Cookie", "session=abc", "sess***=abc"},
			{"X-Secret", "short", "***"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				headers := http.Header{}
				headers.Set(tt.name, tt.value)

				if !redactor.IsSensitiveHeader(tt.name) {
					t.Fatalf("应该被识别为敏感头部: %s", tt.name)
				}
				got := redactor.Redact(headers)[http.CanonicalHeaderKey(tt.name)]
				if got != tt.want {
					t.Errorf("期望 %q, 实际 %q", tt.want, got)
				}
			})
		}
	})

	t.Run("非敏感头部不应脱敏", func(t *testing.T) {
		headers := http.Header{
			"User-Agent": []string{"Mozilla/5.0"},
			"Accept":     []string{"*/*"},
			"X-Custom":   []string{"value"},
		}
		redacted := redactor.Redact(headers)
		for name, values := range headers {
			if redacted[name] != values[0] {
				t.Errorf("非敏感头部不应被脱敏: %s", name)
			}
		}
	})

	t.Run("空值脱敏", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("Authorization", "")
		if got := redactor.Redact(headers)["Authorization"]; got != "***" {
			t.Errorf("空敏感头部应该显示为***, 得到: %s", got)
		}
	})
}

func TestHeaderRedactor_AuthSchemes(t *testing.T) {
	redactor := NewHeaderRedactor()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"Basic认证", "Basic dXNlcjpwYXNz", "Basic ***"},
		{"小写bearer", "bearer abc", "bearer ***"},
		{"Token认证", "Token 0123456789", "Token ***"},
		{"方案无凭据", "Basic", "***"},
		{"非方案前缀", "Basicabcdefgh", "Basi***efgh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactor.RedactHeaderValue("Authorization", tt.value)
			if got != tt.want {
				t.Errorf("期望 %q, 实际 %q", tt.want, got)
			}
			if strings.HasSuffix(tt.want, " ***") && strings.Contains(got, tt.value[strings.IndexByte(tt.value, ' ')+1:]) {
				t.Errorf("输出中不应包含凭据: %q", got)
			}
		})
	}
}
