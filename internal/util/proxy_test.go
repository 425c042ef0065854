package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	tests := []struct {
		name       string
		httpProxy  string
		httpsProxy string
		noProxy    string
		target     string
		want       string
	}{
		{"https uses https proxy", "http://p1:3128", "http://p2:3128", "", "https://api.openai.com/v1", "http://p2:3128"},
		{"http uses http proxy", "http://p1:3128", "http://p2:3128", "", "http://ollama.internal:11434/api", "http://p1:3128"},
		{"https falls back to http proxy", "http://p1:3128", "", "", "https://api.anthropic.com", "http://p1:3128"},
		{"no_proxy bypasses", "http://p1:3128", "", "ollama.internal", "http://ollama.internal:11434/api", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := NewProxyFunc(tt.httpProxy, tt.httpsProxy, tt.noProxy)
			req, err := http.NewRequest(http.MethodGet, tt.target, nil)
			if err != nil {
				t.Fatal(err)
			}
			got, err := fn(req)
			if err != nil {
				t.Fatalf("proxy func: %v", err)
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("Expected direct connection, got %s", got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("Expected %s, got %v", tt.want, got)
			}
		})
	}
}
