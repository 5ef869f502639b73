package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ollama default url", Config{Provider: "ollama", Model: "llama3"}, false},
		{"huggingface with key", Config{Provider: "huggingface", APIKey: "hf_x", Model: "m"}, false},
		{"huggingface without key", Config{Provider: "huggingface"}, true},
		{"mock", Config{Provider: "mock"}, false},
		{"unknown", Config{Provider: "gpt-local"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLLMProvider(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, p)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}
