package config

import (
	"fmt"
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v3"
)

func TestSecretString_Marshal(t *testing.T) {
	tests := []struct {
		name     string
		input    SecretString
		wantJSON string
		wantYAML any
	}{
		{name: "empty", input: "", wantJSON: "null", wantYAML: nil},
		{name: "short", input: "x", wantJSON: `"` + SecretStringValue + `"`, wantYAML: SecretStringValue},
		{name: "bearer", input: "Bearer abcdef", wantJSON: `"` + SecretStringValue + `"`, wantYAML: SecretStringValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js, err := tt.input.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(js) != tt.wantJSON {
				t.Errorf("MarshalJSON() = %s, want %s", js, tt.wantJSON)
			}
			y, err := tt.input.MarshalYAML()
			if err != nil {
				t.Fatalf("MarshalYAML() error = %v", err)
			}
			if y != tt.wantYAML {
				t.Errorf("MarshalYAML() = %v, want %v", y, tt.wantYAML)
			}
		})
	}
}

func TestSecretString_NotLeakedByFormatting(t *testing.T) {
	s := SecretString("Bearer top-secret")
	if got := fmt.Sprintf("%v", s); strings.Contains(got, "top-secret") {
		t.Errorf("formatted value leaks secret: %q", got)
	}
}

func TestSecretString_HiddenInConfigDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Document.Images.Remote.Authorization = "Bearer top-secret"

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if strings.Contains(string(data), "top-secret") {
		t.Error("configuration dump leaks authorization header")
	}

	var back map[string]any
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("dump is not valid yaml: %v", err)
	}
}
