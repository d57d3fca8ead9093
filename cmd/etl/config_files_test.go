package main

import (
	"path/filepath"
	"testing"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/config"
)

// TestShippedConfigsAreValid keeps the sample configs loadable.
func TestShippedConfigsAreValid(t *testing.T) {
	for _, name := range []string{"etl.yaml", "etl.sqlite.json"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := config.Load(filepath.Join("..", "..", "configs", name))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			for _, iss := range config.Validate(cfg) {
				if iss.Severity == config.SeverityError {
					t.Fatalf("issue: %v", iss)
				}
			}
		})
	}
}
