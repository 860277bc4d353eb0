package utils_test

import (
	"testing"

	"github.com/treeline-dev/treeline/internal/utils"
)

func TestGetApplicationVersionReturnsNonEmptyString(t *testing.T) {
	applicationVersion := utils.GetApplicationVersion()
	if applicationVersion == "" {
		t.Fatal("expected a non-empty version string")
	}
}
