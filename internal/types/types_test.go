package types_test

import (
	"reflect"
	"testing"

	"github.com/treeline-dev/treeline/internal/types"
)

func TestIgnoreSetMatchesExactNamesOnly(t *testing.T) {
	set := types.NewIgnoreSet([]string{"node_modules", ".git", "node_modules", ""})

	if set.Len() != 2 {
		t.Fatalf("expected duplicates and empty names discarded, got %d members", set.Len())
	}
	if !set.Contains("node_modules") || !set.Contains(".git") {
		t.Fatal("expected exact members to match")
	}
	for _, nonMember := range []string{"node_module", "NODE_MODULES", "node_modules/", "*.git", ""} {
		if set.Contains(nonMember) {
			t.Fatalf("expected %q not to match", nonMember)
		}
	}
	if !reflect.DeepEqual(set.Names(), []string{".git", "node_modules"}) {
		t.Fatalf("expected sorted member names, got %v", set.Names())
	}
}

func TestNewIgnoreSetNilInput(t *testing.T) {
	set := types.NewIgnoreSet(nil)
	if set.Len() != 0 {
		t.Fatalf("expected an empty set, got %d members", set.Len())
	}
	if set.Contains("anything") {
		t.Fatal("empty set must not match")
	}
}
