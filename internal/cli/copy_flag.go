package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	copyFlagTypeName            = "copy"
	invalidCopyFlagValueMessage = "invalid copy flag value '%s'"
)

// interpretCopyFlagLiteral maps the accepted boolean spellings of the copy
// flag. A bare "--copy" arrives as the empty string and means true.
func interpretCopyFlagLiteral(input string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "true", "t", "1", "yes", "y":
		return true, true
	case "false", "f", "0", "no", "n":
		return false, true
	}
	return false, false
}

// copyFlagValue is a pflag.Value that tolerates an omitted value.
type copyFlagValue struct {
	target *bool
}

func (value *copyFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	booleanValue, recognized := interpretCopyFlagLiteral(input)
	if !recognized {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	*value.target = booleanValue
	return nil
}

func (value *copyFlagValue) String() string {
	if value == nil || value.target == nil || !*value.target {
		return "false"
	}
	return "true"
}

func (value *copyFlagValue) Type() string {
	return copyFlagTypeName
}

// registerCopyFlag installs --copy as an optional-value flag: "--copy" alone
// enables copying, "--copy=false" disables it.
func registerCopyFlag(flagSet *pflag.FlagSet, target *bool) {
	if flagSet == nil || target == nil {
		return
	}
	*target = false
	flagSet.Var(&copyFlagValue{target: target}, copyFlagName, copyFlagDescription)
	if lookup := flagSet.Lookup(copyFlagName); lookup != nil {
		lookup.NoOptDefVal = "true"
	}
}
