package policy

import (
	"fmt"
	"strings"
)

type optionKind int

const (
	kindString optionKind = iota
	kindBool
)

// option describes one recognized configuration key. The set is closed:
// any key not listed here is a syntax error. String options use setString,
// boolean options use setBool.
type option struct {
	key       string
	kind      optionKind
	nullable  bool
	setString func(p *Policy, v string)
	setBool   func(p *Policy, b bool)
}

var options = []option{
	{
		key:       "basedir",
		setString: func(p *Policy, v string) { p.BaseDir = v },
	},
	{
		key:     "dirmatchuser",
		kind:    kindBool,
		setBool: func(p *Policy, b bool) { p.DirMatchUser = b },
	},
	{
		key:       "path",
		setString: func(p *Policy, v string) { p.SearchPath = v },
	},
	{
		key:       "rootdir",
		nullable:  true,
		setString: func(p *Policy, v string) { p.RootDir = v },
	},
	{
		key:     "scriptsonly",
		kind:    kindBool,
		setBool: func(p *Policy, b bool) { p.ScriptsOnly = b },
	},
	{
		key:       "fromgroup",
		nullable:  true,
		setString: func(p *Policy, v string) { p.FromGroup = v },
	},
}

func init() {
	if err := validateOptions(options); err != nil {
		panic(err)
	}
}

// validateOptions rejects a malformed option table.
func validateOptions(opts []option) error {
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		if o.key == "" {
			return fmt.Errorf("policy: option with empty key")
		}
		if (o.kind == kindBool && o.setBool == nil) || (o.kind == kindString && o.setString == nil) {
			return fmt.Errorf("policy: option %q has no setter for its kind", o.key)
		}
		if seen[o.key] {
			return fmt.Errorf("policy: duplicate option %q", o.key)
		}
		if o.kind == kindBool && o.nullable {
			return fmt.Errorf("policy: boolean option %q cannot be nullable", o.key)
		}
		seen[o.key] = true
	}
	return nil
}

func lookupOption(key string) (option, bool) {
	for _, o := range options {
		if o.key == key {
			return o, true
		}
	}
	return option{}, false
}

// Keys returns the recognized configuration keys in table order.
func Keys() []string {
	keys := make([]string, len(options))
	for i, o := range options {
		keys[i] = o.key
	}
	return keys
}

// parseBool accepts the boolean spellings of the config format.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "false", "off", "no", "0":
		return false, true
	case "true", "on", "yes", "1":
		return true, true
	default:
		return false, false
	}
}
