package spec

import (
	"cmp"
	"slices"

	"github.com/aallbrig/compspec/models"
)

// visibleOptions returns the non-positional, non-hidden arguments of cmd
// sorted by SortKey. The sort is stable so equal keys keep declaration order.
func visibleOptions(cmd *models.Command) []models.Arg {
	var opts []models.Arg
	for _, a := range cmd.Args {
		if a.Positional || a.Hidden {
			continue
		}
		opts = append(opts, a)
	}
	slices.SortStableFunc(opts, func(a, b models.Arg) int {
		return cmp.Compare(a.SortKey(), b.SortKey())
	})
	return opts
}

// FlagsFor returns the signature → help map of cmd's flags in one scope:
// persistent selects global flags, otherwise local ones.
func FlagsFor(cmd *models.Command, persistent bool) *OrderedMap[string] {
	m := NewOrderedMap[string]()
	for _, a := range visibleOptions(cmd) {
		if a.Global != persistent {
			continue
		}
		m.Set(Signature(&a)+Modifier(&a), a.Help)
	}
	return m
}

// Signature renders the flag forms: "-s, --long", "--long" or "-s".
func Signature(a *models.Arg) string {
	switch {
	case a.Long != "" && a.Short != "":
		return "-" + a.Short + ", --" + a.Long
	case a.Long != "":
		return "--" + a.Long
	default:
		return "-" + a.Short
	}
}

// Modifier encodes how a flag consumes values: "=" takes a value, "?" takes
// one only after an explicit '=', and a trailing "*" marks it repeatable.
func Modifier(a *models.Arg) string {
	var m string
	if a.TakesValue() {
		if a.RequireEquals {
			m = "?"
		} else {
			m = "="
		}
	}
	if a.Action.Cumulative() {
		m += "*"
	}
	return m
}
