package spec

import (
	"cmp"
	"slices"

	"github.com/aallbrig/compspec/models"
)

// ValuesFor renders the enumerated values of a as completion tokens.
// A value with help text becomes "name\thelp"; hidden values are skipped.
func ValuesFor(a *models.Arg) []string {
	var out []string
	for _, v := range a.Values {
		if v.Hidden {
			continue
		}
		if v.Help != "" {
			out = append(out, v.Name+"\t"+v.Help)
		} else {
			out = append(out, v.Name)
		}
	}
	return out
}

// ArgActions is the full completion sequence of an argument: the value-hint
// actions followed by its enumerated values.
func ArgActions(a *models.Arg) []string {
	return append(ActionsFor(a.ValueHint), ValuesFor(a)...)
}

// FlagKey is the completion key of a flag: its long name, or its short name
// when it has none.
func FlagKey(a *models.Arg) string {
	if a.Long != "" {
		return a.Long
	}
	return a.Short
}

// FlagCompletions maps each visible value-taking flag of cmd to its
// completion actions. Flags without actions are left out.
func FlagCompletions(cmd *models.Command) *OrderedMap[[]string] {
	m := NewOrderedMap[[]string]()
	for _, a := range visibleOptions(cmd) {
		if !a.TakesValue() {
			continue
		}
		if actions := ArgActions(&a); len(actions) > 0 {
			m.Set(FlagKey(&a), actions)
		}
	}
	return m
}

func sortedPositionals(cmd *models.Command) []models.Arg {
	var ps []models.Arg
	for _, a := range cmd.Args {
		if a.Positional && !a.Hidden {
			ps = append(ps, a)
		}
	}
	slices.SortStableFunc(ps, func(a, b models.Arg) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return ps
}

// splitPositionals separates the bounded positionals from the trailing
// unbounded one. Only the last positional can be unbounded.
func splitPositionals(cmd *models.Command) (bounded []models.Arg, variadic *models.Arg) {
	ps := sortedPositionals(cmd)
	if n := len(ps); n > 0 && ps[n-1].Unbounded() {
		last := ps[n-1]
		return ps[:n-1], &last
	}
	return ps, nil
}

// PositionalCompletions returns one action slot per bounded positional in
// index order. Slots may be empty so indexes stay aligned.
func PositionalCompletions(cmd *models.Command) [][]string {
	bounded, _ := splitPositionals(cmd)
	var slots [][]string
	for _, p := range bounded {
		actions := ArgActions(&p)
		if actions == nil {
			actions = []string{}
		}
		slots = append(slots, actions)
	}
	return slots
}

// PositionalAnyCompletion returns the actions of the trailing unbounded
// positional, or nil if cmd has none.
func PositionalAnyCompletion(cmd *models.Command) []string {
	_, variadic := splitPositionals(cmd)
	if variadic == nil {
		return nil
	}
	return ArgActions(variadic)
}
