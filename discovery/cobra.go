package discovery

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aallbrig/compspec/models"
)

// Annotations read by FromCobra. Flag annotations live on pflag.Flag,
// positional ones in cobra.Command.Annotations keyed by argument name.
const (
	AnnotationValueHint      = "compspec_value_hint"
	AnnotationValues         = "compspec_values"
	AnnotationPositionalHint = "compspec_hint:"
	AnnotationPositionalVals = "compspec_values:"
)

// MarkFlagValueHint records the value hint of a flag.
func MarkFlagValueHint(flags *pflag.FlagSet, name string, hint models.ValueHint) error {
	return flags.SetAnnotation(name, AnnotationValueHint, []string{hint.String()})
}

// MarkFlagValues records the accepted values of a flag. A value may carry a
// description after a tab, as in cobra's completion results.
func MarkFlagValues(flags *pflag.FlagSet, name string, values ...string) error {
	return flags.SetAnnotation(name, AnnotationValues, values)
}

// MarkPositionalHint records the value hint of a positional named in the
// command's Use line.
func MarkPositionalHint(cmd *cobra.Command, name string, hint models.ValueHint) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[AnnotationPositionalHint+name] = hint.String()
}

// MarkPositionalValues records the accepted values of a positional named in
// the command's Use line.
func MarkPositionalValues(cmd *cobra.Command, name string, values ...string) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[AnnotationPositionalVals+name] = strings.Join(values, "\n")
}

// FromCobra describes a cobra command tree. Only the flags a command defines
// itself are listed on it; flags from its own PersistentFlags are global.
// Cobra's default help flag is initialized on every command so the result
// does not depend on which command was executed.
func FromCobra(c *cobra.Command) *models.Command {
	return fromCobra(c, nil)
}

func fromCobra(c *cobra.Command, parent []string) *models.Command {
	c.InitDefaultHelpFlag()
	out := &models.Command{
		Name:     c.Name(),
		FullPath: append(append([]string{}, parent...), c.Name()),
		Aliases:  append([]string(nil), c.Aliases...),
		About:    cobraAbout(c),
		Hidden:   c.Hidden,
	}
	persistent := c.PersistentFlags()
	c.LocalFlags().VisitAll(func(f *pflag.Flag) {
		out.Args = append(out.Args, argFromFlag(f, persistent.Lookup(f.Name) != nil))
	})
	out.Args = append(out.Args, positionalsFromUse(c)...)
	for _, sub := range c.Commands() {
		out.Subcommands = append(out.Subcommands, fromCobra(sub, out.FullPath))
	}
	return out
}

func cobraAbout(c *cobra.Command) string {
	if c.Short != "" {
		return c.Short
	}
	first, _, _ := strings.Cut(strings.TrimSpace(c.Long), "\n")
	return strings.TrimSpace(first)
}

func argFromFlag(f *pflag.Flag, global bool) models.Arg {
	a := models.Arg{
		ID:     f.Name,
		Long:   f.Name,
		Help:   f.Usage,
		Hidden: f.Hidden || f.Deprecated != "",
		Global: global,
		Action: actionForType(f.Value.Type()),
	}
	if f.ShorthandDeprecated == "" {
		a.Short = f.Shorthand
	}
	// A non-bool flag with NoOptDefVal only takes a value as --flag=value.
	if a.Action.TakesValues() && f.NoOptDefVal != "" {
		a.RequireEquals = true
	}
	a.ValueHint = hintForFlag(f)
	a.Values = possibleValues(f.Annotations[AnnotationValues])
	return a
}

// actionForType maps a pflag value type to an argument action.
func actionForType(t string) models.ArgAction {
	switch {
	case t == "bool":
		return models.ActionSetTrue
	case t == "count":
		return models.ActionCount
	case strings.HasSuffix(t, "Slice"), strings.HasSuffix(t, "Array"), strings.HasPrefix(t, "stringTo"):
		return models.ActionAppend
	default:
		return models.ActionSet
	}
}

func hintForFlag(f *pflag.Flag) models.ValueHint {
	if v := f.Annotations[AnnotationValueHint]; len(v) > 0 {
		return parseHintAnnotation(v[0], f.Name)
	}
	if _, ok := f.Annotations[cobra.BashCompSubdirsInDir]; ok {
		return models.HintDirPath
	}
	if _, ok := f.Annotations[cobra.BashCompFilenameExt]; ok {
		return models.HintFilePath
	}
	return models.HintUnknown
}

// parseHintAnnotation degrades unknown hint names to HintUnknown.
func parseHintAnnotation(s, owner string) models.ValueHint {
	h, err := models.ParseValueHint(s)
	if err != nil {
		log.Warn().Err(err).Str("arg", owner).Msg("ignoring value hint")
	}
	return h
}

// possibleValues splits "value\tdescription" entries.
func possibleValues(entries []string) []models.PossibleValue {
	var out []models.PossibleValue
	for _, e := range entries {
		if e == "" {
			continue
		}
		name, help, _ := strings.Cut(e, "\t")
		out = append(out, models.PossibleValue{Name: name, Help: help})
	}
	return out
}

// positionalsFromUse reads positionals from the Use line, e.g.
// "cp <src> [dst...]". ValidArgs fill the first positional, or a synthetic
// unbounded one when the Use line names none.
func positionalsFromUse(c *cobra.Command) []models.Arg {
	_, rest, _ := strings.Cut(strings.TrimSpace(c.Use), " ")
	ps := parsePositionals(rest)
	if len(ps) == 0 && len(c.ValidArgs) > 0 {
		ps = append(ps, models.Arg{ID: "arg", Positional: true, MaxValues: models.Unlimited})
	}
	for i := range ps {
		p := &ps[i]
		p.Index = i + 1
		if h, ok := c.Annotations[AnnotationPositionalHint+p.ID]; ok {
			p.ValueHint = parseHintAnnotation(h, p.ID)
		}
		if v, ok := c.Annotations[AnnotationPositionalVals+p.ID]; ok {
			p.Values = possibleValues(strings.Split(v, "\n"))
		} else if i == 0 {
			p.Values = possibleValues(c.ValidArgs)
		}
	}
	normalizeVariadic(ps)
	return ps
}
