package discovery

import (
	"regexp"
	"strings"

	"github.com/aallbrig/compspec/models"
)

// ParsedHelp holds structured results of parsing --help output.
type ParsedHelp struct {
	Description string
	Flags       []models.Arg
	Positionals []models.Arg
	Subcommands []string
	// SubcommandHelp holds the one-line descriptions listed next to
	// subcommands, keyed by name.
	SubcommandHelp map[string]string
}

// section labels we recognize
const (
	secNone     = ""
	secFlags    = "flags"
	secCommands = "commands"
	secUsage    = "usage"
	secDesc     = "description"
	secExamples = "examples"
	secAliases  = "aliases"
)

// sectionHeaders maps lower-cased keywords that appear in section header lines.
var sectionHeaders = map[string]string{
	"available commands":  secCommands,
	"available command":   secCommands,
	"management commands": secCommands,
	"management command":  secCommands,
	"commands":            secCommands,
	"subcommands":         secCommands,
	"flags":               secFlags,
	"options":             secFlags,
	"global flags":        secFlags,
	"global options":      secFlags,
	"optional arguments":  secFlags,
	"arguments":           secFlags,
	"usage":               secUsage,
	"use":                 secUsage,
	"description":         secDesc,
	"examples":            secExamples,
	"example":             secExamples,
	"aliases":             secAliases,
}

var (
	// long flag: --flag, --flag=type, --flag <type>, --flag[=WHEN], --flag {a,b}
	longFlagRe = regexp.MustCompile(
		`^\s{0,8}` +
			`(?:(-[A-Za-z0-9])(?:,\s*|\s+))?` + // optional short: -x, or -x (space)
			`(--[A-Za-z][A-Za-z0-9_-]*)` + // long: --flag
			`(?:` +
			`\[=([A-Za-z][A-Za-z0-9_-]*)\]` + // [=WHEN] value only after '='
			`|[= ](?:<([^>]+)>|\[([^\]]+)\]|(\{[^}]+\}|[A-Za-z][A-Za-z0-9_|-]*))` +
			`)?` +
			`(?:\s+(.*))?$`, // description
	)
	// short-only flag: -v or -v <value>
	shortOnlyFlagRe = regexp.MustCompile(
		`^\s{2,8}(-[A-Za-z0-9])(?:\s+(?:<([^>]+)>|(\{[^}]+\}|[A-Z][A-Z0-9_|-]*)))?(?:\s{2,}(.*))?$`,
	)
	// subcommand line: 2–8 leading spaces, lowercase word, optional description
	subcmdRe = regexp.MustCompile(`^\s{2,8}([a-z][a-z0-9_-]*)(?:.*?\s{2,}(.+))?$`)
	// positional in usage: <required> or [optional], either followed by ...
	positionalRe = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9_-]*)>(\.{3})?|\[([A-Za-z][A-Za-z0-9_-]*)(\.{3})?\](\.{3})?`)
	// bracketed flag groups in usage lines: [-C <path>], [--git-dir=<path>]
	usageFlagGroupRe = regexp.MustCompile(`\[-[^\]]*\]`)
	// ANSI escape codes (colors, etc.)
	ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[mGKHF]`)
)

// skipSubcmdWords are words that look like subcommands but aren't.
var skipSubcmdWords = map[string]bool{
	"true": true, "false": true,
	"none": true, "all": true, "on": true, "off": true,
	"yes": true, "no": true, "default": true,
}

// stripANSI removes ANSI terminal escape codes from a string.
func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// ParseHelpOutput parses --help output into structured ParsedHelp.
func ParseHelpOutput(text string) ParsedHelp {
	text = stripANSI(text)
	result := ParsedHelp{SubcommandHelp: map[string]string{}}
	lines := strings.Split(text, "\n")
	section := secNone
	seenSubs := map[string]bool{}
	seenFlags := map[string]bool{}
	var usageLines []string

	addFlag := func(a models.Arg) {
		if seenFlags[a.ID] {
			return
		}
		seenFlags[a.ID] = true
		result.Flags = append(result.Flags, a)
	}
	addSub := func(name, help string) {
		if seenSubs[name] || skipSubcmdWords[name] {
			return
		}
		seenSubs[name] = true
		result.Subcommands = append(result.Subcommands, name)
		if help != "" {
			result.SubcommandHelp[name] = strings.TrimSpace(help)
		}
	}

	for i, rawLine := range lines {
		trimmed := strings.TrimSpace(rawLine)
		lower := strings.ToLower(trimmed)

		if sec := detectSection(lower); sec != secNone {
			section = sec
			// "Usage: ls [OPTION]..." carries the usage on the header line.
			if sec == secUsage && strings.Contains(trimmed, " ") {
				usageLines = append(usageLines, rawLine)
			}
			continue
		}
		// A non-indented line outside a header ends the current section.
		if i > 4 && trimmed != "" && !strings.HasPrefix(rawLine, " ") &&
			!strings.HasPrefix(rawLine, "\t") && section != secNone &&
			!strings.HasSuffix(lower, ":") {
			section = secNone
		}

		// First non-empty non-flag non-usage line is the description.
		if result.Description == "" && i < 10 && trimmed != "" &&
			!strings.HasPrefix(trimmed, "-") &&
			!strings.HasPrefix(lower, "usage") &&
			!strings.HasPrefix(lower, "use ") &&
			!strings.HasPrefix(rawLine, " ") &&
			lower != "name" && lower != "synopsis" && lower != "description" {
			result.Description = trimmed
		}

		if strings.HasPrefix(lower, "usage:") || strings.HasPrefix(lower, "use:") ||
			(section == secUsage && trimmed != "" && !strings.HasPrefix(trimmed, "-")) {
			usageLines = append(usageLines, rawLine)
		}

		switch section {
		case secFlags:
			if a, ok := parseFlag(rawLine); ok {
				addFlag(a)
			}
		case secCommands:
			if m := subcmdRe.FindStringSubmatch(rawLine); m != nil {
				addSub(m[1], m[2])
			}
		case secNone, secUsage:
			// Outside named sections: stricter checks.
			if a, ok := parseFlag(rawLine); ok {
				addFlag(a)
			}
			// Git-style free-form lists need an indented word plus description.
			if m := subcmdRe.FindStringSubmatch(rawLine); m != nil && m[2] != "" {
				addSub(m[1], m[2])
			}
		}
	}

	seenPos := map[string]bool{}
	for _, ul := range usageLines {
		for _, p := range parsePositionals(ul) {
			if seenPos[p.ID] {
				continue
			}
			seenPos[p.ID] = true
			p.Index = len(result.Positionals) + 1
			result.Positionals = append(result.Positionals, p)
		}
	}
	normalizeVariadic(result.Positionals)
	return result
}

// detectSection returns a section constant if the line is a recognized header.
// Handles "Title Case:" (cobra/click style) and "UPPER CASE" (man style).
func detectSection(lower string) string {
	candidate := strings.TrimSuffix(strings.TrimSpace(lower), ":")
	if s, ok := sectionHeaders[candidate]; ok {
		return s
	}
	// "usage: ls [OPTION]..." style: header keyword followed by content.
	if strings.HasPrefix(candidate, "usage:") {
		return secUsage
	}
	// Compound headers like "general options:". Long lines are content.
	if len(candidate) <= 30 && strings.HasSuffix(strings.TrimSpace(lower), ":") {
		for kw, sec := range sectionHeaders {
			if strings.HasPrefix(candidate, kw) || strings.HasSuffix(candidate, kw) {
				return sec
			}
		}
	}
	return secNone
}

// parseFlag tries to parse a flag definition line.
func parseFlag(line string) (models.Arg, bool) {
	if m := longFlagRe.FindStringSubmatch(line); m != nil {
		a := models.Arg{
			Long:  strings.TrimPrefix(m[2], "--"),
			Short: strings.TrimPrefix(m[1], "-"),
			Help:  strings.TrimSpace(m[7]),
		}
		a.ID = a.Long
		switch {
		case m[3] != "":
			a.RequireEquals = true
			applyMetavar(&a, m[3])
		case m[4] != "":
			applyMetavar(&a, m[4])
		case m[5] != "":
			applyMetavar(&a, m[5])
		case m[6] != "":
			applyMetavar(&a, m[6])
		default:
			a.Action = models.ActionSetTrue
		}
		return a, true
	}
	if m := shortOnlyFlagRe.FindStringSubmatch(line); m != nil {
		a := models.Arg{
			Short: strings.TrimPrefix(m[1], "-"),
			Help:  strings.TrimSpace(m[4]),
		}
		a.ID = a.Short
		switch {
		case m[2] != "":
			applyMetavar(&a, m[2])
		case m[3] != "":
			applyMetavar(&a, m[3])
		default:
			a.Action = models.ActionSetTrue
		}
		return a, true
	}
	return models.Arg{}, false
}

// applyMetavar marks a as value-taking and derives its hint or enumerated
// values from the metavar.
func applyMetavar(a *models.Arg, metavar string) {
	a.Action = models.ActionSet
	if values := enumeratedValues(metavar); values != nil {
		a.Values = values
		return
	}
	a.ValueHint = HintForMetavar(metavar)
}

// enumeratedValues splits "{a,b,c}" and "a|b|c" metavars.
func enumeratedValues(metavar string) []models.PossibleValue {
	var parts []string
	switch {
	case strings.HasPrefix(metavar, "{") && strings.HasSuffix(metavar, "}"):
		parts = strings.Split(strings.Trim(metavar, "{}"), ",")
	case strings.Contains(metavar, "|"):
		parts = strings.Split(metavar, "|")
	default:
		return nil
	}
	var out []models.PossibleValue
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, models.PossibleValue{Name: p})
		}
	}
	return out
}

// metavarHints maps the last word of a metavar to a value hint.
var metavarHints = map[string]models.ValueHint{
	"FILE":       models.HintFilePath,
	"FILENAME":   models.HintFilePath,
	"FILES":      models.HintFilePath,
	"KUBECONFIG": models.HintFilePath,
	"DIR":        models.HintDirPath,
	"DIRECTORY":  models.HintDirPath,
	"FOLDER":     models.HintDirPath,
	"PATH":       models.HintAnyPath,
	"HOST":       models.HintHostname,
	"HOSTNAME":   models.HintHostname,
	"USER":       models.HintUsername,
	"USERNAME":   models.HintUsername,
	"LOGIN":      models.HintUsername,
	"URL":        models.HintURL,
	"URI":        models.HintURL,
	"EMAIL":      models.HintEmailAddress,
	"CMD":        models.HintCommandName,
	"COMMAND":    models.HintCommandName,
	"PROGRAM":    models.HintCommandName,
	"EXECUTABLE": models.HintExecutablePath,
	"BINARY":     models.HintExecutablePath,
}

var metavarSplitRe = regexp.MustCompile(`[^A-Za-z0-9]+`)

// HintForMetavar infers a value hint from a metavar such as "FILE",
// "<output-dir>" or "CONFIG_FILE". Unrecognized metavars give HintUnknown.
func HintForMetavar(metavar string) models.ValueHint {
	words := metavarSplitRe.Split(strings.ToUpper(metavar), -1)
	for i := len(words) - 1; i >= 0; i-- {
		if words[i] == "" {
			continue
		}
		return metavarHints[words[i]]
	}
	return models.HintUnknown
}

// positionalPlaceholders are usage words that stand for options or the
// subcommand slot rather than real positional arguments.
var positionalPlaceholders = map[string]bool{
	"OPTION": true, "OPTIONS": true, "OPTS": true, "OPT": true,
	"FLAG": true, "FLAGS": true, "ARGS": true,
	"ARGUMENTS": true, "PARAMS": true, "PARAMETERS": true,
	"SHORT-OPTION": true, "LONG-OPTION": true,
	"COMMAND": true, "SUBCOMMAND": true,
}

// parsePositionals extracts positional args from a usage line in the order
// they appear.
func parsePositionals(line string) []models.Arg {
	searchLine := line
	if idx := strings.Index(strings.ToLower(line), "usage:"); idx >= 0 {
		searchLine = line[idx+len("usage:"):]
	}
	searchLine = usageFlagGroupRe.ReplaceAllString(searchLine, "")

	var out []models.Arg
	for _, m := range positionalRe.FindAllStringSubmatch(searchLine, -1) {
		name := m[1]
		variadic := m[2] != ""
		if name == "" {
			name = m[3]
			variadic = m[4] != "" || m[5] != ""
		}
		if positionalPlaceholders[strings.ToUpper(name)] {
			continue
		}
		a := models.Arg{
			ID:         name,
			Positional: true,
			ValueHint:  HintForMetavar(name),
		}
		if variadic {
			a.MaxValues = models.Unlimited
		}
		out = append(out, a)
	}
	return out
}

// normalizeVariadic keeps the unbounded marker only on the last positional.
func normalizeVariadic(ps []models.Arg) {
	for i := 0; i < len(ps)-1; i++ {
		if ps[i].Unbounded() {
			ps[i].MaxValues = 0
		}
	}
}
