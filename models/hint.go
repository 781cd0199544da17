package models

import "fmt"

// ValueHint is the semantic category of the value an argument takes.
type ValueHint int

const (
	HintUnknown ValueHint = iota
	HintOther
	HintAnyPath
	HintFilePath
	HintDirPath
	HintExecutablePath
	HintCommandName
	HintCommandString
	HintCommandWithArguments
	HintUsername
	HintHostname
	HintURL
	HintEmailAddress
)

var hintNames = [...]string{
	HintUnknown:              "unknown",
	HintOther:                "other",
	HintAnyPath:              "any-path",
	HintFilePath:             "file-path",
	HintDirPath:              "dir-path",
	HintExecutablePath:       "executable-path",
	HintCommandName:          "command-name",
	HintCommandString:        "command-string",
	HintCommandWithArguments: "command-with-arguments",
	HintUsername:             "username",
	HintHostname:             "hostname",
	HintURL:                  "url",
	HintEmailAddress:         "email-address",
}

func (h ValueHint) String() string {
	if h >= 0 && int(h) < len(hintNames) {
		return hintNames[h]
	}
	return fmt.Sprintf("ValueHint(%d)", int(h))
}

// ParseValueHint resolves a kebab-case hint name. The empty string is
// HintUnknown.
func ParseValueHint(s string) (ValueHint, error) {
	if s == "" {
		return HintUnknown, nil
	}
	for i, name := range hintNames {
		if name == s {
			return ValueHint(i), nil
		}
	}
	return HintUnknown, fmt.Errorf("unknown value hint %q", s)
}

func (h ValueHint) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *ValueHint) UnmarshalText(b []byte) error {
	v, err := ParseValueHint(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// ArgAction describes what happens when an argument is encountered.
type ArgAction int

const (
	ActionSet ArgAction = iota
	ActionAppend
	ActionSetTrue
	ActionSetFalse
	ActionCount
	ActionHelp
	ActionVersion
)

var actionNames = [...]string{
	ActionSet:      "set",
	ActionAppend:   "append",
	ActionSetTrue:  "set-true",
	ActionSetFalse: "set-false",
	ActionCount:    "count",
	ActionHelp:     "help",
	ActionVersion:  "version",
}

func (a ArgAction) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("ArgAction(%d)", int(a))
}

// TakesValues reports whether the action consumes a value.
func (a ArgAction) TakesValues() bool {
	return a == ActionSet || a == ActionAppend
}

// Cumulative reports whether repeated use accumulates (appends or counts).
func (a ArgAction) Cumulative() bool {
	return a == ActionAppend || a == ActionCount
}

// ParseArgAction resolves an action name. The empty string is ActionSet.
func ParseArgAction(s string) (ArgAction, error) {
	if s == "" {
		return ActionSet, nil
	}
	for i, name := range actionNames {
		if name == s {
			return ArgAction(i), nil
		}
	}
	return ActionSet, fmt.Errorf("unknown arg action %q", s)
}

func (a ArgAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ArgAction) UnmarshalText(b []byte) error {
	v, err := ParseArgAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
