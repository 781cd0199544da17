package spec

import "github.com/aallbrig/compspec/models"

// CommandFor builds the specification of cmd and its visible subcommands.
// cmd is only read.
func CommandFor(cmd *models.Command) Command {
	out := Command{
		Name:            cmd.Name,
		Aliases:         append([]string{}, cmd.Aliases...),
		Description:     cmd.About,
		Flags:           FlagsFor(cmd, false),
		PersistentFlags: FlagsFor(cmd, true),
		Completion: Completion{
			Flag:          FlagCompletions(cmd),
			Positional:    PositionalCompletions(cmd),
			PositionalAny: PositionalAnyCompletion(cmd),
		},
		Commands: []Command{},
	}
	for _, sub := range cmd.Subcommands {
		if sub == nil || sub.Hidden {
			continue
		}
		out.Commands = append(out.Commands, CommandFor(sub))
	}
	return out
}
