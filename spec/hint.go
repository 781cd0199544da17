package spec

import "github.com/aallbrig/compspec/models"

// Completion-engine action macros.
const (
	ActionFiles           = "$files"
	ActionDirectories     = "$directories"
	ActionPathExecutables = "$_os.PathExecutables"
	ActionUsers           = "$_os.Users"
	ActionHosts           = "$_net.Hosts"
)

var hintActions = map[models.ValueHint][]string{
	models.HintUnknown:        nil,
	models.HintOther:          nil,
	models.HintAnyPath:        {ActionFiles},
	models.HintFilePath:       {ActionFiles},
	models.HintDirPath:        {ActionDirectories},
	models.HintExecutablePath: {ActionFiles},
	models.HintCommandName:    {ActionPathExecutables, ActionFiles},
	models.HintCommandString:  {ActionPathExecutables, ActionFiles},
	// Only the command word is completed; its arguments are opaque here.
	models.HintCommandWithArguments: {ActionPathExecutables, ActionFiles},
	models.HintUsername:             {ActionUsers},
	models.HintHostname:             {ActionHosts},
	models.HintURL:                  nil,
	models.HintEmailAddress:         nil,
}

// ActionsFor returns the completion actions for a value hint. Hints without
// an entry yield none.
func ActionsFor(h models.ValueHint) []string {
	return append([]string(nil), hintActions[h]...)
}
