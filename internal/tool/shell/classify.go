package shell

import (
	"regexp"
	"strings"

	"github.com/Cyclone1070/donna/internal/tool"
)

// safeCommand matches read-only or informational commands at the start of
// the trimmed command line.
var safeCommand = regexp.MustCompile(`(?i)^(?:` + strings.Join([]string{
	`echo\s`,
	`systeminfo`,
	`hostname`,
	`whoami`,
	`time\s*/t`,
	`date\s*/t`,
	`dir\s`, `dir$`,
	`type\s`,
	`where\s`,
	`ver\s*$`,
	`set\s+\w`,
	`python\s+--version`,
	`python\s+-V`,
	`pip\s+(?:list|show|freeze)`,
	`node\s+--version`,
	`git\s+(?:status|log|branch|diff|show)`,
	`Get-Date`,
	`Get-Process`,
	`Get-ChildItem`,
	`Get-ComputerInfo`,
	`Get-Host`,
	`\$env:\w+`,
	`ls(?:\s|$)`,
	`pwd\s*$`,
	`cat\s`,
	`uname(?:\s|$)`,
	`which\s`,
	`env\s*$`,
	`date\s*$`,
}, "|") + `)`)

// IsSafeCommand reports whether a command line starts with a known
// read-only command.
func IsSafeCommand(command string) bool {
	return safeCommand.MatchString(strings.TrimSpace(command))
}

// Classify is the execute_shell classifier: safe commands are green and
// everything else is red.
func Classify(args map[string]any) tool.Safety {
	command, _ := args["command"].(string)
	if IsSafeCommand(command) {
		return tool.Green
	}
	return tool.Red
}
