package ui

import (
	"os"

	"golang.org/x/term"
)

// NonInteractiveEnv forces prompt-free behavior when set to "1".
const NonInteractiveEnv = "AIRROUTES_NON_INTERACTIVE"

// IsInteractive reports whether an operator can answer a prompt: prompts
// are read from stdin and drawn on stderr, so both must be terminals. CI
// runs and NonInteractiveEnv=1 never prompt.
func IsInteractive() bool {
	return nonInteractiveReason() == ""
}

func nonInteractiveReason() string {
	switch {
	case os.Getenv(NonInteractiveEnv) == "1":
		return NonInteractiveEnv + "=1"
	case os.Getenv("CI") != "":
		return "CI is set"
	case !term.IsTerminal(int(os.Stdin.Fd())):
		return "stdin is not a terminal"
	case !term.IsTerminal(int(os.Stderr.Fd())):
		return "stderr is not a terminal"
	}
	return ""
}
