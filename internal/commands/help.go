package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"sidepad/internal/exitcode"
)

func init() {
	Register(&HelpCmd{Registry: DefaultRegistry})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	Registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "sidepad help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	writeHelp(out, c.Registry)
	return exitcode.Success
}

func writeHelp(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sidepad                 List todos")
	for _, cmd := range r.All() {
		fmt.Fprintf(w, "  %s\n", cmd.Usage())
		synopsis := cmd.Synopsis()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			synopsis += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(w, "      %s\n", synopsis)
	}
	fmt.Fprint(w, commonFlagsHelp)
}

const commonFlagsHelp = `
Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
