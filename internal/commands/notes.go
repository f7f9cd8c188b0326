package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"sidepad/internal/exitcode"
	"sidepad/internal/lists"
	"sidepad/internal/output"
)

func init() {
	Register(&NotesCmd{})
	Register(&AddNoteCmd{})
	Register(&RmNoteCmd{})
}

// openNotes loads the note list, warning about unreadable data.
func openNotes(env *Env, errOut io.Writer) *lists.NoteList {
	notes, err := lists.NewNoteList(env.Store, env.Log)
	warnUnreadable(errOut, err)
	return notes
}

// NotesCmd implements the notes command.
type NotesCmd struct {
	full bool
}

func (c *NotesCmd) Name() string      { return "notes" }
func (c *NotesCmd) Aliases() []string { return nil }
func (c *NotesCmd) Synopsis() string  { return "List notes" }
func (c *NotesCmd) Usage() string     { return "sidepad notes [common flags] [--full]" }
func (c *NotesCmd) NeedsStore() bool  { return true }

func (c *NotesCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.full, "full", false, "")
}

func (c *NotesCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	notes := openNotes(env, errOut)
	if notes.Len() == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "no notes")
		}
		return exitcode.Success
	}
	for i, n := range notes.Items() {
		if c.full {
			output.FormatNoteFull(out, i+1, n)
		} else {
			output.FormatNote(out, i+1, n)
		}
	}
	return exitcode.Success
}

// AddNoteCmd implements the addnote command.
type AddNoteCmd struct {
	title string
}

func (c *AddNoteCmd) Name() string      { return "addnote" }
func (c *AddNoteCmd) Aliases() []string { return nil }
func (c *AddNoteCmd) Synopsis() string  { return "Add a note" }
func (c *AddNoteCmd) Usage() string {
	return "sidepad addnote [common flags] --title <title> <content...|->"
}
func (c *AddNoteCmd) NeedsStore() bool { return true }

func (c *AddNoteCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
}

func (c *AddNoteCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	content := strings.Join(args, " ")
	if content == "-" {
		if env.In == nil {
			fmt.Fprintln(errOut, "error: no input to read content from")
			return exitcode.UserError
		}
		data, err := io.ReadAll(env.In)
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to read content: %v\n", err)
			return exitcode.UserError
		}
		content = string(data)
	}

	if strings.TrimSpace(c.title) == "" || strings.TrimSpace(content) == "" {
		fmt.Fprintln(errOut, "error: title and content cannot be empty")
		return exitcode.UserError
	}

	notes := openNotes(env, errOut)
	if _, err := notes.Add(c.title, content); err != nil {
		return reportListError(errOut, "note", 0, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// RmNoteCmd implements the rmnote command.
type RmNoteCmd struct{}

func (c *RmNoteCmd) Name() string      { return "rmnote" }
func (c *RmNoteCmd) Aliases() []string { return nil }
func (c *RmNoteCmd) Synopsis() string  { return "Remove a note" }
func (c *RmNoteCmd) Usage() string     { return "sidepad rmnote [common flags] <n>" }
func (c *RmNoteCmd) NeedsStore() bool  { return true }

func (c *RmNoteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmNoteCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	idx, err := ParseItemNumber(args)
	if err != nil {
		return reportItemNumber(errOut, "note", err)
	}

	notes := openNotes(env, errOut)
	if err := notes.Remove(idx); err != nil {
		return reportListError(errOut, "note", idx+1, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
