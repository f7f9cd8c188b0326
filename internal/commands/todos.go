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
	Register(&ListCmd{})
	Register(&AddCmd{})
	Register(&DoneCmd{})
	Register(&RmCmd{})
}

// openTodos loads the todo list, warning about unreadable data.
func openTodos(env *Env, errOut io.Writer) *lists.TodoList {
	todos, err := lists.NewTodoList(env.Store, env.Log)
	warnUnreadable(errOut, err)
	return todos
}

// ListCmd implements the list command.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"todos"} }
func (c *ListCmd) Synopsis() string  { return "List todos" }
func (c *ListCmd) Usage() string     { return "sidepad list [common flags]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	todos := openTodos(env, errOut)
	if todos.Len() == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "no todos")
		}
		return exitcode.Success
	}
	for i, t := range todos.Items() {
		output.FormatTodo(out, i+1, t)
	}
	return exitcode.Success
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Add a todo" }
func (c *AddCmd) Usage() string     { return "sidepad add [common flags] <title...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	todos := openTodos(env, errOut)
	if _, err := todos.Add(title); err != nil {
		return reportListError(errOut, "todo", 0, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a todo completed" }
func (c *DoneCmd) Usage() string     { return "sidepad done [common flags] <n>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	idx, err := ParseItemNumber(args)
	if err != nil {
		return reportItemNumber(errOut, "todo", err)
	}

	todos := openTodos(env, errOut)
	if err := todos.Complete(idx); err != nil {
		return reportListError(errOut, "todo", idx+1, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return nil }
func (c *RmCmd) Synopsis() string  { return "Remove a todo" }
func (c *RmCmd) Usage() string     { return "sidepad rm [common flags] <n>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	idx, err := ParseItemNumber(args)
	if err != nil {
		return reportItemNumber(errOut, "todo", err)
	}

	todos := openTodos(env, errOut)
	if err := todos.Remove(idx); err != nil {
		return reportListError(errOut, "todo", idx+1, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
