package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"sidepad/internal/exitcode"
	"sidepad/internal/service"
)

func init() {
	Register(&UploadCmd{})
}

// UploadCmd implements the upload command.
type UploadCmd struct {
	folder string
}

func (c *UploadCmd) Name() string      { return "upload" }
func (c *UploadCmd) Aliases() []string { return nil }
func (c *UploadCmd) Synopsis() string  { return "Upload all notes to Google Drive" }
func (c *UploadCmd) Usage() string     { return "sidepad upload [common flags] [--folder <name>]" }
func (c *UploadCmd) NeedsStore() bool  { return true }

func (c *UploadCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.folder, "folder", "", "")
}

func (c *UploadCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
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

	uploader, err := env.Uploader(ctx)
	if errors.Is(err, ErrNoOAuthClient) {
		fmt.Fprintln(errOut, "error: please sign in to upload notes (run: sidepad login)")
		return exitcode.AuthError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}

	folder := c.folder
	if folder == "" {
		folder = env.Config.Folder()
	}

	results := uploader.UploadAll(ctx, notes.Items(), folder)
	return reportUploads(env, results, out, errOut)
}

// reportUploads prints one line per note and returns the exit code of the
// most severe failure. A batch rejected for lack of a session is reported once.
func reportUploads(env *Env, results []service.UploadResult, out, errOut io.Writer) int {
	code := exitcode.Success
	signedOut := false
	uploaded := 0

	for _, r := range results {
		switch {
		case r.Err == nil:
			uploaded++
			if !env.Config.Quiet {
				fmt.Fprintf(out, "uploaded: %s\n", r.Note.Title)
			}
		case errors.Is(r.Err, service.ErrAuthRequired) && !errors.Is(r.Err, service.ErrUploadFailed):
			signedOut = true
			code = exitcode.AuthError
		default:
			fmt.Fprintf(errOut, "error: %v\n", r.Err)
			if errors.Is(r.Err, service.ErrAuthRequired) {
				code = exitcode.AuthError
			} else if code == exitcode.Success {
				code = exitcode.BackendError
			}
		}
	}

	if signedOut {
		fmt.Fprintln(errOut, "error: please sign in to upload notes (run: sidepad login)")
	}
	env.logger().Info("upload finished",
		zap.Int("uploaded", uploaded),
		zap.Int("failed", len(results)-uploaded))
	return code
}
