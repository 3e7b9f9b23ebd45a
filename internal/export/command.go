package export

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// CommandSharer opens the export with an external program, such as
// "xdg-open" or "open -a Mail". The command line is split with shell quoting
// rules and the file path is appended as the last argument. It is available
// when the program can be found on PATH.
type CommandSharer struct {
	Command string
}

func (c CommandSharer) Name() string { return "command" }

func (c CommandSharer) argv() ([]string, error) {
	args, err := shellquote.Split(c.Command)
	if err != nil {
		return nil, fmt.Errorf("parse share command %q: %w", c.Command, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("share command is empty")
	}
	return args, nil
}

func (c CommandSharer) Available(context.Context) bool {
	args, err := c.argv()
	if err != nil {
		return false
	}
	_, err = exec.LookPath(args[0])
	return err == nil
}

func (c CommandSharer) Share(ctx context.Context, path string) error {
	args, err := c.argv()
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}
