package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// execShell runs a shell command and returns its combined output. The command
// runs in the project directory; a non-zero exit is reported in the result
// text rather than as a Go error, so the model can react to it.
func execShell(ctx context.Context, env *Env, params map[string]any) (string, error) {
	command, ok := stringParam(params, "command")
	if !ok || command == "" {
		return "", fmt.Errorf("exec_shell: missing command parameter")
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = env.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	out := strings.TrimRight(stdout.String(), "\n")
	errOut := strings.TrimRight(stderr.String(), "\n")

	var b strings.Builder
	if out != "" {
		b.WriteString(out)
	}
	if errOut != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(errOut)
	}
	if runErr != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "command failed: %v", runErr)
	}
	if b.Len() == 0 {
		return "(no output)", nil
	}
	return b.String(), nil
}
