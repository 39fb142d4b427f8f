package compressors

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
)

// execWriter pipes writes through an external compressor process whose
// stdout is connected to the destination. Close finishes the stream and
// surfaces the process exit status, so a compressor crash or a full disk is
// observable by the caller even though the process runs detached.
type execWriter struct {
	tool   string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
}

func startExecWriter(tool string, args []string, dst io.Writer) (*execWriter, error) {
	w := &execWriter{tool: tool}

	w.cmd = exec.Command(tool, args...)
	w.cmd.Stdout = dst
	w.cmd.Stderr = &w.stderr

	stdin, err := w.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create %s stdin pipe: %w", tool, err)
	}
	w.stdin = stdin

	if err := w.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", tool, err)
	}
	return w, nil
}

func (w *execWriter) Write(p []byte) (int, error) {
	return w.stdin.Write(p)
}

// Close closes the process's stdin and waits for it to drain and exit.
func (w *execWriter) Close() error {
	closeErr := w.stdin.Close()

	if err := w.cmd.Wait(); err != nil {
		msg := bytes.TrimSpace(w.stderr.Bytes())
		if len(msg) > 0 {
			return fmt.Errorf("%s failed: %w: %s", w.tool, err, msg)
		}
		return fmt.Errorf("%s failed: %w", w.tool, err)
	}
	return closeErr
}
