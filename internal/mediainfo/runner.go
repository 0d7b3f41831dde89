package mediainfo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	domainerrors "github.com/relprep/relprep/internal/errors"
)

// maxReportSize caps how much mediainfo output is read for a single file.
const maxReportSize = 4 << 20

// Runner produces text reports by executing the mediainfo binary.
type Runner struct {
	bin string
}

// NewRunner returns a runner for the given binary name or path. It fails
// with an UNAVAILABLE error when the binary cannot be found.
func NewRunner(bin string) (*Runner, error) {
	if bin == "" {
		bin = "mediainfo"
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, domainerrors.Unavailablef("mediainfo binary %q not found", bin).WithCause(err)
	}
	return &Runner{bin: resolved}, nil
}

// Report runs mediainfo on path and returns its text report.
func (r *Runner) Report(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, r.bin, path)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("mediainfo stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start mediainfo: %w", err)
	}

	out, readErr := io.ReadAll(io.LimitReader(stdout, maxReportSize))
	_, _ = io.Copy(io.Discard, stdout)
	waitErr := cmd.Wait()

	if err := errors.Join(readErr, waitErr); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "no output"
		}
		return "", fmt.Errorf("mediainfo %s: %s: %w", path, msg, err)
	}

	report := string(out)
	if strings.TrimSpace(report) == "" {
		return "", domainerrors.Unsupportedf("mediainfo printed nothing for %s", path)
	}
	return report, nil
}
