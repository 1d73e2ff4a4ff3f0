package ocr

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"time"
)

// Runner lets us stub the external OCR toolchain in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// maxStderrLog caps how much toolchain stderr lands in a log record;
// tesseract can emit pages of warnings on bad scans.
const maxStderrLog = 8 << 10

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var out, errb bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errb

	start := time.Now()
	err := cmd.Run()

	attrs := []any{
		"bin", name,
		"args", args,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		attrs = append(attrs, "error", err, "stderr", truncate(errb.String(), maxStderrLog))
		slog.Error("toolchain command failed", attrs...)
	} else {
		attrs = append(attrs, "stdout_bytes", out.Len())
		slog.Debug("toolchain command ok", attrs...)
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
