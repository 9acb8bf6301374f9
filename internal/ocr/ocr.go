// Package ocr extracts text from uploaded images with the tesseract CLI.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrEmptyImage is returned when no image bytes were supplied.
	ErrEmptyImage = errors.New("empty image")

	// ErrUnsupportedType is returned for anything other than PNG or JPEG.
	ErrUnsupportedType = errors.New("unsupported image type: use png, jpg or jpeg")
)

// Extensions lists the accepted upload file extensions.
var Extensions = []string{".png", ".jpg", ".jpeg"}

// AllowedFile reports whether name has an accepted image extension.
func AllowedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Config controls the tesseract invocation.
type Config struct {
	Command   string        // tesseract binary, default "tesseract"
	Languages string        // passed to -l, default "eng"
	Timeout   time.Duration // per image, default 20s
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Command:   "tesseract",
		Languages: "eng",
		Timeout:   20 * time.Second,
	}
}

// ConfigFromEnv overlays GRECS_TESSERACT and GRECS_OCR_LANG on defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if c := os.Getenv("GRECS_TESSERACT"); c != "" {
		cfg.Command = c
	}
	if l := os.Getenv("GRECS_OCR_LANG"); l != "" {
		cfg.Languages = l
	}
	return cfg
}

// Runner executes a command with stdin and returns its stdout.
type Runner func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Extractor turns image bytes into text.
type Extractor struct {
	cfg Config
	run Runner
}

// NewExtractor creates an Extractor. A nil run uses ExecRunner.
func NewExtractor(cfg Config, run Runner) *Extractor {
	if cfg.Command == "" {
		cfg.Command = DefaultConfig().Command
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if run == nil {
		run = ExecRunner
	}
	return &Extractor{cfg: cfg, run: run}
}

// ExtractText returns the trimmed text found in image. An image with no
// readable text yields "" and a nil error.
func (e *Extractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	switch http.DetectContentType(image) {
	case "image/png", "image/jpeg":
	default:
		return "", ErrUnsupportedType
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	args := []string{"stdin", "stdout"}
	if e.cfg.Languages != "" {
		args = append(args, "-l", e.cfg.Languages)
	}

	out, err := e.run(ctx, e.cfg.Command, args, bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("run %s: %w", e.cfg.Command, err)
	}
	return strings.TrimSpace(string(out)), nil
}
