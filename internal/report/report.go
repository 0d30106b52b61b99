// Package report stores run reports as JSON, zstd-compressed for ".zst" paths.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/smoke/api"
)

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Write stores rep at path, creating parent directories.
func Write(path string, rep api.RunReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var enc *zstd.Encoder
	if compressed(path) {
		enc, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		w = enc
	}

	je := json.NewEncoder(w)
	je.SetIndent("", "  ")
	if err := je.Encode(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to finish zstd stream: %w", err)
		}
	}
	return f.Close()
}

// Read loads a report written by Write.
func Read(path string) (api.RunReport, error) {
	var rep api.RunReport

	f, err := os.Open(path)
	if err != nil {
		return rep, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return rep, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return rep, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return rep, nil
}
