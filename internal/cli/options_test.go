package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/swatch/internal/palette"
	"github.com/jmylchreest/swatch/internal/raster"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		input   string
		want    image.Rectangle
		wantErr bool
	}{
		{"0,0,10,20", image.Rect(0, 0, 10, 20), false},
		{" 5, 6 ,7,8 ", image.Rect(5, 6, 7, 8), false},
		{"-4,-4,4,4", image.Rect(-4, -4, 4, 4), false},
		{"1,2,3", image.Rectangle{}, true},
		{"a,b,c,d", image.Rectangle{}, true},
		{"10,0,5,5", image.Rectangle{}, true},
		{"0,0,0,5", image.Rectangle{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseRegion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRegion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseRegion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreviewEnabled(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		mode string
		want bool
	}{
		{"always", true},
		{"never", false},
		{"auto", false}, // not a terminal
	}
	for _, tt := range tests {
		if got := previewEnabled(tt.mode, &buf); got != tt.want {
			t.Errorf("previewEnabled(%q) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func parseConfigFlags(t *testing.T, args ...string) (*extractOptions, *pflag.FlagSet) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts := &extractOptions{}
	registerConfigFlags(fs, opts)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) failed: %v", args, err)
	}
	return opts, fs
}

func TestExtractOptionsConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts, fs := parseConfigFlags(t)
		cfg, err := opts.config(fs, hclog.NewNullLogger())
		if err != nil {
			t.Fatalf("config failed: %v", err)
		}
		want := palette.DefaultConfig()
		if cfg.MaximumColourCount != want.MaximumColourCount || cfg.ResizeArea != want.ResizeArea {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
		if len(cfg.Filters) != 1 || len(cfg.Targets) != 6 || cfg.Region != nil {
			t.Errorf("unexpected defaults: %d filters, %d targets, region %v", len(cfg.Filters), len(cfg.Targets), cfg.Region)
		}
	})

	t.Run("targets", func(t *testing.T) {
		opts, fs := parseConfigFlags(t, "--target", "vibrant,muted", "--target", "DARK-MUTED")
		cfg, err := opts.config(fs, nil)
		if err != nil {
			t.Fatalf("config failed: %v", err)
		}
		var names []string
		for _, target := range cfg.Targets {
			names = append(names, target.Name)
		}
		if diff := cmp.Diff([]string{"vibrant", "muted", "dark-muted"}, names); diff != "" {
			t.Errorf("targets mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("max dimension replaces area", func(t *testing.T) {
		opts, fs := parseConfigFlags(t, "--resize-max-dimension", "64", "--bilinear", "--no-default-filter", "--region", "1,2,3,4")
		cfg, err := opts.config(fs, nil)
		if err != nil {
			t.Fatalf("config failed: %v", err)
		}
		if cfg.ResizeArea != 0 || cfg.ResizeMaxDimension != 64 {
			t.Errorf("expected area 0 and max dimension 64, got %d and %d", cfg.ResizeArea, cfg.ResizeMaxDimension)
		}
		if cfg.Scaling != raster.BiLinear {
			t.Errorf("expected bilinear scaling, got %s", cfg.Scaling)
		}
		if cfg.Filters != nil {
			t.Errorf("expected no filters, got %d", len(cfg.Filters))
		}
		if cfg.Region == nil || *cfg.Region != image.Rect(1, 2, 3, 4) {
			t.Errorf("unexpected region %v", cfg.Region)
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		opts, fs := parseConfigFlags(t, "--target", "neon")
		if _, err := opts.config(fs, nil); err == nil || !strings.Contains(err.Error(), "unknown target") {
			t.Errorf("expected unknown target error, got %v", err)
		}
	})
}

// syncBuffer is a bytes.Buffer safe for a writer and a concurrent reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeSolidPNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("Failed to write image: %v", err)
	}
}

func TestExtractWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.png")
	writeSolidPNG(t, path, color.RGBA{0, 0, 255, 255})

	var out syncBuffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"extract", "--watch", "-f", "hex", path})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	waitFor := func(want string) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if strings.Contains(out.String(), want) {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		t.Fatalf("timed out waiting for %q, output:\n%s", want, out.String())
	}

	waitFor("dominant #0000ff")
	writeSolidPNG(t, path, color.RGBA{255, 0, 0, 255})
	waitFor("dominant #ff0000")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestExtractWatchRejectsURL(t *testing.T) {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"extract", "--watch", "https://example.com/image.png"})
	if err := rootCmd.Execute(); err == nil || !strings.Contains(err.Error(), "cannot watch") {
		t.Errorf("expected cannot watch error, got %v", err)
	}
}
