package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/explorer-docs/docaug/internal/augment"
	"github.com/explorer-docs/docaug/internal/site"
)

func TestAugmentOutcome(t *testing.T) {
	unreachable := fmt.Errorf("%w: GET http://localhost/: connection refused", augment.ErrProbeUnreachable)
	tests := []struct {
		name    string
		summary *site.Summary
		err     error
		strict  bool
		dryRun  bool
		wantErr bool
		wantOut string
	}{
		{
			name:    "unreachable tolerated",
			err:     unreachable,
			wantOut: "Explorer unreachable, site left unchanged",
		},
		{
			name:    "unreachable strict",
			err:     unreachable,
			strict:  true,
			wantErr: true,
		},
		{
			name:    "other error",
			err:     errors.New("walker: site: no such file or directory"),
			wantErr: true,
		},
		{
			name:    "all pages ok",
			summary: &site.Summary{Pages: 3, Changed: 2, Links: 4, Frames: 1},
			wantOut: "Augmented 2 of 3 pages in site (4 links, 1 frames, 0 skipped)",
		},
		{
			name:    "dry run",
			summary: &site.Summary{Pages: 1, Changed: 1, Links: 1},
			dryRun:  true,
			wantOut: "Would augment 1 of 1 pages",
		},
		{
			name: "failed pages",
			summary: &site.Summary{
				Pages:  2,
				Failed: []site.PageError{{Path: "broken.html", Err: errors.New("read: permission denied")}},
			},
			wantErr: true,
			wantOut: "Augmented 0 of 2 pages",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := augmentOutcome(&out, "site", tt.summary, tt.err, tt.strict, tt.dryRun)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q, want it to contain %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestBuildHasStrictFlag(t *testing.T) {
	if buildCmd.Flags().Lookup("strict") == nil {
		t.Error("build is missing --strict")
	}
}
