package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newFeedsCommand(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "Write feed.xml, atom.xml and sitemap.xml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.writeFeeds(cmd.Context(), outDir)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "public", "output directory")
	return cmd
}

func (a *app) writeFeeds(ctx context.Context, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	gen := a.module.Feeds()
	dir := a.cfg.ContentDir()
	outputs := []struct {
		name  string
		build func(context.Context, string) (string, error)
	}{
		{"feed.xml", gen.RSS},
		{"atom.xml", gen.Atom},
		{"sitemap.xml", gen.Sitemap},
	}

	for _, out := range outputs {
		body, err := out.build(ctx, dir)
		if err != nil {
			return fmt.Errorf("build %s: %w", out.name, err)
		}
		target := filepath.Join(outDir, out.name)
		if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		fmt.Fprintf(a.stdout, "wrote %s\n", target)
	}
	a.logger.Info("cli.feeds.written", "dir", outDir, "count", len(outputs))
	return nil
}
