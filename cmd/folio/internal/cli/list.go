package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	var (
		tag      string
		category string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts newest first and report skipped files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dir := a.cfg.ContentDir()

			all, report, err := a.module.Posts().GetAllWithReport(ctx, dir)
			if err != nil {
				return fmt.Errorf("list %s: %w", dir, err)
			}

			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tSLUG\tCATEGORY\tTITLE")
			shown := 0
			for _, post := range all {
				if tag != "" && !post.HasTag(tag) {
					continue
				}
				if category != "" && post.Category != category {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", post.PublishedAt.Format("2006-01-02"), post.Slug, post.Category, post.Title)
				shown++
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, skipped := range report.Skipped {
				fmt.Fprintf(a.stderr, "skipped %s: %v\n", skipped.Slug, skipped.Err)
			}
			fmt.Fprintf(a.stdout, "\n%d shown, %s\n", shown, report)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only list posts with this tag")
	cmd.Flags().StringVar(&category, "category", "", "only list posts in this category")
	return cmd
}
