package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newPreviewCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "preview <slug>",
		Short: "Compile a single post and print its HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			slug := args[0]

			rendered, err := a.module.Render(ctx, slug)
			if err != nil {
				return fmt.Errorf("render %s: %w", slug, err)
			}
			if rendered == nil {
				return fmt.Errorf("post %q not found in %s", slug, a.cfg.ContentDir())
			}
			if rendered.Compiled.Fallback {
				a.logger.Warn("cli.preview.fallback", "slug", slug, "error", rendered.Compiled.Err)
			}

			if asJSON {
				rendered.Post.Content = ""
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rendered)
			}

			post := rendered.Post
			fmt.Fprintf(a.stdout, "Title: %s\nDate: %s\nCategory: %s\nAuthor: %s\nReading time: %d min\n",
				post.Title, post.Date, post.Category, post.Author, post.ReadingTime)
			if len(post.Tags) > 0 {
				fmt.Fprintf(a.stdout, "Tags: %v\n", post.Tags)
			}
			if rendered.Compiled.Fallback {
				fmt.Fprintln(a.stdout, "Fallback: true")
			}
			fmt.Fprintf(a.stdout, "\n%s\n", a.module.Display(ctx, rendered))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the rendered post as JSON")
	return cmd
}
