package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		template string
		title    string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter vroute configuration",
		Long: `Create a vroute configuration in dir (default: the current directory).

Templates:
  minimal   A home page and a not-found fallback (default)
  docs      Nested routes, a redirect, metrics and an export list
  json      The minimal site as vroute.json

Examples:
  vroute init
  vroute init handbook --template=docs --title="The Handbook"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(abs)
			}

			tmpl, err := templates.Get(template)
			if err != nil {
				return err
			}
			if err := tmpl.Create(abs, templates.Config{ProjectName: name, Title: title}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Created %s site in %s", tmpl.Name, abs)
			info(out, "Run 'vroute serve --config %s' to start it", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "minimal", "Starter template (minimal, docs, json)")
	cmd.Flags().StringVar(&title, "title", "", "Site title (default: project name)")
	cmd.Flags().StringVar(&name, "name", "", "Project name (default: directory name)")

	return cmd
}
