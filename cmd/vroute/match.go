package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/internal/site"
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/routeconfig"
)

func matchCmd() *cobra.Command {
	var opts pathmatch.Options

	cmd := &cobra.Command{
		Use:   "match <pattern> <path>",
		Short: "Match a path against a route pattern",
		Long: `Match a path against a route pattern and print the match as JSON.
Prints null when the pattern does not match.

Examples:
  vroute match /users/:id /users/42
  vroute match /users /users/42 --exact`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			loc := history.ParsePath(args[1])
			m, err := pathmatch.MatchPath(loc.Pathname, opts, nil)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), m)
		},
	}

	cmd.Flags().BoolVar(&opts.Exact, "exact", false, "Require the pattern to consume the whole path")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Make a trailing slash significant")
	cmd.Flags().BoolVar(&opts.Sensitive, "sensitive", false, "Match case-sensitively")

	return cmd
}

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <pattern> [name=value...]",
		Short: "Build a path from a route pattern",
		Long: `Build a path from a route pattern by substituting parameters.

Examples:
  vroute generate /users/:id id=42
  vroute generate /files/:path* path=docs/intro.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make(map[string]string, len(args)-1)
			for _, arg := range args[1:] {
				name, value, ok := strings.Cut(arg, "=")
				if !ok || name == "" {
					return fmt.Errorf("parameter %q is not name=value", arg)
				}
				params[name] = value
			}

			path, err := pathmatch.Generate(args[0], params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func routesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes <path>",
		Short: "Show which site routes match a path",
		Long: `Walk the site's route table for a path and print the matched branch,
outermost route first.

Example:
  vroute routes /guides/intro/edit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			routes, err := site.Build(cfg.Site.Routes)
			if err != nil {
				return err
			}

			pathname := history.StripBasename(history.ParsePath(args[0]).Pathname, cfg.Server.Basename)
			branch, err := routeconfig.MatchRoutes(routes, pathname)
			if err != nil {
				return err
			}
			if len(branch) == 0 {
				return errors.New("R030").WithRoute(args[0]).WithDetail("No site route matches this path.")
			}
			printBranch(cmd.OutOrStdout(), branch)
			return nil
		},
	}
}

func printBranch(w io.Writer, branch []routeconfig.Branch) {
	for depth, b := range branch {
		pattern := b.Route.Path
		if pattern == "" {
			pattern = "(any)"
		}
		line := strings.Repeat("  ", depth) + pattern + "  " + b.Match.URL
		if b.Route.Redirect != "" {
			line += "  -> " + b.Route.Redirect
		}
		if len(b.Match.Params) > 0 {
			pairs := make([]string, 0, len(b.Match.Params))
			for _, k := range slices.Sorted(maps.Keys(b.Match.Params)) {
				pairs = append(pairs, k+"="+b.Match.Params[k])
			}
			line += "  " + strings.Join(pairs, " ")
		}
		fmt.Fprintln(w, line)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
