package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/site"
	"github.com/vango-dev/vroute/pkg/export"
)

func exportCmd(flags *globalFlags) *cobra.Command {
	var (
		dir         string
		bucket      string
		prefix      string
		concurrency int
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "export [path...]",
		Short: "Render static pages to a directory or an S3 bucket",
		Long: `Render every site route without parameters, the export.paths list and
any paths given as arguments, and store them as path/index.html.

The destination is export.dir, or the export.s3 bucket when one is set.
Files of static.dir are copied alongside, under static.prefix.

Examples:
  vroute export
  vroute export /guides/intro /guides/install --dir=public
  vroute export --bucket=my-site --prefix=v2/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Export.Dir = dir
			}
			if bucket != "" {
				cfg.Export.S3.Bucket = bucket
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Export.S3.Prefix = prefix
			}

			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}
			app, err := buildSite(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := newStack(ctx, cfg, app, logger, serverConfig(cfg))
			if err != nil {
				return err
			}
			defer st.shutdown(ctx)

			var (
				store export.Store
				dest  string
			)
			if s3 := cfg.Export.S3; s3.Bucket != "" {
				client, err := export.NewS3Client(ctx, export.S3Options{
					Region:    s3.Region,
					Endpoint:  s3.Endpoint,
					PathStyle: s3.PathStyle,
				})
				if err != nil {
					return err
				}
				store = export.NewS3Store(client, s3.Bucket, s3.Prefix)
				dest = "s3://" + s3.Bucket + "/" + s3.Prefix
			} else {
				out := cfg.Export.Dir
				if !filepath.IsAbs(out) && cfg.Dir() != "" && dir == "" {
					out = filepath.Join(cfg.Dir(), out)
				}
				disk, err := export.NewDiskStore(out)
				if err != nil {
					return err
				}
				store = disk
				dest = disk.Dir()
			}

			paths := site.StaticPaths(cfg.Site.Routes)
			paths = append(paths, cfg.Export.Paths...)
			paths = append(paths, args...)

			exporter := export.New(st.server, store,
				export.WithLogger(logger),
				export.WithConcurrency(concurrency),
			)
			results, err := exporter.Export(ctx, paths)
			if err != nil {
				return err
			}

			copied := 0
			if cfg.Static.Dir != "" {
				copied, err = exporter.CopyFiles(ctx, os.DirFS(cfg.Resolve(cfg.Static.Dir)), cfg.Static.Prefix)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, results)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range results {
				target := r.Key
				if r.Redirect != "" {
					target += " -> " + r.Redirect
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Status, r.Path, target)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, r := range results {
				if r.Status >= 400 {
					warn(out, "%s rendered with status %d", r.Path, r.Status)
				}
			}
			success(out, "Exported %d pages to %s", len(results), dest)
			if copied > 0 {
				info(out, "Copied %d static files", copied)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Upload to this S3 bucket instead of a directory")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "Pages rendered at once")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")

	return cmd
}
