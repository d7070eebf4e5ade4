package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var showStatus bool

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render one path of the site to stdout",
		Long: `Render one path of the site as a complete HTML document, exactly as
the server would answer a GET request. Redirects print their target to
stderr instead.

Examples:
  vroute render /
  vroute render /guides/intro --status`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}
			app, err := buildSite(cfg)
			if err != nil {
				return err
			}

			st, err := newStack(cmd.Context(), cfg, app, logger, serverConfig(cfg))
			if err != nil {
				return err
			}
			defer st.shutdown(cmd.Context())

			srv := st.server
			page, err := srv.Resolve(cmd.Context(), http.MethodGet, cfg.Server.Basename+args[0])
			if err != nil {
				return err
			}

			if showStatus || page.Redirected() {
				printStatus(cmd.ErrOrStderr(), page.Status, page.Redirect)
			}
			if page.Redirected() {
				return nil
			}
			return srv.WritePage(cmd.OutOrStdout(), page)
		},
	}

	cmd.Flags().BoolVar(&showStatus, "status", false, "Print the HTTP status to stderr")

	return cmd
}

func printStatus(w io.Writer, status int, redirect string) {
	if redirect != "" {
		fmt.Fprintf(w, "%d %s -> %s\n", status, http.StatusText(status), redirect)
		return
	}
	fmt.Fprintf(w, "%d %s\n", status, http.StatusText(status))
}
