package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/promptcheck/api"
	"github.com/stellarlinkco/promptcheck/internal/store"
)

func newServeCmd(st *cliState) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored run summaries over HTTP",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(st.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			srv, err := api.NewServer(st.cfg, db)
			if err != nil {
				return err
			}

			if addr == "" {
				addr = st.cfg.Server.Addr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
			return srv.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
