package main

import (
	"github.com/spf13/cobra"

	"github.com/danielos/arthur/config"
	"github.com/danielos/arthur/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/WebSocket chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			arthur, cleanup, err := newAgent(cmd.Context(), cfg, store)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = ":" + cfg.Port
			}

			srv := server.New(server.Config{Agent: arthur})
			return srv.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":$PORT\")")
	return cmd
}
