package main

import (
	"github.com/spf13/cobra"

	"github.com/prismnews/prism/config"
	srv "github.com/prismnews/prism/internal/server"
)

func main() {
	var root = &cobra.Command{Use: "prism"}

	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			return srv.Run(cfg)
		},
	}
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	root.AddCommand(serve)
	_ = root.Execute()
}
