package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"proyectos/internal/cart"
)

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Shopping cart commands",
	}
	cmd.AddCommand(newCartExportCmd())
	return cmd
}

func newCartExportCmd() *cobra.Command {
	var repo, path string

	cmd := &cobra.Command{
		Use:   "export <name=price>...",
		Short: "Write the cart to a GitHub repository file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("repo") {
				cfg.Cart.Repo = repo
			}
			if cmd.Flags().Changed("path") {
				cfg.Cart.Path = path
			}

			var c cart.Cart
			for _, spec := range args {
				if err := c.AddSpec(spec); err != nil {
					return err
				}
			}

			exp, err := cart.NewExporter(cmd.Context(), cart.ExporterConfig{
				Token:   cfg.Cart.Token,
				Repo:    cfg.Cart.Repo,
				Path:    cfg.Cart.Path,
				BaseURL: cfg.Cart.BaseURL,
				Logger:  logger,
			})
			if err != nil {
				return err
			}
			outcome, err := exp.Export(cmd.Context(), c.Items())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cart %s: %d item(s), total %.2f\n", outcome, c.Len(), c.Total())
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "target repository as owner/name (overrides config)")
	cmd.Flags().StringVar(&path, "path", "", "file path in the repository (overrides config)")
	return cmd
}
