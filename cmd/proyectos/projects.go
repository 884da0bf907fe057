package main

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"proyectos/internal/client"
	"proyectos/internal/views"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects through a running API",
	}
	cmd.PersistentFlags().String("api", "", "API base URL (overrides config)")

	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(newProjectsCreateCmd())
	cmd.AddCommand(newProjectsDeleteCmd())
	return cmd
}

func projectsClient(cmd *cobra.Command) (*client.Client, *views.Home, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	baseURL := cfg.API.BaseURL
	if v, _ := cmd.Flags().GetString("api"); v != "" {
		baseURL = v
	}
	api := client.New(baseURL, client.WithLogger(logger))
	return api, views.NewHome(api, logger), nil
}

func newProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, home, err := projectsClient(cmd)
			if err != nil {
				return err
			}
			list := home.Load(cmd.Context())
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No projects.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOMBRE\tFECHA\tIMAGEN")
			for _, p := range list {
				image := p.Image
				if strings.HasPrefix(image, "data:") {
					image = "(custom)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.CreatedAt, image)
			}
			return w.Flush()
		},
	}
}

func newProjectsCreateCmd() *cobra.Command {
	var (
		form      views.CreateForm
		imageFile string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := projectsClient(cmd)
			if err != nil {
				return err
			}
			if imageFile != "" {
				form.CustomImage, err = dataURL(imageFile)
				if err != nil {
					return err
				}
			}
			p, err := form.Submit(cmd.Context(), api, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.ID, p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&form.Description, "description", "", "project description (required)")
	cmd.Flags().IntVar(&form.DefaultIndex, "image", 0, "bundled image index (0-2)")
	cmd.Flags().StringVar(&imageFile, "image-file", "", "custom image file, sent as a data URL")
	return cmd
}

func newProjectsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, home, err := projectsClient(cmd)
			if err != nil {
				return err
			}
			home.Load(cmd.Context())
			if err := home.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
			return nil
		},
	}
}

func dataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%s is not an image", path)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
