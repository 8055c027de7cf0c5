package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Project-Sylos/Cabinet/internal/api"
	"github.com/Project-Sylos/Cabinet/internal/config"
	"github.com/Project-Sylos/Cabinet/internal/logging"
	"github.com/Project-Sylos/Cabinet/internal/types"
	"github.com/Project-Sylos/Cabinet/sdk"
	"github.com/spf13/cobra"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagParent   = "parent"
	flagForce    = "force"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	r := &cobra.Command{
		Use:           "cabinet",
		Short:         "Cabinet - hierarchical folder and file storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	r.PersistentFlags().String(flagConfig, "", "Configuration file path (JSON or YAML); defaults apply when empty")
	r.PersistentFlags().String(flagLogLevel, "", "Override the configured log level")

	r.AddCommand(serveCmd(), initCmd(), seedCmd(), demoCmd())
	return r
}

// serveCmd starts the HTTP API until interrupted
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the store over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cabinet, err := open(cmd)
			if err != nil {
				return err
			}
			return api.Serve(cmd.Context(), cabinet, 30*time.Second)
		},
	}
}

// initCmd writes the default configuration so it can be edited
func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file (.json, .yaml or .yml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "cabinet.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			force, _ := cmd.Flags().GetBool(flagForce)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --%s to overwrite)", path, flagForce)
			}

			cfg := config.DefaultConfig()
			if err := config.SaveToFile(&cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool(flagForce, false, "Overwrite an existing file")
	return cmd
}

// seedCmd fills the store with a deterministic random tree
func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the store with a generated folder tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cabinet, err := open(cmd)
			if err != nil {
				return err
			}
			defer cabinet.Close()

			var parentID *int64
			if cmd.Flags().Changed(flagParent) {
				id, _ := cmd.Flags().GetInt64(flagParent)
				parentID = &id
			}

			summary, err := cabinet.Seed(cmd.Context(), parentID)
			if err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d folders and %d files (%d bytes)\n", summary.Folders, summary.Files, summary.Bytes)
			return nil
		},
	}
	cmd.Flags().Int64(flagParent, 0, "Folder id to seed under (root level when omitted)")
	return cmd
}

// demoCmd walks through the SDK: create, upload, browse, clean up
func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a short SDK demonstration against the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cabinet, err := open(cmd)
			if err != nil {
				return err
			}
			defer cabinet.Close()
			return runDemo(cmd.Context(), cabinet, cmd.OutOrStdout())
		},
	}
}

func runDemo(ctx context.Context, cabinet *sdk.Cabinet, out io.Writer) error {
	fmt.Fprintln(out, "Cabinet - SDK Demo")
	fmt.Fprintln(out, "==================")

	docs, err := cabinet.CreateFolder(ctx, "demo-docs", nil)
	if err != nil {
		return err
	}
	notes, err := cabinet.CreateFolder(ctx, "notes", &docs.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created folders %q (ID: %d) and %q (ID: %d)\n", docs.Name, docs.ID, notes.Name, notes.ID)

	content := "Cabinet keeps folders in DuckDB and payloads in the configured store.\n"
	file, err := cabinet.UploadFile(ctx, sdk.FileUpload{
		Name:        "readme.txt",
		ContentType: "text/plain",
		Size:        int64(len(content)),
		ParentID:    &notes.ID,
		Body:        strings.NewReader(content),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Uploaded %s (ID: %d, Size: %d bytes)\n", file.Name, file.ID, file.Size)

	view, err := cabinet.GetFolder(ctx, notes.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Folder %s has %d file(s); ancestors:", view.Path, len(view.Files))
	for _, ancestor := range view.Ancestors {
		fmt.Fprintf(out, " %s(%d)", ancestor.Name, ancestor.ID)
	}
	fmt.Fprintln(out)

	data, err := fs.ReadFile(cabinet.AsFS(ctx), "demo-docs/notes/readme.txt")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Read back via fs.FS: %q\n", strings.TrimSpace(string(data)))

	stats, err := cabinet.GetStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Store holds %d folders, %d files, %d bytes\n", stats.Folders, stats.Files, stats.Bytes)

	if err := cabinet.DeleteFolder(ctx, docs.ID, true); err != nil {
		return err
	}
	fmt.Fprintln(out, "Removed the demo folders again")
	fmt.Fprintln(out, "\nTo start the API server, run:")
	fmt.Fprintln(out, "  cabinet serve --config cabinet.yaml")
	return nil
}

// open loads the configuration named by --config and opens the store
func open(cmd *cobra.Command) (*sdk.Cabinet, error) {
	configPath, _ := cmd.Flags().GetString(flagConfig)
	logLevel, _ := cmd.Flags().GetString(flagLogLevel)

	var cfg *types.Config
	if configPath == "" {
		defaults := config.DefaultConfig()
		cfg = &defaults
	} else {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := logging.Setup(cfg.Log); err != nil {
		return nil, err
	}
	return sdk.NewFromConfig(cfg)
}
