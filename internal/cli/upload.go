package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/johanmcad/workbench/internal/community"
	"github.com/johanmcad/workbench/internal/model"
)

var flagBrowseLimit int

var uploadCmd = &cobra.Command{
	Use:   "upload [run-id]",
	Short: "Upload a stored run (the latest by default) to the community service",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := community.NewClient(cfg.Community, slog.Default())
		if errors.Is(err, community.ErrDisabled) {
			return errors.New("no community service configured; set community.base_url")
		}
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		var run *model.BenchmarkRun
		if len(args) == 1 {
			run, err = store.Load(args[0])
		} else {
			run, err = store.Latest()
		}
		if err != nil {
			return err
		}
		if run.RemoteID != "" {
			return fmt.Errorf("run %s was already uploaded as %s", shortID(run), run.RemoteID)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Community.Timeout)
		defer cancel()
		remoteID, err := client.Upload(ctx, run)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		run.RemoteID = remoteID
		run.UploadedAt = &now
		if _, err := store.Save(run); err != nil {
			return fmt.Errorf("uploaded as %s, but updating local history failed: %w", remoteID, err)
		}
		fmt.Printf("Uploaded run %s as %s\n", shortID(run), remoteID)
		return nil
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse recent community submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := community.NewClient(cfg.Community, slog.Default())
		if errors.Is(err, community.ErrDisabled) {
			return errors.New("no community service configured; set community.base_url")
		}
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Community.Timeout)
		defer cancel()
		entries, err := client.Browse(ctx, community.BrowseOptions{Limit: flagBrowseLimit})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No community submissions found.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-10s %-16s %-8s %6d  %s\n",
				e.ID, e.MachineName, e.DeviceType, e.OverallScore,
				e.SubmittedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	browseCmd.Flags().IntVar(&flagBrowseLimit, "limit", 20, "maximum entries to list")
	rootCmd.AddCommand(uploadCmd, browseCmd)
}
