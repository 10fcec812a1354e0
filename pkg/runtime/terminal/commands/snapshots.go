package commands

import (
	"fmt"
	"strconv"

	"github.com/de-tools/macro-atlas/pkg/adapters"
	"github.com/de-tools/macro-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/macro-atlas/pkg/store/archive"
	"github.com/de-tools/macro-atlas/pkg/store/sqlite/snapshot"
	"github.com/spf13/cobra"
)

func NewSnapshotsCmd(env EnvironmentFunc, reporter *export.Reporter) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage saved explorer results",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSnapshots(env, func(store snapshot.Store) error {
				records, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return reporter.Snapshots(records)
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum number of snapshots to list (0 for all)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSnapshots(env, func(store snapshot.Store) error {
				record, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return reporter.Snapshot(adapters.MapRecordToSnapshot(*record))
			})
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSnapshots(env, func(store snapshot.Store) error {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %d\n", id)
				return nil
			})
		},
	}

	var target archive.Config
	exportCmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Upload a saved snapshot to S3 as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e := env()
			cfg := mergeArchive(e.Archive, target)
			return withSnapshots(env, func(store snapshot.Store) error {
				record, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				exporter, err := archive.New(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				key, err := exporter.Export(cmd.Context(), *record)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported snapshot %d to s3://%s/%s\n", id, cfg.Bucket, key)
				return nil
			})
		},
	}
	exportCmd.Flags().StringVar(&target.Bucket, "bucket", "", "Destination bucket (overrides archive.bucket)")
	exportCmd.Flags().StringVar(&target.Prefix, "prefix", "", "Key prefix (overrides archive.prefix)")
	exportCmd.Flags().StringVar(&target.Region, "region", "", "AWS region (overrides archive.region)")
	exportCmd.Flags().StringVar(&target.Endpoint, "endpoint", "", "S3-compatible endpoint URL")
	exportCmd.Flags().BoolVar(&target.PathStyle, "path-style", false, "Use path-style addressing")

	cmd.AddCommand(list, show, remove, exportCmd)
	return cmd
}

// mergeArchive lets non-empty flag values override settings.
func mergeArchive(base, override archive.Config) archive.Config {
	if override.Bucket != "" {
		base.Bucket = override.Bucket
	}
	if override.Prefix != "" {
		base.Prefix = override.Prefix
	}
	if override.Region != "" {
		base.Region = override.Region
	}
	if override.Endpoint != "" {
		base.Endpoint = override.Endpoint
	}
	if override.PathStyle {
		base.PathStyle = true
	}
	return base
}

func withSnapshots(env EnvironmentFunc, fn func(snapshot.Store) error) error {
	store, closeDB, err := env().openSnapshots()
	if err != nil {
		return err
	}
	defer closeDB()
	return fn(store)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot id %q", raw)
	}
	return id, nil
}
