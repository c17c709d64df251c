// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"log"

	store "github.com/mdhender/visrpt/stores/sqlite"
	"github.com/spf13/cobra"
)

func cmdDB() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "db",
		Short: "manage the run history database",
	}
	cmd.AddCommand(cmdDBInit())
	cmd.AddCommand(cmdDBCompact())
	return cmd
}

func cmdDBInit() *cobra.Command {
	return &cobra.Command{
		Use:          "init <path>",
		Short:        "create a new run history database",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.InitDatabase(args[0]); err != nil {
				return err
			}
			log.Printf("db: created %s", args[0])
			return nil
		},
	}
}

func cmdDBCompact() *cobra.Command {
	return &cobra.Command{
		Use:          "compact <path>",
		Short:        "checkpoint and vacuum a run history database",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.CompactDatabase(args[0]); err != nil {
				return err
			}
			log.Printf("db: compacted %s", args[0])
			return nil
		},
	}
}
