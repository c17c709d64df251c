// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"

	"github.com/mdhender/visrpt/web/auth"
	"github.com/spf13/cobra"
)

func cmdHashPassword() *cobra.Command {
	return &cobra.Command{
		Use:          "hash-password <password>",
		Short:        "print the bcrypt hash for an admin password",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}
