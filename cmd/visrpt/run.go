// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mdhender/visrpt/model"
	"github.com/mdhender/visrpt/pipelines/stages"
	store "github.com/mdhender/visrpt/stores/sqlite"
	"github.com/spf13/cobra"
)

func cmdRun() *cobra.Command {
	cfg := stages.DefaultRunConfig()
	var dbPath string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&cfg.MembersPath, "members", cfg.MembersPath, "path to members.csv")
		cmd.Flags().StringVar(&cfg.VisitsPath, "visits", cfg.VisitsPath, "path to visits.csv")
		cmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "path to the tabular report")
		cmd.Flags().StringVar(&cfg.SummaryPath, "summary", cfg.SummaryPath, "path to the summary JSON")
		cmd.Flags().IntVar(&cfg.TopN, "top-n", cfg.TopN, "number of members in the ranking")
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "record the run in this SQLite database (must exist)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "run",
		Short:        "run the report pipeline once",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			quiet, _ := cmd.Flags().GetBool("quiet")

			logger := log.Default()
			if quiet {
				logger = nil
			}

			started := time.Now()
			runner := stages.NewRunner(logger)
			result, err := runner.Run(ctx, cfg)
			if err != nil {
				return err
			}

			log.Printf("run: %d valid visits, %d walk-ins, %d groups, %d rejected rows in %v",
				result.Summary.TotalValidVisits, result.Summary.TotalWalkIns,
				len(result.Grouped), len(result.Defects), time.Since(started))
			log.Printf("run: wrote %s and %s", cfg.OutputPath, cfg.SummaryPath)

			printHighlights(result.Summary, cfg.TopN)

			if dbPath != "" {
				if err := recordRun(ctx, dbPath, cfg, result); err != nil {
					return err
				}
			}

			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

// printHighlights echoes the ranking and walk-in count to stdout, the way
// operators eyeball a run without opening the artifacts.
func printHighlights(summary model.Summary, topN int) {
	fmt.Println("--------------------------------------------")
	fmt.Printf("Top %d members by visits:\n", topN)
	for _, tm := range summary.TopMembers {
		fmt.Printf("%s, %d\n", tm.MemberID, tm.VisitCount)
	}
	fmt.Println("--------------------------------------------")
	fmt.Printf("Total walk-ins: %d\n", summary.TotalWalkIns)
	fmt.Println("--------------------------------------------")
}

func recordRun(ctx context.Context, dbPath string, cfg stages.RunConfig, result *stages.RunResult) error {
	st, err := store.NewStoreWithConfig(store.StoreConfig{Path: dbPath})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	run := &model.Run{
		ID:               uuid.New().String(),
		GeneratedAt:      result.Summary.GeneratedAt,
		MembersPath:      cfg.MembersPath,
		VisitsPath:       cfg.VisitsPath,
		TotalValidVisits: result.Summary.TotalValidVisits,
		TotalWalkIns:     result.Summary.TotalWalkIns,
		GroupCount:       len(result.Grouped),
		DefectCount:      len(result.Defects),
		CreatedAt:        time.Now().UTC(),
		TopMembers:       result.Summary.TopMembers,
	}
	if err := st.InsertRun(ctx, run, result.Defects); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	log.Printf("run: recorded as %s in %s", run.ID, dbPath)
	return nil
}
