package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/peerpath/internal/app"
	"github.com/yungbote/peerpath/internal/config"
	"github.com/yungbote/peerpath/internal/platform/logger"
	"github.com/yungbote/peerpath/internal/recommend"
)

type recommendOptions struct {
	topK    int
	fixture string
	asJSON  bool
	verbose bool
}

func newRecommendCmd(root *rootOptions) *cobra.Command {
	opts := &recommendOptions{}
	cmd := &cobra.Command{
		Use:   "recommend <student name>",
		Short: "Print course recommendations for one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(config.WithFixture(opts.fixture))
			if err != nil {
				return err
			}
			log := logger.NewNop()
			if opts.verbose {
				if log, err = logger.New(cfg.Env); err != nil {
					return fmt.Errorf("init logger: %w", err)
				}
			}

			a, err := app.New(cmd.Context(), *cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Services.Recommend.Recommend(cmd.Context(), args[0], recommend.Options{Neighbors: opts.topK})
			if err != nil {
				return err
			}
			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&opts.topK, "top-k", 0, "number of alumni peers to consult (default from config)")
	cmd.Flags().StringVar(&opts.fixture, "fixture", "", "read the academic graph from a YAML fixture instead of neo4j")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline progress to stderr")
	return cmd
}

func printResult(w io.Writer, res *recommend.Result) error {
	fmt.Fprintf(w, "student %s (degree %s), %d peers, projected %s finish\n\n",
		res.StudentID, res.DegreeID, len(res.Peers), res.Season)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOURSE\tPEER GPA\tTERM")
	for i, s := range res.Scores {
		term := "-"
		if i < len(res.Plan) {
			term = res.Plan[i].Term
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\n", i+1, s.CourseID, s.Score, term)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\naverage peer GPA: %.2f\n", res.Average)
	return err
}
