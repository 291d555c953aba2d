package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/finmesh"
	"github.com/hupe1980/finmesh/agent"
	"github.com/hupe1980/finmesh/core"
)

var streamMode bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL [question...]",
	Short: "Run the analysis pipeline for a stock symbol",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&streamMode, "stream", false,
		"print a state snapshot after every pipeline stage")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])
	query := fmt.Sprintf("Analyze the stock %s.", symbol)
	if len(args) > 1 {
		query = strings.Join(args[1:], " ")
	}

	mesh, err := finmesh.New(cfg)
	if err != nil {
		return err
	}
	defer mesh.Close()

	out := cmd.OutOrStdout()

	if streamMode {
		for event := range mesh.AnalyzeStream(cmd.Context(), symbol, query) {
			fmt.Fprintf(out, "--- stage %s (status %s, iteration %d) ---\n",
				event.Node, event.Status, event.State.Iteration)
			if last := lastMessage(event.State); last != "" {
				fmt.Fprintf(out, "    %s\n", last)
			}
			if event.Status.IsTerminal() {
				printResult(out, event.State)
			}
		}
		return nil
	}

	printResult(out, mesh.Analyze(cmd.Context(), symbol, query))
	return nil
}

func lastMessage(state *core.State) string {
	if len(state.Messages) == 0 {
		return ""
	}
	return state.Messages[len(state.Messages)-1].Content
}

func printResult(out io.Writer, state *core.State) {
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "Run %s finished with status %q after %d iteration(s)\n",
		state.RunID, state.Status, state.Iteration+1)
	if len(state.NewsData) > 0 {
		s := agent.SummarizeNewsSentiment(state.NewsData)
		fmt.Fprintf(out, "News sentiment: %s (%d positive / %d negative / %d neutral of %d articles)\n",
			s.Overall, s.Positive, s.Negative, s.Neutral, s.Scored)
	}
	if len(state.Errors) > 0 {
		fmt.Fprintf(out, "Issues recorded during the run: %d\n", len(state.Errors))
		for _, e := range state.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, state.FinalReport)
}
