package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/finmesh"
)

// runInteractive prompts for stock symbols in a loop until the user quits.
func runInteractive(cmd *cobra.Command, _ []string) error {
	mesh, err := finmesh.New(cfg)
	if err != nil {
		return err
	}
	defer mesh.Close()

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintln(out, "finmesh interactive mode. Enter a stock symbol, or 'quit' to exit.")
	for {
		fmt.Fprint(out, "\nSymbol> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			continue
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Bye.")
			return nil
		}

		symbol := strings.ToUpper(input)
		query := fmt.Sprintf("Analyze the stock %s.", symbol)
		printResult(out, mesh.Analyze(cmd.Context(), symbol, query))
	}
}
