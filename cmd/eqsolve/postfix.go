package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nt314p/eqsolve/equations"
	"github.com/spf13/cobra"
)

func newPostfixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "postfix <equation>",
		Short: "Print the classified tokens and postfix order of one equation",
		Example: "  eqsolve postfix 'x = (a + b) * c'\n" +
			"  eqsolve postfix -- -x^2",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPostfix(cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}
}

func printPostfix(out io.Writer, text string) error {
	eq, err := equations.ParseEquation(text)
	if err != nil {
		return err
	}

	if eq.IsAssignment() {
		fmt.Fprintf(out, "assigns %s\n", eq.LeftHandVariable)
	}
	for _, tok := range eq.Tokens {
		marker := ""
		if tok.Implied {
			marker = " (implied)"
		}
		fmt.Fprintf(out, "  %s%s\n", tok, marker)
	}

	postfix := eq.Postfix()
	texts := make([]string, len(postfix))
	for i, tok := range postfix {
		texts[i] = tok.Text
	}
	fmt.Fprintf(out, "postfix: %s\n", strings.Join(texts, " "))
	return nil
}
