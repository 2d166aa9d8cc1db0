package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/malphas-lang/humanabi"
	"github.com/malphas-lang/humanabi/internal/diag"
	"github.com/malphas-lang/humanabi/internal/lexer"
)

func (c *cli) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := c.readSource(args)
			if err != nil {
				return err
			}

			l := lexer.New(src)
			l.SetFilename(name)
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			for {
				tok := l.Next()
				span := lexer.Locate(src, tok)
				fmt.Fprintf(w, "%d:%d\t%s\t%q\n", span.Line, span.Column, tok.Type, tok.Lexeme(src))
				if tok.Type == lexer.EOF {
					break
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if len(l.Errors) == 0 {
				return nil
			}
			f := diag.NewFormatter(c.errOut)
			f.AddSource(name, src)
			for _, e := range l.Errors {
				f.Format(e.ToDiagnostic())
			}
			return errReported
		},
	}
}

func (c *cli) astCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := c.readSource(args)
			if err != nil {
				return err
			}
			tree, err := humanabi.ParseTree(src, c.compileOptions(name)...)
			if err != nil {
				return c.report(err, name, src)
			}
			return tree.Dump(c.out, 0)
		},
	}
}
