package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/malphas-lang/humanabi"
	"github.com/malphas-lang/humanabi/item"
)

func (c *cli) parseCmd() *cobra.Command {
	var params, eventParams bool
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the JSON ABI of the declarations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := c.readSource(args)
			if err != nil {
				return err
			}

			var out any
			switch {
			case eventParams:
				out, err = humanabi.ParseEventParameters(src, c.compileOptions(name)...)
			case params:
				out, err = humanabi.ParseParameters(src, c.compileOptions(name)...)
			default:
				var items item.List
				items, err = humanabi.Parse(src, c.compileOptions(name)...)
				if items == nil {
					items = item.List{}
				}
				out = items
			}
			if err != nil {
				return c.report(err, name, src)
			}
			return c.writeJSON(out)
		},
	}
	cmd.Flags().BoolVar(&params, "params", false, "parse a bare parameter list")
	cmd.Flags().BoolVar(&eventParams, "event-params", false, "parse a bare event parameter list")
	cmd.MarkFlagsMutuallyExclusive("params", "event-params")
	return cmd
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Report diagnostics without printing output",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			failed := 0
			for _, arg := range args {
				name, src, err := c.readSource([]string{arg})
				if err != nil {
					return err
				}
				items, err := humanabi.Parse(src, c.compileOptions(name)...)
				if err != nil {
					if rerr := c.report(err, name, src); rerr != errReported {
						return rerr
					}
					failed++
					continue
				}
				c.logger.Debug("checked", zap.String("file", name), zap.Int("items", len(items)))
				fmt.Fprintf(c.out, "ok %s (%d items)\n", name, len(items))
			}
			if failed > 0 {
				return errReported
			}
			return nil
		},
	}
}

func (c *cli) selectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selectors [file]",
		Short: "Print function and error selectors and event topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := c.readSource(args)
			if err != nil {
				return err
			}
			items, err := humanabi.Parse(src, c.compileOptions(name)...)
			if err != nil {
				return c.report(err, name, src)
			}

			entries := items.Selectors()
			if c.jsonOutput() {
				if entries == nil {
					entries = []item.SelectorEntry{}
				}
				return c.writeJSON(entries)
			}
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Kind, e.Selector, e.Signature)
			}
			return w.Flush()
		},
	}
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
