package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/malphas-lang/humanabi"
	"github.com/malphas-lang/humanabi/internal/config"
	"github.com/malphas-lang/humanabi/internal/diag"
	applog "github.com/malphas-lang/humanabi/internal/log"
)

// errReported means the failure was already printed as a diagnostic.
var errReported = errors.New("reported")

const stdinName = "<stdin>"

type globalFlags struct {
	ConfigPath string
	Output     string
	Verbose    bool
}

// cli is the state shared by every subcommand.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	flags  globalFlags
	opts   *config.Options
	logger *zap.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "humanabi",
		Short: "Compile human-readable contract interfaces",
		Long: `humanabi compiles declarations such as

  function transfer(address to, uint256 amount) external returns (bool)
  event Transfer(address indexed from, address indexed to, uint256 value)

into standard JSON ABI, selectors and event topics. Sources are read from
the named file, or from standard input when the file is "-" or missing.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&c.flags.ConfigPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVarP(&c.flags.Output, "output", "o", "", "output format: text|json (default from config)")
	root.PersistentFlags().BoolVarP(&c.flags.Verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		c.parseCmd(),
		c.checkCmd(),
		c.selectorsCmd(),
		c.tokensCmd(),
		c.astCmd(),
		c.serveCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger. Flags win over the
// file.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	opts, err := config.Load(c.flags.ConfigPath)
	if err != nil {
		return err
	}
	if c.flags.Output != "" {
		opts.Output.Format = c.flags.Output
	}
	if c.flags.Verbose {
		opts.Log.Level = "debug"
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	logger, err := applog.New(opts.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	c.opts = opts
	c.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

func (c *cli) jsonOutput() bool {
	return c.opts.Output.Format == config.FormatJSON
}

// readSource reads the file named by args, or standard input.
func (c *cli) readSource(args []string) (name, src string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(c.in)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return stdinName, string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(data), nil
}

func (c *cli) compileOptions(name string) []humanabi.Option {
	return []humanabi.Option{
		humanabi.WithFilename(name),
		humanabi.WithLogger(c.logger),
		humanabi.WithMaxNodes(c.opts.Parser.MaxNodes),
		humanabi.WithMaxTokens(c.opts.Parser.MaxTokens),
	}
}

// report renders err as a source diagnostic when it carries one.
func (c *cli) report(err error, name, src string) error {
	d, ok := diag.From(err)
	if !ok {
		return err
	}
	f := diag.NewFormatter(c.errOut)
	f.AddSource(name, src)
	f.Format(d)
	return errReported
}
