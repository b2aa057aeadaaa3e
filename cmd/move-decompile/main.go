// Command move-decompile turns compiled Move modules and scripts back into
// source text.
//
//	move-decompile --input coin.mv
//	move-decompile --input build/ --output src/ --dialect diem --jobs 8
//	move-decompile -i --input build/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	movedecompiler "github.com/wippyai/move-decompiler"
	"github.com/wippyai/move-decompiler/dialect"
)

// errFailed signals that some inputs failed after all were reported.
var errFailed = errors.New("some inputs failed")

var rootCmd = &cobra.Command{
	Use:   "move-decompile [flags] [file.mv|dir]",
	Short: "Decompile Move bytecode",
	Long: `move-decompile reconstructs Move source from compiled modules and scripts.

Settings are read from movedec.toml in the working directory, or from the
file named by --config. Flags override file values.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDecompile,
}

func init() {
	f := rootCmd.Flags()
	f.String("input", "", "compiled unit, or directory of *.mv files")
	f.String("output", "", "output file, or directory in directory mode")
	f.String("dialect", dialect.Default.Name, "address width preset ("+strings.Join(dialect.Names(), "|")+")")
	f.Bool("light", false, "render signatures only")
	f.Int("jobs", 0, "parallel workers (0 uses all CPUs for directories)")
	f.String("config", "", "config file (default ./"+defaultConfigFile+")")
	f.String("cache-dir", "", "on-disk output cache directory")
	f.String("color", "auto", "colorize diagnostics (auto|on|off)")
	f.BoolP("interactive", "i", false, "browse the output in a terminal UI")
	f.BoolP("verbose", "v", false, "development logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFailed) {
			reportError(os.Stderr, rootCmd.Name(), err)
		}
		os.Exit(1)
	}
}

func runDecompile(cmd *cobra.Command, args []string) error {
	o, err := parseOptions(cmd, args)
	if err != nil {
		return err
	}
	if err := setColor(o.Color, os.Stderr); err != nil {
		return err
	}

	log, err := newLogger(o.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	movedecompiler.SetLogger(log)

	if o.Interactive && !isTerminal(os.Stdout) {
		return fmt.Errorf("interactive mode needs a terminal")
	}

	units, dirMode, err := decompile(cmd.Context(), o, log)
	if err != nil {
		return err
	}
	if o.Interactive {
		return runInteractive(units)
	}

	s, err := writeUnits(units, o.Output, dirMode, cmd.OutOrStdout(), os.Stderr)
	if err != nil {
		return err
	}
	if dirMode {
		reportSummary(os.Stderr, s)
	}
	if s.failed > 0 {
		return errFailed
	}
	return nil
}

func parseOptions(cmd *cobra.Command, args []string) (options, error) {
	f := cmd.Flags()
	var o options
	o.Input, _ = f.GetString("input")
	o.Output, _ = f.GetString("output")
	o.Dialect, _ = f.GetString("dialect")
	o.Light, _ = f.GetBool("light")
	o.Jobs, _ = f.GetInt("jobs")
	o.CacheDir, _ = f.GetString("cache-dir")
	o.Color, _ = f.GetString("color")
	o.Interactive, _ = f.GetBool("interactive")
	o.Verbose, _ = f.GetBool("verbose")

	if len(args) == 1 {
		if o.Input != "" {
			return o, fmt.Errorf("input given both as --input and argument")
		}
		o.Input = args[0]
	}
	if o.Input == "" {
		return o, fmt.Errorf("no input; use --input <file.mv|dir>")
	}

	configPath, _ := f.GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return o, err
	}
	o.merge(cfg, f)
	if o.Jobs < 0 {
		return o, fmt.Errorf("--jobs must not be negative")
	}
	return o, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
