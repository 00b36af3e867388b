package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/memmaker/voxelengine/engine/util"
	"github.com/memmaker/voxelengine/settings"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd(os.Stdout)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	seed       int64
	generator  string
	logLevel   string
	statsview  string

	settings settings.Settings
	cleanups []func()
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "voxelengine",
		Short:        "Voxel terrain generation, export and viewing",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			opts.close()
		},
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "settings file (TOML); created with defaults when missing")
	flags.Int64Var(&opts.seed, "seed", 0, "terrain seed, overrides the settings file (0 keeps it)")
	flags.StringVarP(&opts.generator, "generator", "g", "", "terrain generator: heightmap, legacy, flat or nop")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: error, warning, info or debug")
	flags.StringVar(&opts.statsview, "statsview", "", "serve runtime statistics on this address, e.g. localhost:18066")

	cmd.AddCommand(generateCmd(opts))
	cmd.AddCommand(exportCmd(opts))
	cmd.AddCommand(simulateCmd(opts))
	cmd.AddCommand(viewCmd(opts))
	cmd.AddCommand(configCmd(opts))
	return cmd
}

// load reads the settings, applies the flag overrides and starts logging and diagnostics.
func (o *options) load(cmd *cobra.Command) error {
	s := settings.DefaultSettings()
	if o.configPath != "" {
		var err error
		if s, err = settings.Load(o.configPath); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("seed") && o.seed != 0 {
		s.World.Seed = o.seed
	}
	if o.generator != "" {
		s.World.Generator = o.generator
	}
	if o.logLevel != "" {
		s.Log.Level = o.logLevel
	}
	if o.statsview != "" {
		s.Diagnostics.StatsviewAddr = o.statsview
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if err := util.ConfigureLogging(s.Log.Level, s.Log.Categories, cmd.ErrOrStderr()); err != nil {
		return errors.Wrap(settings.ErrInvalidSettings, err.Error())
	}
	o.settings = s
	return o.startDiagnostics()
}

func (o *options) startDiagnostics() error {
	d := o.settings.Diagnostics
	if d.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: d.SentryDSN}); err != nil {
			return errors.Wrap(err, "sentry init")
		}
		o.cleanups = append(o.cleanups, func() { sentry.Flush(2 * time.Second) })
	}
	if d.StatsviewAddr != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(d.StatsviewAddr))
		mgr := statsview.New()
		go mgr.Start()
		o.cleanups = append(o.cleanups, mgr.Stop)
		util.LogSystemInfo(fmt.Sprintf("statsview listening on http://%s/debug/statsview", d.StatsviewAddr))
	}
	return nil
}

func (o *options) close() {
	for i := len(o.cleanups) - 1; i >= 0; i-- {
		o.cleanups[i]()
	}
	o.cleanups = nil
}
