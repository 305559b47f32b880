// Package main provides the entry point for the tts CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/anca-ferro/tts/internal/config"
	"github.com/anca-ferro/tts/internal/output"
	itts "github.com/anca-ferro/tts/internal/tts"
	"github.com/anca-ferro/tts/pkg/tts"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	envFile    string
	cfg        config.Config
	logCloser  = func() error { return nil }

	verbose bool
	quiet   bool
	force   bool
	input   inputOptions
	sinkOpt sinkFlags

	rootCmd = &cobra.Command{
		Use:   "tts [TEXT...]",
		Short: "Turn text into speech with the backend of your choice",
		Long: paragraph(
			fmt.Sprintf("\nConvert text to speech with %s, then save it, play it or pipe it.",
				keyword("gtts, espeak, coqui, piper or silero")),
		),
		Example: paragraph(`tts "Hello world"
tts -e piper -l ru "Привет" -o privet.wav
tts -f notes.md --markdown --save --play
echo "Hello" | tts --stdout > hello.mp3`),
		SilenceErrors:    true,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return prepare(cmd)
		},
		RunE: execute,
	}
)

// prepare resolves the effective configuration and sets up logging.
// Layers, lowest first: defaults, config file, .env, environment, flags.
func prepare(cmd *cobra.Command) error {
	if verbose && quiet {
		return itts.InvalidOptions("cannot specify both --verbose and --quiet")
	}

	if envFile != "" {
		if err := config.LoadDotEnv(envFile, true); err != nil {
			return err
		}
	} else if err := config.LoadDotEnv(".env", false); err != nil {
		log.Warn("Could not load .env file", "error", err)
	}

	if err := readConfigFile(); err != nil {
		return err
	}

	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &loaded); err != nil {
		return err
	}
	cfg = loaded

	closer, err := setupLog(logLevel(verbose, quiet), cfg.Log)
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	logCloser = closer

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
	}
	return nil
}

// applyFlags overlays explicitly set flags on cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	var err error
	if changed("engine") {
		cfg.Engine, err = flags.GetString("engine")
	}
	if err == nil && changed("language") {
		cfg.Language, err = flags.GetString("language")
	}
	if err == nil && changed("rate") {
		cfg.Rate, err = flags.GetInt("rate")
	}
	if err == nil && changed("volume") {
		cfg.Volume, err = flags.GetFloat64("volume")
	}
	if err == nil && changed("slow") {
		cfg.Slow, err = flags.GetBool("slow")
	}
	if err == nil && changed("audio-dir") {
		cfg.Output.AudioDir, err = flags.GetString("audio-dir")
	}
	if err == nil && changed("prefix") {
		cfg.Output.FilenamePrefix, err = flags.GetString("prefix")
	}
	if err == nil && changed("log-file") {
		cfg.Log.File, err = flags.GetString("log-file")
	}
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return itts.InvalidOptions(err.Error())
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	piped, err := stdinIsPipe()
	if err != nil {
		return err
	}
	text, err := readInput(args, input, os.Stdin, piped)
	if err != nil {
		return err
	}

	sinks, err := selectSinks(sinkOpt, cfg.SinkSet())
	if err != nil {
		return err
	}
	if hasSink(sinks, output.SinkStdout) && !force && term.IsTerminal(int(os.Stdout.Fd())) {
		return itts.InvalidOptions("refusing to write binary audio to a terminal").
			WithGuidance("Redirect stdout to a file or pipe, or pass --force.")
	}

	svc, err := tts.New(cfg, tts.WithContext(ctx))
	if err != nil {
		return err
	}

	log.Debug("Synthesizing",
		"text", truncate(text, 50),
		"engine", cfg.Engine,
		"language", cfg.Language,
		"sinks", sinks)

	data, format, err := svc.Synthesize(ctx, text, "", "")
	if err != nil {
		return err
	}

	report := svc.DeliverReport(ctx, data, format, sinks, "")
	if !quiet {
		w := io.Writer(os.Stdout)
		if report.SuppressText {
			w = os.Stderr
		}
		printSummary(w, cfg.Engine, len(data), format, sinks, report)
	}
	log.Debug("Synthesis metrics", "summary", svc.MetricsSummary())

	return report.Err()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// printError writes err to w, followed by any remediation guidance.
func printError(w io.Writer, err error) {
	msg, guidance := splitGuidance(err)
	fmt.Fprintln(w, errorStyle.Render("Error:"), msg)

	if guidance != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, faintStyle.Render(wordwrap.String(guidance, 78)))
	}
}

// splitGuidance separates the first remediation text found in the error
// chain from the error message.
func splitGuidance(err error) (string, string) {
	msg := err.Error()
	var te *itts.TTSError
	for e := err; errors.As(e, &te); e = te.Cause {
		if te.Guidance != "" {
			return strings.Replace(msg, "\n\n"+te.Guidance, "", 1), te.Guidance
		}
	}
	return msg, ""
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logCloser()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Operation cancelled")
		} else {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/tts/tts.yaml)")
	pf.StringVar(&envFile, "env-file", "", "load KEY=VALUE pairs from this file (default ./.env when present)")
	pf.String("log-file", "", "write debug logs to this file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "only print errors")

	f := rootCmd.Flags()
	f.StringP("engine", "e", "", "TTS engine: gtts, espeak, coqui, piper or silero")
	f.StringP("language", "l", "", "two letter language code")
	f.Int("rate", 0, "speech rate in words per minute")
	f.Float64("volume", 0, "volume between 0.0 and 1.0")
	f.Bool("slow", false, "slow speaking mode (gtts)")

	f.StringVarP(&sinkOpt.output, "output", "o", "", "save audio to this file or directory")
	f.BoolVarP(&sinkOpt.save, "save", "s", false, "save audio with a generated file name")
	f.String("audio-dir", "", "directory for generated file names")
	f.String("prefix", "", "prefix for generated file names")
	f.BoolVar(&sinkOpt.play, "play", false, "play audio after synthesis")
	f.BoolVar(&sinkOpt.noPlay, "no-play", false, "never play audio, overriding the configuration")
	f.BoolVar(&sinkOpt.stdout, "stdout", false, "write audio to standard output")
	f.BoolVar(&force, "force", false, "write audio to stdout even if it is a terminal")

	f.StringVarP(&input.file, "file", "f", "", "read text from this file")
	f.BoolVar(&input.clipboard, "clipboard", false, "read text from the clipboard")
	f.BoolVar(&input.markdown, "markdown", false, "treat input as markdown and read only its prose")
	f.BoolVar(&input.includeCode, "include-code", false, "read code blocks aloud in markdown input")

	_ = rootCmd.RegisterFlagCompletionFunc("engine", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(itts.AllEngines()))
		for _, id := range itts.AllEngines() {
			names = append(names, id.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(configCmd, enginesCmd, manCmd)
}

// readConfigFile reads --config, or tts.yaml from the first config
// directory that has one. When none exists configFile is pointed at the
// preferred location so `tts config` can create it.
func readConfigFile() error {
	viper.SetConfigType("yaml")

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("could not read configuration file %s: %w", configFile, err)
		}
		return nil
	}

	dirs, err := configDirs()
	if err != nil {
		return err
	}
	for _, v := range dirs {
		viper.AddConfigPath(v)
	}
	viper.SetConfigName("tts")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		configFile = used
	} else {
		configFile = filepath.Join(dirs[0], "tts.yaml")
	}
	return nil
}

func configDirs() ([]string, error) {
	scope := gap.NewScope(gap.User, "tts")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("could not find configuration directory: %w", err)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "tts")}, dirs...)
	}
	if c := os.Getenv("TTS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}
