// Package main provides the CLI entrypoint for fltrdr.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	xterm "golang.org/x/term"

	"github.com/verte-zerg/fltrdr/internal/config"
	"github.com/verte-zerg/fltrdr/internal/model"
	"github.com/verte-zerg/fltrdr/internal/reader"
	"github.com/verte-zerg/fltrdr/internal/readline"
	"github.com/verte-zerg/fltrdr/internal/stats"
	"github.com/verte-zerg/fltrdr/internal/store"
	"github.com/verte-zerg/fltrdr/internal/term"
	"github.com/verte-zerg/fltrdr/internal/tui"
)

const (
	stdinName          = "*stdin*"
	defaultText        = "fltrdr"
	defaultTrendWindow = 5
)

var (
	readConfig    string
	readSettings  string
	readWPM       int
	readNoHistory bool

	historyLast   int
	historyFile   string
	historyWindow int
	historyFiles  bool

	configSettings bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultSettings()
	rootCmd := &cobra.Command{
		Use:           "fltrdr [file]",
		Short:         "Terminal speed reader",
		Long:          "Show a text one word at a time at a fixed focal point. Reads stdin when no file is given.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReadCmd,
	}

	rootCmd.Flags().StringVar(&readConfig, "config", "", "command config file, or NONE to skip it")
	rootCmd.Flags().StringVar(&readSettings, "settings", "", "TOML settings file")
	rootCmd.Flags().IntVar(&readWPM, "wpm", defaults.WPM, "words per minute")
	rootCmd.Flags().BoolVar(&readNoHistory, "no-history", false, "do not record this session")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runReadCmd(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	rdr := reader.New()
	stdin := stdinSource{r: os.Stdin, tty: xterm.IsTerminal(int(os.Stdin.Fd()))}
	file, stdinConsumed, err := loadDocument(rdr, args, stdin)
	if err != nil {
		return err
	}

	in, err := term.OpenInput(stdinConsumed)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if in != os.Stdin {
		defer func() {
			if cerr := in.Close(); cerr != nil {
				// Best-effort close of the controlling terminal.
				_ = cerr
			}
		}()
	}

	ctrl := tui.New(rdr, tui.Options{
		Settings: settings,
		File:     file,
		Command:  readline.New(in, os.Stdout),
		Search:   readline.New(in, os.Stdout),
	})

	if err := applyCommandConfig(ctrl, in); err != nil {
		return err
	}

	session, err := term.Start(in, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to start terminal session: %w", err)
	}
	defer session.Close()
	runErr := runReader(ctrl, session)

	if settings.History {
		saveHistory(ctrl.Summary())
	}
	if runErr != nil {
		return fmt.Errorf("failed to run reader: %w", runErr)
	}
	return nil
}

// readerTerminal is a started terminal session the reader runs on.
type readerTerminal interface {
	tui.Terminal
	Close()
}

// runReader runs the controller on t and restores the terminal on every
// exit path, a panic in the loop included.
func runReader(ctrl *tui.Controller, t readerTerminal) error {
	defer t.Close()
	return ctrl.Run(t)
}

func loadSettings(cmd *cobra.Command) (model.Settings, error) {
	path := readSettings
	if path == "" {
		path = config.DefaultSettingsPath()
	}
	fileCfg, err := config.LoadSettings(path)
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	settings := model.DefaultSettings()
	applyIntConfig(cmd, "wpm", &readWPM, fileCfg.Reader.WPM)
	settings.WPM = readWPM
	applySetting(&settings.Countdown, fileCfg.Reader.Countdown)
	applySetting(&settings.RefreshRate, fileCfg.Reader.RefreshRate)
	applySetting(&settings.InputInterval, fileCfg.Reader.InputInterval)
	applySetting(&settings.PromptTimeout, fileCfg.Reader.PromptTimeout)
	applySetting(&settings.MinWidth, fileCfg.Reader.MinWidth)
	applySetting(&settings.MinHeight, fileCfg.Reader.MinHeight)

	history := !readNoHistory
	if !cmd.Flags().Changed("no-history") {
		applySetting(&history, fileCfg.Reader.History)
	}
	settings.History = history

	if err := validateSettings(settings); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

// stdinSource is the process stdin as seen by loadDocument.
type stdinSource struct {
	r   io.Reader
	tty bool
}

// loadDocument parses the document named in args. "*stdin*" reads stdin;
// no argument reads stdin when it is piped and the built-in text otherwise.
func loadDocument(rdr *reader.Reader, args []string, stdin stdinSource) (tui.FileInfo, bool, error) {
	if len(args) == 0 && stdin.tty {
		rdr.Parse(strings.NewReader(defaultText))
		return tui.FileInfo{}, false, nil
	}
	if len(args) == 0 || args[0] == stdinName {
		if !rdr.Parse(stdin.r) {
			return tui.FileInfo{}, true, fmt.Errorf("no words to read on stdin")
		}
		return tui.FileInfo{Path: stdinName, Name: stdinName}, true, nil
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return tui.FileInfo{}, false, fmt.Errorf("failed to open file '%s': %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()
	if !rdr.Parse(f) {
		return tui.FileInfo{}, false, fmt.Errorf("no words to read in '%s'", path)
	}
	return tui.FileInfo{Path: path, Name: filepath.Clean(path)}, false, nil
}

// applyCommandConfig runs the command config file and, when any line
// failed, shows the problems and waits for the user before continuing.
func applyCommandConfig(ctrl *tui.Controller, in *os.File) error {
	path, problem := config.ResolveCommandConfig(readConfig)
	var problems []string
	if problem != "" {
		problems = append(problems, problem)
	}
	if path != "" {
		problems = append(problems, ctrl.ApplyConfig(path)...)
	}
	if len(problems) == 0 {
		return nil
	}
	for _, p := range problems {
		logErrln(p)
	}
	ok, err := term.PressToContinue(in, os.Stderr, "ENTER", '\n')
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !ok {
		return tui.ErrAborted
	}
	return nil
}

func saveHistory(rs model.ReadingSession) {
	if rs.Words == 0 && rs.ActiveMs == 0 {
		return
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if _, err := st.InsertSession(context.Background(), rs); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open the command config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().BoolVar(&configSettings, "settings", false, "open the TOML settings file instead")
	return cmd
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultCommandConfigPath()
	template := config.CommandTemplate
	if configSettings {
		path = config.DefaultSettingsPath()
		template = defaultSettingsTemplate()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show reading history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().StringVar(&historyFile, "file", "", "only sessions for this file")
	cmd.Flags().IntVar(&historyWindow, "window", defaultTrendWindow, "moving average window for the trend")
	cmd.Flags().BoolVar(&historyFiles, "files", false, "show per-file totals")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	return writeHistory(cmd.Context(), cmd.OutOrStdout(), st, model.HistoryFilter{
		File: historyFile,
		Last: historyLast,
	}, historyWindow, historyFiles)
}

func writeHistory(ctx context.Context, w io.Writer, st *store.Store, filter model.HistoryFilter, window int, files bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sessions, err := st.ListSessions(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	if err := stats.RenderSummary(w, sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSessions(w, sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTrend(w, sessions, window); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !files {
		return nil
	}
	aggs, err := st.ListFiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load files: %w", err)
	}
	if err := stats.RenderFiles(w, aggs); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applySetting[T any](target, value *T) {
	if value == nil {
		return
	}
	*target = *value
}

func defaultSettingsTemplate() string {
	d := model.DefaultSettings()
	return fmt.Sprintf(`# fltrdr settings
# Uncomment a value to enable it. CLI flags override settings values.

[reader]
# wpm = %d                 # Words per minute
# countdown = %d            # Countdown ticks before playback
# refresh-rate-ms = %d    # Idle redraw interval
# input-interval-ms = %d   # Input poll granularity
# prompt-timeout = %d      # Frames a prompt message stays visible
# min-width = %d           # Minimum terminal width
# min-height = %d           # Minimum terminal height
# history = true           # Record sessions for 'fltrdr history'
`,
		d.WPM,
		d.Countdown,
		d.RefreshRate,
		d.InputInterval,
		d.PromptTimeout,
		d.MinWidth,
		d.MinHeight,
	)
}

func validateSettings(s model.Settings) error {
	if s.WPM < reader.MinWPM || s.WPM > reader.MaxWPM {
		return fmt.Errorf("--wpm must be between %d and %d", reader.MinWPM, reader.MaxWPM)
	}
	if s.Countdown < 0 {
		return fmt.Errorf("countdown must be >= 0")
	}
	if s.RefreshRate <= 0 {
		return fmt.Errorf("refresh-rate-ms must be > 0")
	}
	if s.InputInterval <= 0 {
		return fmt.Errorf("input-interval-ms must be > 0")
	}
	if s.PromptTimeout < 0 {
		return fmt.Errorf("prompt-timeout must be >= 0")
	}
	if s.MinWidth < 1 || s.MinHeight < 1 {
		return fmt.Errorf("min-width and min-height must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
