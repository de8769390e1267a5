package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Ning0612/Sortrules/internal/config"
	"github.com/Ning0612/Sortrules/internal/domain"
	"github.com/Ning0612/Sortrules/internal/history"
	"github.com/Ning0612/Sortrules/internal/logger"
	"github.com/Ning0612/Sortrules/internal/progress"
	"github.com/Ning0612/Sortrules/internal/service"
)

var (
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
	flagQuiet    bool
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

func main() {
	err := rootCmd.Execute()
	logger.Shutdown()
	if err != nil {
		os.Exit(1)
	}
}

// session bundles the service and its collaborators for one command run
type session struct {
	svc *service.Service
}

// newSession loads settings, the active rule table, and the operation
// ledger. A non-empty rulesFile overrides the table for this run only.
// The caller must defer session.Close().
func newSession(rulesFile string) (*session, error) {
	settings, err := config.LoadSettings(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	var table domain.Table
	if rulesFile != "" {
		table, err = config.ImportTable(rulesFile)
		if err != nil {
			return nil, fmt.Errorf("loading rules: %w", err)
		}
	} else {
		table = service.TableFromSettings(settings)
	}

	hist, err := history.NewManager(dataDir())
	if err != nil {
		logger.Get().Warn("operation ledger unavailable", "error", err)
		hist = nil
	}

	svc, err := service.New(table, settings, hist)
	if err != nil {
		if hist != nil {
			hist.Close()
		}
		return nil, err
	}
	svc.SetProgressReporter(consoleReporter())

	return &session{svc: svc}, nil
}

func (s *session) Close() {
	if err := s.svc.Close(); err != nil {
		logger.Get().Warn("failed to close ledger", "error", err)
	}
}

// saveSettings persists the session settings after a mutating command
func (s *session) saveSettings() {
	path := config.SettingsPath(flagConfig)
	if err := s.svc.Settings().Save(path); err != nil {
		logger.Get().Warn("failed to save settings", "path", path, "error", err)
	}
}

// dataDir returns where the operation ledger lives
func dataDir() string {
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "sortrules")
	}
	return ".sortrules"
}

func initLogger() error {
	cfg := logger.Config{
		Level:  logger.ParseLevel(flagLogLevel),
		Format: logger.FormatText,
	}

	if flagQuiet {
		cfg.Outputs = append(cfg.Outputs, logger.OutputConfig{Type: logger.OutputStderr, Writer: io.Discard})
	} else {
		cfg.Outputs = append(cfg.Outputs, logger.OutputConfig{Type: logger.OutputStderr})
	}

	if flagLogFile != "" {
		cfg.Outputs = append(cfg.Outputs, logger.OutputConfig{Type: logger.OutputFile})
		cfg.File = logger.FileConfig{
			Enabled:    true,
			Path:       flagLogFile,
			MaxSizeMB:  10,
			MaxAgeDays: 30,
			MaxBackups: 5,
			Compress:   true,
		}
	}

	return logger.Init(cfg)
}

// consoleReporter renders a progress bar on stderr while a pass runs
func consoleReporter() progress.Reporter {
	if flagQuiet {
		return progress.NullReporter{}
	}
	return progress.NewCallbackReporter(func(u progress.Update) {
		switch u.Type {
		case progress.UpdateStep:
			fmt.Fprintf(os.Stderr, "\r%s", progress.FormatProgress(int64(u.Completed), int64(u.Total), 30))
		case progress.UpdateDone:
			fmt.Fprintf(os.Stderr, "\r%*s\r", 44, "")
		}
	})
}

// confirm asks a yes/no question and reads one line from stdin
func confirm(prompt string, defaultYes bool) bool {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	fmt.Printf("%s %s ", prompt, suffix)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return defaultYes
	}
	return line == "y" || line == "yes"
}

func printFailures(failures []domain.Failure) {
	for _, failure := range failures {
		red.Printf("  failed: %s: %v\n", failure.Path, failure.Err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sortrules",
	Short: "Sort directories into category folders",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
}

// organize command
var organizeCmd = &cobra.Command{
	Use:   "organize DIR",
	Short: "Move a directory's files into category folders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interactive, _ := cmd.Flags().GetBool("interactive")
		rulesFile, _ := cmd.Flags().GetString("rules")

		s, err := newSession(rulesFile)
		if err != nil {
			return err
		}
		defer s.Close()

		breakdown, err := s.svc.Breakdown(args[0])
		if err != nil {
			return err
		}
		fmt.Println("Top-level files by category:")
		for _, entry := range breakdown {
			if entry.Count == 0 {
				continue
			}
			fmt.Printf("  %-12s %d\n", entry.Category, entry.Count)
		}
		fmt.Println()

		result, err := s.svc.Organize(args[0])
		if err != nil {
			return err
		}

		green.Printf("Organized %d file(s)\n", result.Moved)
		printFailures(result.Failures)

		if interactive && result.Moved > 0 {
			if !confirm("Keep changes?", true) {
				undone, err := s.svc.Undo()
				if err != nil {
					return err
				}
				yellow.Printf("Moved %d file(s) back\n", undone.Undone)
				for _, skipped := range undone.Skipped {
					yellow.Printf("  missing, not restored: %s\n", skipped)
				}
				printFailures(undone.Failures)
			}
		}

		s.saveSettings()
		return nil
	},
}

// search command
var searchCmd = &cobra.Command{
	Use:   "search DIR QUERY",
	Short: "Find files by name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.svc.Search(args[0], args[1], domain.Category(category))
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No matches found.")
			return nil
		}

		for _, info := range results {
			fmt.Printf("%-10s  %s\n", progress.FormatBytes(info.Size), info.Path)
		}
		fmt.Printf("\n%d match(es)\n", len(results))
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats DIR",
	Short: "Show file counts and sizes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.svc.Stats(args[0])
		if err != nil {
			return err
		}
		breakdown, err := s.svc.Breakdown(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Files:      %d\n", stats.Files)
		fmt.Printf("Total size: %s\n\n", progress.FormatBytes(stats.TotalSize))

		fmt.Println("Top-level files by category:")
		for _, entry := range breakdown {
			fmt.Printf("  %-12s %d\n", entry.Category, entry.Count)
		}

		files, runs := s.svc.Settings().OrganizeTotals()
		if runs > 0 {
			fmt.Printf("\nOrganized %d file(s) across %d run(s) so far\n", files, runs)
		}
		return nil
	},
}

// dupes command
var dupesCmd = &cobra.Command{
	Use:   "dupes DIR",
	Short: "Find files with identical content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		del, _ := cmd.Flags().GetBool("delete")
		yes, _ := cmd.Flags().GetBool("yes")

		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		report, err := s.svc.FindDuplicates(args[0])
		if err != nil {
			return err
		}

		if len(report.Duplicates) == 0 {
			fmt.Println("No duplicates found.")
			return nil
		}

		for _, dup := range report.Duplicates {
			fmt.Println(dup)
			fmt.Printf("  duplicate of %s\n", report.Originals[dup])
		}
		fmt.Printf("\n%d duplicate file(s)\n", len(report.Duplicates))

		if !del {
			return nil
		}
		if !yes && !confirm(fmt.Sprintf("Delete %d file(s)?", len(report.Duplicates)), false) {
			fmt.Println("Aborted.")
			return nil
		}

		result, err := s.svc.DeleteDuplicates(args[0], report.Duplicates)
		if err != nil {
			return err
		}

		green.Printf("Deleted %d duplicate file(s)\n", result.Deleted)
		printFailures(result.Failures)
		s.saveSettings()
		return nil
	},
}

// large command
var largeCmd = &cobra.Command{
	Use:   "large DIR",
	Short: "Find large files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minMB, _ := cmd.Flags().GetInt("min-mb")

		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		threshold := int64(minMB) * 1024 * 1024
		results, err := s.svc.LargeFiles(args[0], threshold)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Printf("No files larger than %s.\n", progress.FormatBytes(threshold))
			return nil
		}

		for _, info := range results {
			fmt.Printf("%-10s  %s\n", progress.FormatBytes(info.Size), info.Path)
		}
		return nil
	},
}

// empty command
var emptyCmd = &cobra.Command{
	Use:   "empty DIR",
	Short: "Find empty folders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		del, _ := cmd.Flags().GetBool("delete")
		yes, _ := cmd.Flags().GetBool("yes")

		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		folders, err := s.svc.EmptyFolders(args[0])
		if err != nil {
			return err
		}

		if len(folders) == 0 {
			fmt.Println("No empty folders found.")
			return nil
		}

		for _, folder := range folders {
			fmt.Println(folder)
		}
		fmt.Printf("\n%d empty folder(s)\n", len(folders))

		if !del {
			return nil
		}
		if !yes && !confirm(fmt.Sprintf("Remove %d folder(s)?", len(folders)), false) {
			fmt.Println("Aborted.")
			return nil
		}

		result, err := s.svc.RemoveEmptyFolders(args[0], folders)
		if err != nil {
			return err
		}

		green.Printf("Removed %d empty folder(s)\n", result.Removed)
		printFailures(result.Failures)
		return nil
	},
}

// rename command
var renameCmd = &cobra.Command{
	Use:   "rename DIR PATTERN",
	Short: "Rename a directory's files after a numbered pattern",
	Long: `Rename every file directly under DIR after PATTERN, keeping each
file's extension. A run of # characters becomes a 1-based counter:
### is zero-padded to three digits, ## to two, # is the bare number.

  sortrules rename ./photos vacation_###

renames the files to vacation_001.jpg, vacation_002.png, and so on.
A file whose target name is already taken is skipped. Renames cannot
be undone.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := s.svc.BatchRename(args[0], args[1])
		if err != nil {
			return err
		}

		green.Printf("Renamed %d file(s)\n", result.Renamed)
		if len(result.Skipped) > 0 {
			yellow.Printf("Skipped %d file(s) with occupied target names\n", len(result.Skipped))
		}
		printFailures(result.Failures)
		s.saveSettings()
		return nil
	},
}

// rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage classification rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the active rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		for _, rule := range s.svc.Table() {
			if rule.IsCatchAll() {
				fmt.Printf("%-12s (everything else)\n", rule.Name)
				continue
			}
			fmt.Printf("%-12s %s\n", rule.Name, strings.Join(rule.Extensions, " "))
		}
		return nil
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active rules to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.svc.ExportRules(out); err != nil {
			return err
		}

		green.Printf("Rules exported to %s\n", out)
		return nil
	},
}

var rulesImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the rules with an exported file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		table, err := s.svc.ImportRules(args[0])
		if err != nil {
			return err
		}

		green.Printf("Imported %d categories\n", len(table))
		for _, name := range table.Names() {
			fmt.Printf("  %s\n", name)
		}
		s.saveSettings()
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		opFilter, _ := cmd.Flags().GetString("op")

		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		var records []history.Record
		if opFilter != "" {
			op := domain.OperationType(opFilter)
			if !op.IsValid() {
				return fmt.Errorf("unknown operation type: %s", opFilter)
			}
			records, err = s.svc.HistoryByOperation(op, limit)
		} else {
			records, err = s.svc.History(limit)
		}
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, record := range records {
			line := fmt.Sprintf("%.8s  %-12s  %s  %-8s  %4d  %s",
				record.ID,
				record.Operation,
				record.StartedAt.Format("2006-01-02 15:04:05"),
				record.Status,
				record.Items,
				record.Directory,
			)
			if record.Status == "success" {
				fmt.Println(line)
			} else {
				yellow.Println(line)
			}
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		s, err := newSession("")
		if err != nil {
			return err
		}
		defer s.Close()

		if !yes && !confirm("Clear all history?", false) {
			fmt.Println("Aborted.")
			return nil
		}

		if err := s.svc.ClearHistory(); err != nil {
			return err
		}

		green.Println("History cleared")
		s.saveSettings()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Settings file path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Also write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress log output and progress")

	organizeCmd.Flags().BoolP("interactive", "i", false, "Ask whether to keep the changes")
	organizeCmd.Flags().String("rules", "", "Use this rules file for the pass")
	rootCmd.AddCommand(organizeCmd)

	searchCmd.Flags().StringP("category", "c", "", "Only show files of this category")
	rootCmd.AddCommand(searchCmd)

	rootCmd.AddCommand(statsCmd)

	dupesCmd.Flags().Bool("delete", false, "Delete the duplicates after scanning")
	dupesCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(dupesCmd)

	largeCmd.Flags().Int("min-mb", 100, "Minimum size in megabytes")
	rootCmd.AddCommand(largeCmd)

	emptyCmd.Flags().Bool("delete", false, "Remove the empty folders")
	emptyCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(emptyCmd)

	rootCmd.AddCommand(renameCmd)

	// rules subcommands
	rulesCmd.AddCommand(rulesListCmd)
	rulesExportCmd.Flags().StringP("out", "o", "rules.json", "Output file")
	rulesCmd.AddCommand(rulesExportCmd)
	rulesCmd.AddCommand(rulesImportCmd)
	rootCmd.AddCommand(rulesCmd)

	// history subcommands
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of records to show")
	historyCmd.Flags().String("op", "", "Only show one operation type")
	historyClearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
