// xcdocx: review Xcode String Catalogs as Word or CSV tables.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/xcdocx/android"
	"github.com/minios-linux/xcdocx/config"
	"github.com/minios-linux/xcdocx/document"
	"github.com/minios-linux/xcdocx/errs"
	"github.com/minios-linux/xcdocx/i18n"
	"github.com/minios-linux/xcdocx/merge"
	"github.com/minios-linux/xcdocx/projector"
	"github.com/minios-linux/xcdocx/reconcile"
	"github.com/minios-linux/xcdocx/stats"
	"github.com/minios-linux/xcdocx/xcstrings"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	infoTag    = color.New(color.FgBlue).SprintFunc()
	successTag = color.New(color.FgGreen).SprintFunc()
	warningTag = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorTag   = color.New(color.FgRed).SprintFunc()
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, infoTag("[INFO]")+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, successTag("[OK]")+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, warningTag("[WARN]")+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, errorTag("[ERROR]")+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir string
	verbose bool
)

// errReported marks errors that were already printed as a JSON result line.
var errReported = errors.New("reported")

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xcdocx",
		Short: "Review Xcode String Catalogs as Word or CSV tables",
		Long: `xcdocx: review Xcode String Catalogs as Word or CSV tables.

Projects every language of a .xcstrings catalog into a table translators can
edit in Word, and merges the edited tables back into the catalog.

Commands:
  export         Write one review document per language
  merge          Merge a reviewed document into the catalog
  metadata       Show per-language completeness of a catalog
  docx-metadata  Check a reviewed document against a catalog
  android        Write Android strings.xml resources
  detect         Tell what kind of file a path is

Every command prints a single JSON line on stdout: {"Ok": ...} on success,
{"Err": "..."} on failure. Progress is logged on stderr.

Defaults are read from .xcdocx.yaml in the project root when present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			i18n.Init("")
		},
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details on stderr")

	root.AddCommand(
		newExportCmd(),
		newMergeCmd(),
		newMetadataCmd(),
		newDocxMetadataCmd(),
		newAndroidCmd(),
		newDetectCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			logError("%v", err)
		}
		os.Exit(1)
	}
}

// setupLogging configures logrus for the library packages. XCDOCX_LOG takes
// a logrus level name; --verbose forces debug.
func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logLevel(os.Getenv("XCDOCX_LOG"), verbose))
}

func logLevel(env string, verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	if env != "" {
		if lvl, err := log.ParseLevel(env); err == nil {
			return lvl
		}
	}
	return log.WarnLevel
}

// ---------------------------------------------------------------------------
// Result line
// ---------------------------------------------------------------------------

// resultLine is the single JSON line every command prints.
type resultLine struct {
	Ok  any    `json:"Ok,omitempty"`
	Err string `json:"Err,omitempty"`
}

func encodeResult(v any, err error) ([]byte, error) {
	var line any = map[string]any{"Ok": v}
	if err != nil {
		line = resultLine{Err: errs.Flatten(err)}
	}
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if encErr := enc.Encode(line); encErr != nil {
		return nil, encErr
	}
	return []byte(b.String()), nil
}

// report prints the result line of a command and returns the error the
// command exits with.
func report(v any, err error) error {
	data, encErr := encodeResult(v, err)
	if encErr != nil {
		return encErr
	}
	os.Stdout.Write(data)
	if err != nil {
		logError("%s", errs.Flatten(err))
		return fmt.Errorf("%w: %v", errReported, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("xcdocx version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// export (catalog -> review documents)
// ---------------------------------------------------------------------------

func newExportCmd() *cobra.Command {
	var (
		catalog      string
		saveIn       string
		clean        bool
		baseLanguage string
		format       string
		columns      []string
		newLanguages []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one review document per language",
		Long: `Project every language of the catalog into a review table.

Each table lists the key, the developer comment, the plural variation, the
base language text and the current translation. Pluralized keys get one row
per plural category. Documents are named <language>.docx (or .csv).

Nothing is written when any language fails to project.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, catPath, err := loadProject(catalog)
			if err != nil {
				return report(nil, err)
			}
			opts, err := exportOptions(cmd.Flags(), cfg, exportFlags{
				saveIn:       saveIn,
				clean:        clean,
				baseLanguage: baseLanguage,
				format:       format,
				columns:      columns,
				newLanguages: newLanguages,
			})
			if err != nil {
				return report(nil, err)
			}
			return report(runExport(catPath, opts))
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "The .xcstrings catalog (default: the one in --root)")
	cmd.Flags().StringVar(&saveIn, "save-in", "", "Output directory (default \"docx\")")
	cmd.Flags().BoolVar(&clean, "clean", false, "Remove the output directory before writing")
	cmd.Flags().StringVar(&baseLanguage, "base-language", "", "Language shown next to the translation (default: source language)")
	cmd.Flags().StringVar(&format, "format", "", "Document format: docx or csv")
	cmd.Flags().StringSliceVar(&columns, "column", nil, "Extra column to include: state (repeatable)")
	cmd.Flags().StringSliceVar(&newLanguages, "new-language", nil, "Language to export even without localizations (repeatable)")

	return cmd
}

type exportFlags struct {
	saveIn       string
	clean        bool
	baseLanguage string
	format       string
	columns      []string
	newLanguages []string
}

// exportOptions merges flags over the configuration file. Only flags the
// user actually set override file values.
func exportOptions(flags *pflag.FlagSet, cfg *config.File, f exportFlags) (projector.ExportOptions, error) {
	opts := projector.ExportOptions{
		SaveIn:       config.Resolve(rootDir, cfg.SaveIn),
		Clean:        cfg.Clean,
		BaseLanguage: cfg.BaseLanguage,
		NewLanguages: cfg.NewLanguages,
	}
	cols, err := cfg.ParsedColumns()
	if err != nil {
		return opts, err
	}
	opts.Columns = cols
	if opts.Format, err = cfg.ParsedFormat(); err != nil {
		return opts, err
	}

	if flags.Changed("save-in") {
		opts.SaveIn = config.Resolve(rootDir, f.saveIn)
	}
	if flags.Changed("clean") {
		opts.Clean = f.clean
	}
	if flags.Changed("base-language") {
		opts.BaseLanguage = f.baseLanguage
	}
	if flags.Changed("format") {
		if opts.Format, err = document.ParseFormat(f.format); err != nil {
			return opts, err
		}
	}
	if flags.Changed("column") {
		opts.Columns = nil
		for _, c := range trimmedList(f.columns) {
			col, err := projector.ParseColumn(c)
			if err != nil {
				return opts, err
			}
			opts.Columns = append(opts.Columns, col)
		}
	}
	if flags.Changed("new-language") {
		langs := trimmedList(f.newLanguages)
		for _, l := range langs {
			if !config.IsLangCode(l) {
				return opts, errs.Validation("Not a language code: %s", l)
			}
		}
		opts.NewLanguages = langs
	}
	return opts, nil
}

func runExport(catPath string, opts projector.ExportOptions) ([]projector.Result, error) {
	cat, err := xcstrings.ParseFile(catPath)
	if err != nil {
		return nil, err
	}
	results, err := projector.Export(cat, opts)
	if err != nil {
		return nil, err
	}
	logSuccess(i18n.N("Exported %d document to %s", "Exported %d documents to %s", len(results)), len(results), opts.SaveIn)
	return results, nil
}

// ---------------------------------------------------------------------------
// merge (reviewed document -> catalog)
// ---------------------------------------------------------------------------

func newMergeCmd() *cobra.Command {
	var (
		docPath string
		catalog string
		updated string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge a reviewed document into the catalog",
		Long: `Read the translations of a reviewed .docx or .csv table and write them
into the catalog.

Every key of the table must exist in the catalog. Rows with blank text are
stored as "new", all others as "translated". The catalog is only written when
the whole table merged successfully.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, catPath, err := loadProject(catalog)
			if err != nil {
				return report(nil, err)
			}
			target := config.Resolve(rootDir, updated)
			if target == "" {
				target = catPath
			}
			counts, err := merge.Run(merge.RunOptions{Document: docPath, Base: catPath, Updated: target})
			if err != nil {
				logWarning(i18n.T("Merge failed, %s was not modified"), target)
				return report(nil, err)
			}
			logSuccess(i18n.T("Merged %s into %s: %d translated, %d to translate"),
				filepath.Base(docPath), target, counts.Translated, counts.ToTranslate)
			return report(counts, nil)
		},
	}

	cmd.Flags().StringVar(&docPath, "document", "", "The reviewed .docx or .csv document")
	cmd.Flags().StringVar(&catalog, "catalog", "", "The .xcstrings catalog to merge into (default: the one in --root)")
	cmd.Flags().StringVar(&updated, "updated", "", "Where to write the merged catalog (default: overwrite --catalog)")
	_ = cmd.MarkFlagRequired("document")

	return cmd
}

// ---------------------------------------------------------------------------
// metadata (catalog statistics)
// ---------------------------------------------------------------------------

func newMetadataCmd() *cobra.Command {
	var (
		catalog string
		table   bool
	)

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Show per-language completeness of a catalog",
		Long: `Count localized and not localized units for every language of the
catalog. Units of the source language always count as localized.

With --table a progress table is printed on stderr as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, catPath, err := loadProject(catalog)
			if err != nil {
				return report(nil, err)
			}
			r, err := stats.ComputeFile(catPath)
			if err != nil {
				return report(nil, err)
			}
			if table {
				showStatsTable(r)
			}
			return report(r, nil)
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "The .xcstrings catalog (default: the one in --root)")
	cmd.Flags().BoolVar(&table, "table", false, "Print a progress table on stderr")

	return cmd
}

func showStatsTable(r *stats.Report) {
	langs := make([]string, len(r.Languages))
	for i, l := range r.Languages {
		langs[i] = l.LanguageCode
	}
	width := langColumnWidth(langs)

	fmt.Fprintf(os.Stderr, "\n%s\n", infoTag(i18n.T("Translation Statistics")))
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "%-*s %-10s %-10s %-8s %s\n", width, i18n.T("Lang"),
		i18n.T("Localized"), i18n.T("Missing"), i18n.T("Words"), i18n.T("Progress"))
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	for _, l := range r.Languages {
		percent := 100
		if total := l.Total(); total > 0 {
			percent = l.LocalizedKeys * 100 / total
		}
		fmt.Fprintf(os.Stderr, "%-*s %-10d %-10d %-8d %s\n", width, l.LanguageCode,
			l.LocalizedKeys, l.NotLocalizedKeys, l.WordCount, progressBar(percent, 20))
	}

	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, i18n.T("Base language: %s")+"\n\n", r.BaseLanguage)
}

// progressBar renders percent as a colored bar of width cells followed by the
// number.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100

	c := color.New(color.FgRed)
	switch {
	case percent == 100:
		c = color.New(color.FgGreen)
	case percent >= 50:
		c = color.New(color.FgYellow)
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return c.Sprint(bar) + fmt.Sprintf(" %3d%%", percent)
}

// langColumnWidth returns the width of the language column, at least as wide
// as its header.
func langColumnWidth(langs []string) int {
	width := len("Lang")
	for _, l := range langs {
		if len(l) > width {
			width = len(l)
		}
	}
	return width
}

// ---------------------------------------------------------------------------
// docx-metadata (reviewed document vs catalog)
// ---------------------------------------------------------------------------

func newDocxMetadataCmd() *cobra.Command {
	var (
		docPath string
		catalog string
	)

	cmd := &cobra.Command{
		Use:   "docx-metadata",
		Short: "Check a reviewed document against a catalog",
		Long: `Read a reviewed document and report its language, how many rows carry
text and how it relates to the catalog:

  "NoReferenceCatalog"        no catalog given
  {"MismatchedKeys": [...]}   keys the catalog does not have; merge would fail
  "NotYetPresent"             the catalog has no localization for the language
  {"Translated": N}           units the catalog holds for the language`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := reconcile.File(docPath, config.Resolve(rootDir, catalog))
			if err != nil {
				return report(nil, err)
			}
			if r.Status.Kind == reconcile.MismatchedKeys {
				logWarning(i18n.T("%d keys are not in the catalog: %s"), len(r.Status.Keys), strings.Join(r.Status.Keys, ", "))
			}
			return report(r, nil)
		},
	}

	cmd.Flags().StringVar(&docPath, "document", "", "The reviewed .docx or .csv document")
	cmd.Flags().StringVar(&catalog, "catalog", "", "The .xcstrings catalog to compare with (optional)")
	_ = cmd.MarkFlagRequired("document")

	return cmd
}

// ---------------------------------------------------------------------------
// android (catalog -> strings.xml)
// ---------------------------------------------------------------------------

func newAndroidCmd() *cobra.Command {
	var (
		catalog string
		writeIn string
		appName string
	)

	cmd := &cobra.Command{
		Use:   "android",
		Short: "Write Android strings.xml resources",
		Long: `Render every language of the catalog as res/values*/strings.xml.

Format specifiers are converted (%@ to %s, %lld to %d) and untranslated
units are left out of translated languages.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, catPath, err := loadProject(catalog)
			if err != nil {
				return report(nil, err)
			}
			opts := android.Options{
				WriteIn: config.Resolve(rootDir, cfg.Android.WriteIn),
				AppName: cfg.Android.AppName,
			}
			if cmd.Flags().Changed("write-in") {
				opts.WriteIn = config.Resolve(rootDir, writeIn)
			}
			if cmd.Flags().Changed("app-name") {
				opts.AppName = appName
			}

			cat, err := xcstrings.ParseFile(catPath)
			if err != nil {
				return report(nil, err)
			}
			res, err := android.Write(cat, opts)
			if err != nil {
				return report(nil, err)
			}
			n := len(res.WrittenXMLs)
			logSuccess(i18n.N("Wrote %d strings.xml file", "Wrote %d strings.xml files", n), n)
			return report(res, nil)
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "The .xcstrings catalog (default: the one in --root)")
	cmd.Flags().StringVar(&writeIn, "write-in", "", "The Android res/ directory")
	cmd.Flags().StringVar(&appName, "app-name", "", "Value of the app_name resource")

	return cmd
}

// ---------------------------------------------------------------------------
// detect (file kind)
// ---------------------------------------------------------------------------

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <path>",
		Short: "Tell what kind of file a path is",
		Long: `Print "Docx" or "Csv" for a valid review document, "XCStrings" for a
String Catalog and "Other" for anything else.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return report(document.Detect(args[0]))
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// loadProject reads .xcdocx.yaml from the project root and resolves the
// catalog path: the flag value when given, otherwise the configured or
// detected one. Relative paths are taken from --root.
func loadProject(catalogFlag string) (*config.File, string, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, "", errs.Wrap(errs.ErrValidation, err, "configuration")
	}
	if catalogFlag != "" {
		return cfg, config.Resolve(rootDir, catalogFlag), nil
	}
	path, err := config.DetectCatalog(rootDir, cfg)
	if err != nil {
		return nil, "", errs.Wrap(errs.ErrIO, err, "catalog")
	}
	logInfo(i18n.T("Using catalog %s"), path)
	return cfg, path, nil
}

// trimmedList drops blanks from a comma-separated flag list ("nl, de").
func trimmedList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
