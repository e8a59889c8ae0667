package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/mobrename/internal/ui"
)

// options holds the parsed flags of one invocation.
type options struct {
	bundleID        string
	iosBundleID     string
	androidBundleID string
	pathContent     string

	skipStatusCheck bool
	flavorFile      string
	flavorName      string
	branch          bool
	codePush        bool
	bugsnag         bool

	dryRun     bool
	noStage    bool
	projectDir string
	configPath string
	jsonOutput bool
	verbose    bool
	version    bool
}

// app carries one invocation from flag parsing to the exit code.
type app struct {
	opts options
	out  io.Writer
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mobrename [newName]",
		Short: "Rename a React Native iOS/Android project in place",
		Long: `mobrename renames a React Native project: the iOS and Android folder
structure, every file that embeds the old name, the bundle identifiers and the
display names. Optionally it applies a flavor's SDK keys and files.

The project must be a git repository with no uncommitted changes, so that the
result can be reviewed with git diff and reverted.`,
		Example: `  mobrename "My New App"
  mobrename "My New App" -b com.example.newapp
  mobrename "Staging" --flavor-file flavors.yaml -f staging --branch --codepush
  mobrename "My New App" --dry-run --json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return inputError(ErrInvalidInput, err, "quote a name that contains spaces")
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.version {
				return writeVersion(a.out, a.opts.jsonOutput)
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.rename(cmd.Context(), args[0])
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return inputError(ErrInvalidInput, err, "run `mobrename --help` for usage")
	})

	f := cmd.Flags()
	f.SortFlags = false
	f.StringVarP(&a.opts.bundleID, "bundle-id", "b", "", "New bundle identifier for both platforms")
	f.StringVar(&a.opts.iosBundleID, "ios-bundle-id", "", "New iOS bundle identifier")
	f.StringVar(&a.opts.androidBundleID, "android-bundle-id", "", "New Android application id")
	f.StringVarP(&a.opts.pathContent, "path-content-str", "p", "", "Letters and digits used in paths instead of the cleaned name")
	f.BoolVar(&a.opts.skipStatusCheck, "skip-git-status-check", false, "Run even if the working tree has uncommitted changes")
	f.StringVar(&a.opts.flavorFile, "flavor-file", "", "JSON or YAML file with flavor definitions")
	f.StringVarP(&a.opts.flavorName, "flavor", "f", "", "Flavor to apply from --flavor-file")
	f.BoolVar(&a.opts.branch, "branch", false, "Apply the flavor's deep-link keys and domains")
	f.BoolVar(&a.opts.codePush, "codepush", false, "Apply the flavor's update-service deployment keys")
	f.BoolVar(&a.opts.bugsnag, "bugsnag", false, "Apply the flavor's crash-reporting key")
	f.BoolVar(&a.opts.dryRun, "dry-run", false, "Report what would change without writing anything")
	f.BoolVar(&a.opts.noStage, "no-stage", false, "Do not stage the changes in git afterwards")
	f.StringVar(&a.opts.projectDir, "project", "", "Project directory (default: $MOBRENAME_PROJECT or the current directory)")
	f.StringVar(&a.opts.configPath, "config", "", "Path to config file")
	f.BoolVar(&a.opts.jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	f.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Log every step to stderr")
	f.BoolVar(&a.opts.version, "version", false, "Show version and build information")
	f.SetNormalizeFunc(normalizeFlag)

	cmd.SetOut(a.out)
	return cmd
}

// normalizeFlag accepts camelCase spellings of the long flags.
func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "bundleID", "bundleId":
		name = "bundle-id"
	case "pathContentStr":
		name = "path-content-str"
	case "skipGitStatusCheck":
		name = "skip-git-status-check"
	case "flavorFile":
		name = "flavor-file"
	}
	return pflag.NormalizedName(name)
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout)
}

func run(ctx context.Context, args []string, out io.Writer) int {
	a := &app{out: out}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	ce := classify(err)
	if !a.opts.jsonOutput && wantsJSON(args) {
		// Parsing stopped at a bad flag before reaching --json.
		a.opts.jsonOutput = true
	}
	if !ce.reported {
		a.printError(ce)
	}
	return ce.exit
}

// wantsJSON reports whether args ask for JSON output, reading --json the
// way the flag set does: the last occurrence wins.
func wantsJSON(args []string) bool {
	on := false
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		name, value, hasValue := strings.Cut(arg[2:], "=")
		if name != "json" {
			continue
		}
		if !hasValue {
			on = true
			continue
		}
		if v, err := strconv.ParseBool(value); err == nil {
			on = v
		}
	}
	return on
}

func (a *app) printError(ce *cliError) {
	if a.opts.jsonOutput {
		_ = outputError(a.out, ce)
		return
	}

	var b strings.Builder
	b.WriteString(ui.Error(ce.err.Error()))
	b.WriteString("\n")
	for _, d := range ce.details {
		fmt.Fprintf(&b, "  %s %s\n", ui.SymbolSkip, ui.FilePath(d))
	}
	if ce.suggestion != "" {
		b.WriteString(ui.Hint(ce.suggestion))
		b.WriteString("\n")
	}
	_, _ = io.WriteString(a.out, b.String())
}
