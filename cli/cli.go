package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nixed/cli/cmd"
	"github.com/ardnew/nixed/edit"
	"github.com/ardnew/nixed/log"
	"github.com/ardnew/nixed/pkg"
)

// CLI is the top-level command-line interface for nixed.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Path         string        `default:"${defaultPath}" help:"Path to the replit.nix file"                short:"f" type:"path"`
	DepType      edit.Category `default:"regular"        help:"Dependency category (regular or python)"    short:"t"`
	Human        bool          `help:"Print human-readable responses instead of protocol JSON"             negatable:""`
	ReturnOutput bool          `help:"Return the new document text instead of writing the file"`

	Add    cmd.Add    `cmd:"" help:"Add a dependency to the target list"`
	Remove cmd.Remove `cmd:"" help:"Remove a dependency from the target list"`
	Get    cmd.Get    `cmd:"" help:"List dependencies of the target list"`
	Init   cmd.Init   `cmd:"" help:"Write an empty skeleton file"`
	Browse cmd.Browse `cmd:"" help:"Browse and edit dependencies interactively"`

	Serve cmd.Serve `cmd:"" default:"1" help:"Read JSON operations from stdin (default)"`
}

// Run executes the nixed CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"defaultPath": defaultNixPath(),
		"version":     strings.TrimSpace(pkg.Version),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(baseConfig), configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	editor := edit.Make(cli.Path,
		edit.WithReturnOnly(cli.ReturnOutput),
		edit.WithLogger(log.Default()),
	)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithEditor(ctx, editor)
	ctx = cmd.WithCategory(ctx, cli.DepType)
	ctx = cmd.WithHuman(ctx, cli.Human)

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
