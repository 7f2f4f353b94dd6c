package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"

	"VSLauncher/internal/cli/cmd"
	"VSLauncher/internal/cli/output"
	"VSLauncher/internal/network"
	"VSLauncher/internal/version"
	env "VSLauncher/pkg"
	"VSLauncher/pkg/launcher"

	"github.com/Xuanwo/go-locale"
	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"go.abhg.dev/komplete"
	"golang.org/x/text/language"
)

type aboutCmd struct{}

func (aboutCmd) Run(ctx *kong.Context) error {
	color.New(color.Bold).Println(version.Name, version.Current)
	color.New(color.Underline).Println(output.Translate("launcher.description"))
	return nil
}

type CLI struct {
	Run         cmd.RunCmd       `cmd:"" default:"withargs" help:"${run}"`
	Batch       cmd.BatchCmd     `cmd:"" help:"${batch}"`
	Report      cmd.ReportCmd    `cmd:"" help:"${report}"`
	Python      cmd.PythonCmd    `cmd:"" help:"${python}"`
	Config      cmd.ConfigCmd    `cmd:"" help:"${config}"`
	Update      cmd.UpdateCmd    `cmd:"" help:"${update}"`
	Completions komplete.Command `cmd:"" help:"${completions}"`
	About       aboutCmd         `cmd:"" help:"${about}"`

	Verbosity string `help:"${arg_verbosity}" enum:"info,extra,debug" default:"info"`
	Dir       string `help:"${arg_dir}" type:"path" placeholder:"PATH"`
	NoColor   bool   `help:"${arg_nocolor}"`
	Lang      string `help:"${arg_lang}" default:""`
}

func (c *CLI) AfterApply(ctx *kong.Context) error {
	var verbosity int
	switch c.Verbosity {
	case "info":
		verbosity = 0
	case "extra":
		verbosity = 1
	case "debug":
		verbosity = 2
	}
	ctx.Bind(verbosity)

	if c.Dir != "" {
		if err := env.SetDirs(c.Dir); err != nil {
			return err
		}
	}
	if c.NoColor {
		color.NoColor = true
	}

	if c.Lang != "" && c.Lang != "en" && c.Lang != "zh" {
		return fmt.Errorf("invalid language '%s': must be 'en' or 'zh'", c.Lang)
	}
	return nil
}

func vars() kong.Vars {
	vars := make(kong.Vars)
	for k, v := range output.Translations() {
		vars[strings.ReplaceAll(k, ".", "_")] = v
	}
	return vars
}

func valueFormatter(value *kong.Value) string {
	if value.Enum != "" {
		return fmt.Sprintf("%s [%s]", value.Help, strings.Join(value.EnumSlice(), ", "))
	}
	return value.Help
}

// tips prints a tip message based on an error, if any are available.
func tips(err error) {
	// General internet connection related issues
	if errors.Is(err, &net.OpError{}) {
		output.Tip(output.Translate("tip.internet"))
	}
	// A cache couldn't be updated from the remote source
	if errors.Is(err, network.ErrNotCached) {
		output.Tip(output.Translate("tip.cache"))
	}
	// The interpreter could not be spawned or understood
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, launcher.ErrPythonNoVersion) {
		output.Tip(output.Translate("tip.python"))
	}
}

// parseLangFlag checks command line arguments for --lang flag
func parseLangFlag() string {
	for i, arg := range os.Args[1:] {
		if arg == "--lang" && i+1 < len(os.Args[1:]) {
			return os.Args[i+2]
		}
		if strings.HasPrefix(arg, "--lang=") {
			return strings.TrimPrefix(arg, "--lang=")
		}
	}
	return ""
}

// setLanguage picks the output language before the parser is built, since
// the help texts are rendered from the active translation table.
func setLanguage() {
	switch parseLangFlag() {
	case "en":
		output.SetLang(language.English)
		return
	case "zh":
		output.SetLang(language.Chinese)
		return
	}

	if tag, err := locale.Detect(); err == nil {
		output.SetLang(tag)
	} else {
		output.SetLang(language.English)
	}
}

// Run creates the CLI parser and runs it. It returns an exit handler and code.
func Run() (func(int), int) {
	setLanguage()

	parser := kong.Must(&CLI{},
		kong.Name("vslauncher"),
		kong.Description(output.Translate("launcher.description")),
		kong.ConfigureHelp(kong.HelpOptions{
			NoExpandSubcommands: true,
			Compact:             true,
		}),
		kong.ValueFormatter(valueFormatter),
		vars(),
	)
	komplete.Run(parser)

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		exitCode := 1
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Context.PrintUsage(false)
			if strings.Contains(err.Error(), "expected one of") {
				return parser.Exit, 0
			}
			exitCode = parseErr.ExitCode()
		}
		output.Error("%s", err)
		return parser.Exit, exitCode
	}

	if err := ctx.Run(); err != nil {
		// A non-zero child exit is the launcher's own exit status, not a
		// launcher failure.
		var childErr *launcher.ChildExitError
		if errors.As(err, &childErr) {
			return ctx.Exit, childErr.Code
		}

		output.Error("%s", err)
		tips(err)
		var coder kong.ExitCoder
		if errors.As(err, &coder) {
			return ctx.Exit, coder.ExitCode()
		}
		return ctx.Exit, 1
	}
	return ctx.Exit, 0
}
