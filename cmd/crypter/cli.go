package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/samber/mo"

	"github.com/unkn0wn-root/crypter/cipher"
)

const usage = `usage: crypter [-config path] [-user name] <command> [flags] [text]

commands:
  encode -method M [-shift N] [-keyword K] [text]   text defaults to stdin
  decode -method M [-shift N] [-keyword K] [text]
  history [-limit N]                                newest first
  methods                                           list the cipher catalog
  repl                                              read commands from stdin
`

// Options holds the global CLI options.
type Options struct {
	ConfigPath string
	User       string
	Command    string
	Args       []string
}

// ParseFlags parses global flags and splits off the command.
func ParseFlags(args []string, stderr io.Writer) (Options, error) {
	fs := flag.NewFlagSet("crypter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file")
	fs.StringVar(&opts.User, "user", "", "History owner; overrides config user")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return opts, flag.ErrHelp
	}
	opts.Command = fs.Arg(0)
	opts.Args = fs.Args()[1:]
	return opts, nil
}

// transformArgs is the parsed tail of encode and decode.
type transformArgs struct {
	method cipher.Method
	params cipher.Params
	text   mo.Option[string]
}

func parseTransform(name string, args []string, stderr io.Writer) (transformArgs, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	method := fs.String("method", "", "cipher method id or alias (see: crypter methods)")
	shift := fs.Int("shift", cipher.DefaultShift, "shift for the shift method")
	keyword := fs.String("keyword", cipher.DefaultKeyword, "keyword for the vigenere method")
	if err := fs.Parse(args); err != nil {
		return transformArgs{}, err
	}

	var out transformArgs
	m, err := cipher.ParseMethod(*method)
	if err != nil {
		return out, err
	}
	out.method = m
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shift":
			out.params.Shift = mo.Some(*shift)
		case "keyword":
			out.params.Keyword = mo.Some(*keyword)
		}
	})
	if fs.NArg() > 0 {
		out.text = mo.Some(strings.Join(fs.Args(), " "))
	}
	return out, nil
}

func parseHistory(args []string, stderr io.Writer) (int, error) {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	limit := fs.Int("limit", 20, "maximum entries to show; 0 = all")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if *limit < 0 {
		return 0, fmt.Errorf("limit must not be negative")
	}
	return *limit, nil
}
