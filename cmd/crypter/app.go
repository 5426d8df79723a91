package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/samber/mo"

	"github.com/unkn0wn-root/crypter"
	"github.com/unkn0wn-root/crypter/cipher"
	"github.com/unkn0wn-root/crypter/config"
	asynchook "github.com/unkn0wn-root/crypter/hooks/async"
	"github.com/unkn0wn-root/crypter/observability"
	"github.com/unkn0wn-root/crypter/sloghooks"
)

type app struct {
	c      crypter.Crypter
	user   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// run is the entry point after global flag parsing.
func run(ctx context.Context, opts Options, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger, slogger, flush, err := observability.Setup(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "failed to setup logger: %v\n", err)
		return 1
	}
	defer flush()

	hooks := asynchook.New(sloghooks.New(slogger, sloghooks.Options{SelfHealEvery: 10}), 1, 256)
	defer hooks.Close()

	store, err := openHistory(ctx, cfg.History, hooks.HistorySelfHeal)
	if err != nil {
		logger.Error("history unavailable", crypter.Fields{"backend": cfg.History.Backend, "err": err})
		fmt.Fprintf(stderr, "failed to open history: %v\n", err)
		return 1
	}

	copts := crypter.Options{
		History:       store,
		Logger:        logger,
		Hooks:         hooks,
		StrictHistory: cfg.History.Strict,
		Defaults: cipher.Params{
			Shift:   mo.Some(cfg.Cipher.Shift),
			Keyword: mo.Some(cfg.Cipher.Keyword),
		},
	}
	c, err := crypter.New(copts)
	if err != nil {
		fmt.Fprintf(stderr, "invalid cipher defaults: %v\n", err)
		return 1
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Close(cctx); err != nil {
			logger.Warn("history close failed", crypter.Fields{"err": err})
		}
	}()

	a := &app{c: c, user: cfg.User, stdin: stdin, stdout: stdout, stderr: stderr}
	if opts.User != "" {
		a.user = opts.User
	}
	logger.Debug("crypter started", crypter.Fields{
		"command": opts.Command,
		"history": cfg.History.Backend,
		"codec":   cfg.History.Codec,
	})

	if opts.Command == "repl" {
		return a.repl(ctx)
	}
	if err := a.exec(ctx, opts.Command, opts.Args); err != nil {
		fmt.Fprintf(stderr, "crypter: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "encode", "decode":
		return a.transform(ctx, cmd, args)
	case "history":
		limit, err := parseHistory(args, a.stderr)
		if err != nil {
			return err
		}
		return a.history(ctx, limit)
	case "methods":
		return a.methods()
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) transform(ctx context.Context, cmd string, args []string) error {
	ta, err := parseTransform(cmd, args, a.stderr)
	if err != nil {
		return err
	}
	text, ok := ta.text.Get()
	if !ok {
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSuffix(strings.TrimSuffix(string(b), "\n"), "\r")
	}

	dir := cipher.Encode
	if cmd == "decode" {
		dir = cipher.Decode
	}
	res, err := a.c.Do(ctx, crypter.Request{
		User:      a.user,
		Method:    ta.method,
		Direction: dir,
		Text:      text,
		Params:    ta.params,
	})
	var he *crypter.HistoryError
	if errors.As(err, &he) {
		fmt.Fprintln(a.stdout, res.Text)
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, res.Text)
	return nil
}

func (a *app) history(ctx context.Context, limit int) error {
	if a.user == "" {
		return errors.New("history needs a user (-user or config user)")
	}
	entries, err := a.c.History(ctx, a.user, limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tTIME\tMETHOD\tOP\tINPUT\tOUTPUT")
	for _, e := range entries {
		op := "encrypt"
		if e.Decrypt {
			op = "decrypt"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.Seq, e.CreatedAt.Format(time.RFC3339), e.Method, op, quote(e.Input), quote(e.Output))
	}
	return tw.Flush()
}

func (a *app) methods() error {
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, it := range a.c.Catalog() {
		fmt.Fprintf(tw, "%s\t%s\n", it.ID, it.Label)
	}
	return tw.Flush()
}

// repl runs one command per line:
//
//	encode <method> <text...>
//	decode <method> <text...>
//	history [limit]
//	methods
//	quit
func (a *app) repl(ctx context.Context) int {
	sc := bufio.NewScanner(a.stdin)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	failed := 0
	for sc.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		if cmd == "quit" || cmd == "exit" {
			break
		}
		if err := a.replLine(ctx, cmd, rest); err != nil {
			failed++
			fmt.Fprintf(a.stderr, "error: %v\n", err)
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(a.stderr, "read: %v\n", err)
		return 1
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func (a *app) replLine(ctx context.Context, cmd, rest string) error {
	switch cmd {
	case "encode", "decode":
		method, text, _ := strings.Cut(strings.TrimLeft(rest, " "), " ")
		return a.transform(ctx, cmd, []string{"-method", method, "--", text})
	case "history":
		limit := 0
		if s := strings.TrimSpace(rest); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return fmt.Errorf("bad limit %q", s)
			}
			limit = n
		}
		return a.history(ctx, limit)
	case "methods":
		return a.methods()
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// quote shortens s to at most 40 bytes, cutting on a rune boundary.
func quote(s string) string {
	const shown = 40
	if len(s) > shown {
		cut := shown
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "…"
	}
	return strconv.Quote(s)
}
