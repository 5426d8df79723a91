// Command crypter encodes and decodes text with the crypter ciphers and
// keeps a per-user history of the calls.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	opts, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, opts, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
