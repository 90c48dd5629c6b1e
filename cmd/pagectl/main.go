// Command pagectl edits department pages from the terminal through the API
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viet-college/app-dept-pages/internal/apiclient"
	"github.com/viet-college/app-dept-pages/internal/editor"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/utils/httpclient"
	"go.uber.org/zap"
)

const usage = `usage: pagectl [-api URL] [-token TOKEN] <command> [flags]

commands:
  get                 print the migrated document of a page
  upload-syllabus     upload a syllabus file for a program regulation
  delete-regulation   delete a program regulation
  import-sections     replace the sections of a page with a JSON document
  set-hero            upload and record hero image and/or video

environment:
  PAGECTL_API_URL     default for -api
  PAGECTL_TOKEN       default for -token
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("pagectl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	apiURL := global.String("api", envOr("PAGECTL_API_URL", "http://localhost:8080/v1"), "API base URL")
	token := global.String("token", os.Getenv("PAGECTL_TOKEN"), "bearer token for admin routes")
	timeout := global.Duration("timeout", 5*time.Minute, "deadline for the whole command")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	cmd, ok := commands[global.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", global.Arg(0))
		global.Usage()
		return 2
	}

	if err := logging.InitLogger(); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer logging.Logger.Sync()
	logger := logging.Logger.Named("pagectl")

	client := apiclient.New(*apiURL, logger,
		apiclient.WithToken(*token),
		apiclient.WithPool(httpclient.NewHTTPClientPool(2, *timeout)))
	defer client.Close()

	ed := editor.New(client, client, editor.Notifiers(editor.NewLogNotifier(logger), printNotifier(stderr)), logger)
	defer ed.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	err := cmd.run(ctx, &session{editor: ed, out: stdout}, global.Args()[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp), errors.Is(err, errUsage):
		return 2
	default:
		logger.Debug("command failed", zap.String("command", global.Arg(0)), zap.Error(err))
		fmt.Fprintf(stderr, "pagectl %s: %v\n", global.Arg(0), err)
		return 1
	}
}

// printNotifier shows editor notifications the way the admin panel toasts them
func printNotifier(w io.Writer) editor.Notifier {
	return editor.NotifierFunc(func(n editor.Notification) {
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
