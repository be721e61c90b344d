package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"duewatch/internal/app"
)

func main() {
	var (
		cfgPath   string
		testQuery string
	)
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config file (yaml or json)")
	flag.StringVar(&testQuery, "test-query", "", "run one search expression, print results and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(cfgPath)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	if testQuery != "" {
		runTestQuery(ctx, a, testQuery)
		return
	}

	if err := a.Start(ctx); err != nil {
		fmt.Println("fatal start:", err)
		os.Exit(1)
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)

	<-ctx.Done()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	a.Stop(stopCtx)
}

func runTestQuery(ctx context.Context, a *app.App, expr string) {
	issues, err := a.RunQuery(ctx, expr)
	if err != nil {
		fmt.Println("query failed:", err)
		os.Exit(1)
	}
	if len(issues) == 0 {
		fmt.Println("no issues matched")
		return
	}
	for _, is := range issues {
		due := "no due date"
		if is.HasDueDate() {
			due = is.DueDate.Format("2006-01-02")
		}
		fmt.Printf("%-12s %-10s %s (%s)\n", is.Key, due, is.Summary, is.Link)
	}
	fmt.Printf("%d issue(s)\n", len(issues))
}
