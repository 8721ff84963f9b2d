package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/ritzau/bfs-visualizer/pkg/bfs"
	"github.com/ritzau/bfs-visualizer/pkg/config"
	"github.com/ritzau/bfs-visualizer/pkg/logging"
	"github.com/ritzau/bfs-visualizer/pkg/output"
	"github.com/ritzau/bfs-visualizer/pkg/reload"
	"github.com/ritzau/bfs-visualizer/pkg/watcher"
	"github.com/ritzau/bfs-visualizer/pkg/web"
)

const (
	debounceQuiet   = 200 * time.Millisecond
	debounceMaxWait = 2 * time.Second
)

func main() {
	flags := config.Flags(os.Args[0])
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	// In CLI mode stdout carries the trace, so logs go to stderr.
	logOut := os.Stderr
	if cfg.WebMode {
		logOut = os.Stdout
	}
	if err := logging.Setup(logOut, cfg.LogLevel(), cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.WebMode {
		err = runWeb(ctx, cfg)
	} else {
		err = runCLI(cfg)
	}
	if err != nil {
		logging.Error("exiting", "error", err)
		stop()
		os.Exit(1)
	}
}

func runCLI(cfg *config.Config) error {
	src, err := reload.Load(reload.Config{Path: cfg.Graph, Start: cfg.Start, Goal: cfg.Goal})
	if err != nil {
		return err
	}
	logging.Debug("running traversal", "graph", src.Name, "start", src.Start, "goal", src.Goal)

	res, err := bfs.Traverse(src.Graph, src.Start, src.Goal)
	if err != nil {
		return err
	}

	output.PrintTraversal(os.Stdout, src.Name, res)
	return nil
}

func runWeb(ctx context.Context, cfg *config.Config) error {
	server := web.NewServer(cfg.Interval())
	reloader := reload.NewReloader(
		reload.Config{Path: cfg.Graph, Start: cfg.Start, Goal: cfg.Goal},
		server,
		server.Publisher(),
	)

	// The first load must succeed; later reloads may fail and keep the last good graph.
	if err := reloader.Run(ctx, "startup"); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	var changes <-chan watcher.ChangeEvent
	if cfg.Watch {
		if cfg.Graph == "" {
			logging.Warn("--watch has no effect with the built-in graph")
		} else {
			fw, err := watcher.NewFileWatcher(cfg.Graph)
			if err != nil {
				return err
			}
			if err := fw.Start(ctx); err != nil {
				return err
			}
			debouncer := watcher.NewDebouncer(fw.Events(), debounceQuiet, debounceMaxWait)
			debouncer.Start(ctx)
			changes = debouncer.Output()
		}
	}

	g.Go(func() error {
		return server.Start(ctx, cfg.Port)
	})

	if changes != nil {
		g.Go(func() error {
			return reloader.Watch(ctx, changes)
		})
	}

	if cfg.OpenBrowser {
		url := fmt.Sprintf("http://localhost:%d/api/graph-info", cfg.Port)
		g.Go(func() error {
			// Give the listener a moment before the browser connects
			select {
			case <-ctx.Done():
			case <-time.After(500 * time.Millisecond):
				openBrowser(url)
			}
			return nil
		})
	}

	return g.Wait()
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on this platform", "os", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "url", url, "error", err)
	}
}
