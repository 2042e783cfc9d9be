package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/docsift/internal/config"
	"github.com/jackzampolin/docsift/internal/runner"
)

const watchDebounce = 500 * time.Millisecond

var (
	watchInput     string
	watchOutputDir string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep outlines up to date as documents change",
	Long: `Extract outlines for the input directory, then watch it.

New or modified documents are re-extracted after a short quiet period and
removed documents lose their outline file. Changes to the config file are
picked up without a restart; an invalid edit is reported and ignored.

Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := servicesFor(cmd)
		if err != nil {
			return err
		}
		logger := svc.Logger
		cfg := svc.Config.Get()

		inDir := svc.Home.ResolveInput(watchInput, cfg.InputDir)
		outDir := svc.Home.ResolveOutput(watchOutputDir, cfg.OutputDir)
		if err := os.MkdirAll(inDir, 0o755); err != nil {
			return fmt.Errorf("failed to create input directory: %w", err)
		}

		var current atomic.Pointer[runner.Runner]
		current.Store(newRunner(svc, cfg))

		if svc.Config.ConfigFile() != "" {
			svc.Config.OnChange(func(c *config.Config) {
				if err := applyLogLevel(c); err != nil {
					logger.Warn("ignoring log level", "error", err)
				}
				current.Store(newRunner(svc, c))
				logger.Info("config reloaded", "path", svc.Config.ConfigFile())
			})
			svc.Config.OnError(func(err error) {
				logger.Warn("config reload rejected, keeping previous config", "error", err)
			})
			svc.Config.WatchConfig()
		}

		if _, err := current.Load().Outlines(ctx, inDir, outDir); err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Add(inDir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", inDir, err)
		}
		logger.Info("watching for documents", "input", inDir, "output", outDir)

		pending := make(map[string]time.Time)
		ticker := time.NewTicker(watchDebounce / 2)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("watch stopped")
				return nil

			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !svc.Loader.Supported(ev.Name) {
					continue
				}
				switch {
				case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
					pending[ev.Name] = time.Now()
				case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
					delete(pending, ev.Name)
					dest := runner.OutlinePath(outDir, ev.Name)
					if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
						logger.Warn("failed to remove outline", "path", dest, "error", err)
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Error("watch error", "error", err)

			case now := <-ticker.C:
				for path, last := range pending {
					if now.Sub(last) < watchDebounce {
						continue
					}
					delete(pending, path)
					if _, err := current.Load().WriteOutline(ctx, path, outDir); err != nil {
						logger.Error("outline failed", "document", filepath.Base(path), "error", err)
					}
				}
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchInput, "input", "", "directory to watch (default: {home}/input)")
	watchCmd.Flags().StringVar(&watchOutputDir, "output-dir", "", "output directory (default: {home}/output)")

	rootCmd.AddCommand(watchCmd)
}
