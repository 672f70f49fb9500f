package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ib-77/mill/pkg/mill"
	"github.com/ib-77/mill/pkg/mill/vfile"
)

func newRunCmd() *cobra.Command {
	var cfgPath string
	var plugins []string
	var outDir string
	var watch bool

	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Process files through the configured pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cfgPath, &Config{Plugins: plugins})
			if err != nil {
				return err
			}
			proc, err := buildProcessor(cfg)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if watch {
				return watchAndRun(ctx, proc, cfg, args, outDir, cmd.OutOrStdout())
			}
			return runOnce(ctx, proc, cfg, args, outDir, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to pipeline config yaml")
	cmd.Flags().StringSliceVarP(&plugins, "plugin", "p", nil, "stock plugin to register (repeatable)")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "write results into this directory instead of stdout")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-process files on change")
	return cmd
}

func runOnce(ctx context.Context, proc *mill.Processor, cfg *Config, files []string, outDir string, out io.Writer) error {
	for _, path := range files {
		if err := processFile(ctx, proc, cfg, path, outDir, out); err != nil {
			return err
		}
	}
	return nil
}

func processFile(ctx context.Context, proc *mill.Processor, cfg *Config, path, outDir string, out io.Writer) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	file := vfile.FromString(string(b))
	file.Path = path

	res, err := proc.Process(ctx, file, mill.Settings(cfg.Settings))
	if err != nil {
		return fmt.Errorf("process %q: %w", path, err)
	}
	for _, m := range res.File.Messages() {
		slog.Warn("diagnostic", "file", path, "id", res.File.ID(), "message", m.String())
	}

	if outDir == "" {
		_, err = io.WriteString(out, res.Output)
		return err
	}
	target := filepath.Join(outDir, filepath.Base(path))
	if err := os.WriteFile(target, []byte(res.Output), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", target, err)
	}
	slog.Info("wrote", "file", target, "bytes", len(res.Output))
	return nil
}

// watchAndRun processes files once, then re-processes any of them that
// change on disk until ctx is done.
func watchAndRun(ctx context.Context, proc *mill.Processor, cfg *Config, files []string, outDir string, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	targets := make(map[string]string, len(files))
	for _, path := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		targets[abs] = path
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %q: %w", path, err)
		}
	}

	if err := runOnce(ctx, proc, cfg, files, outDir, out); err != nil {
		slog.Error("initial run failed", "error", err)
	}
	slog.Info("watching", "files", len(targets))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, watched := targets[event.Name]
			if !watched || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			slog.Debug("changed", "file", path)
			if err := processFile(ctx, proc, cfg, path, outDir, out); err != nil {
				slog.Error("re-process failed", "file", path, "error", err)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", werr)
		}
	}
}
