package main

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"cgraph/internal/config"
	"cgraph/internal/errors"
	"cgraph/internal/export"
	"cgraph/internal/graph"
	"cgraph/internal/keywords"
	"cgraph/internal/render"
	"cgraph/internal/scanner"
	"cgraph/internal/slogutil"
	"cgraph/internal/source"
)

// runSettings is the effective configuration of one invocation: config
// file values with explicitly set flags layered on top.
type runSettings struct {
	Graph  graph.Options
	Render render.Options

	// Lang forces a scanner; empty selects one by extension.
	Lang scanner.Language

	ExportPath   string
	ExportFormat export.Format

	Log slogutil.Options
}

// resolveSettings merges cfg with the shared flags. A flag wins only when
// it was set on the command line.
func resolveSettings(cmd *cobra.Command, cfg *config.Config) (*runSettings, error) {
	flags := cmd.Flags()
	changed := flags.Changed

	s := &runSettings{
		Graph: graph.Options{
			Root:     cfg.Root,
			Complete: cfg.Complete,
		},
		Render: render.Options{
			ShowVariables: cfg.IncludeVariables,
			ShowPrivate:   cfg.IncludePrivate,
			MaxDepth:      cfg.MaxDepth,
			Reversed:      cfg.Reversed,
			Exclusions:    make(keywords.Set),
		},
		ExportPath: cfg.Export.Path,
		Log: slogutil.Options{
			Level:      slogutil.LevelFromString(cfg.Logging.Level),
			File:       cfg.Logging.File,
			FileLevel:  slog.LevelDebug,
			MaxSize:    cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
		},
	}
	if cfg.Lang != "" {
		lang, err := scanner.ParseLanguage(cfg.Lang)
		if err != nil {
			return nil, errors.Config("invalid configuration", err)
		}
		s.Lang = lang
	}

	if changed("root") {
		if rootFlag == "" {
			return nil, usageError(cmd, "root name must not be empty")
		}
		s.Graph.Root = rootFlag
	}
	if changed("complete") {
		s.Graph.Complete = completeFlag
	}
	if changed("reversed") {
		s.Render.Reversed = reversedFlag
	}
	if changed("depth") {
		s.Render.MaxDepth = depthFlag
	}
	for _, inc := range includeFlags {
		switch inc {
		case "x":
			s.Render.ShowVariables = true
		case "_":
			s.Render.ShowPrivate = true
		default:
			return nil, usageError(cmd, "invalid -i argument %q (want x or _)", inc)
		}
	}

	excludeFile := cfg.ExcludeFile
	if changed("exclude-file") {
		excludeFile = excludeFileFlag
	}
	if excludeFile != "" {
		names, err := keywords.LoadFile(excludeFile)
		if err != nil {
			return nil, errors.Config("failed to load exclusion file", err)
		}
		s.Render.Exclusions.Add(names...)
	}

	if changed("export") {
		s.ExportPath = exportFlag
	}
	format := cfg.Export.Format
	if changed("export-format") {
		format = exportFormatFlag
	}
	if s.ExportPath != "" {
		if format == "" {
			s.ExportFormat = export.FormatFor(s.ExportPath)
		} else {
			f, err := export.ParseFormat(format)
			if err != nil {
				return nil, usageError(cmd, "%v", err)
			}
			s.ExportFormat = f
		}
	}

	if changed("verbose") || changed("quiet") {
		s.Log.Level = slogutil.LevelFromVerbosity(verboseFlag, quietFlag)
	}
	if changed("log-file") {
		s.Log.File = logFileFlag
	}
	return s, nil
}

// execute builds the process logger and graphs each file in order.
func execute(cmd *cobra.Command, files []string, s *runSettings) error {
	logger, closer, err := slogutil.Setup(cmd.ErrOrStderr(), s.Log)
	if err != nil {
		return errors.IO(s.Log.File, pathCause(err))
	}
	defer closer.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return graphFiles(ctx, cmd.OutOrStdout(), files, s, logger)
}

// graphFiles processes files strictly one after another. The first failure
// stops the run; graphs already rendered stay printed.
func graphFiles(ctx context.Context, out io.Writer, files []string, s *runSettings, logger *slog.Logger) (err error) {
	var sink export.Writer
	if s.ExportPath != "" {
		sink, err = export.Open(s.ExportPath, s.ExportFormat, logger)
		if err != nil {
			return errors.Export(s.ExportPath, err)
		}
		defer func() {
			if cerr := sink.Close(); cerr != nil && err == nil {
				err = errors.Export(s.ExportPath, cerr)
			}
		}()
	}

	for _, file := range files {
		if err := graphFile(ctx, out, file, s, sink, logger); err != nil {
			return err
		}
	}
	return nil
}

func graphFile(ctx context.Context, out io.Writer, file string, s *runSettings, sink export.Writer, logger *slog.Logger) error {
	lang := s.Lang
	if lang == "" {
		var ok bool
		if lang, ok = source.LanguageFor(file); !ok {
			lang = scanner.LangC
			logger.Debug("Unknown extension, scanning as C", "file", file)
		}
	}

	src, err := source.ReadFile(file)
	if err != nil {
		return errors.IO(file, pathCause(err))
	}

	sc, err := scanner.ForLanguage(lang)
	if err != nil {
		return errors.Parse(file, err)
	}

	start := time.Now()
	g := graph.New(s.Graph)
	if err := sc.Scan(ctx, file, src, g); err != nil {
		return errors.Parse(file, err)
	}
	logger.Debug("Scanned file",
		"file", file,
		"lang", string(lang),
		"nodes", g.Len(),
		"edges", g.NumEdges(),
		"duration", time.Since(start),
	)

	if _, ok := g.Root(); !ok {
		logger.Info("Root not defined, listing top-level symbols", "file", file, "root", s.Graph.Root)
	}

	if err := render.Render(out, g, s.Render); err != nil {
		return errors.NewCgraphError(errors.IOError, "write output", err)
	}

	if sink != nil {
		if err := sink.Add(export.Snapshot(g, file, string(lang))); err != nil {
			return errors.Export(s.ExportPath, err)
		}
	}
	return nil
}

// pathCause strips the operation and path from an *fs.PathError so the
// diagnostic reads "path: reason" exactly once.
func pathCause(err error) error {
	var pe *fs.PathError
	if stderrors.As(err, &pe) {
		return pe.Err
	}
	return err
}
