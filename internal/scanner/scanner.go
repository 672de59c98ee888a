package scanner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/internal/tree"
	"github.com/msto63/transync/pkg/core/logging"
)

// Config configures a Scanner
type Config struct {
	// Include and Exclude are glob patterns matched against paths relative
	// to the scanned root, with "/" separators. "**" crosses directories.
	Include          []string
	Exclude          []string
	Functions        []string
	ContextFunctions []string
}

// Result describes one scan
type Result struct {
	Tree     *tree.Context
	Files    int
	Matches  int
	Keys     int
	Contexts int
}

// Scanner walks directory trees and parses every selected file
type Scanner struct {
	fs      afero.Fs
	parser  *Parser
	include []glob.Glob
	exclude []glob.Glob
	logger  *logging.Logger
}

// New creates a scanner over fs. Invalid glob patterns fail with
// CodeInvalidPattern.
func New(fs afero.Fs, cfg Config, logger *logging.Logger) (*Scanner, error) {
	include, err := compileGlobs(cfg.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(cfg.Exclude)
	if err != nil {
		return nil, err
	}
	return &Scanner{
		fs:      fs,
		parser:  NewParser(cfg.Functions, cfg.ContextFunctions),
		include: include,
		exclude: exclude,
		logger:  logger,
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, mdwerror.Wrap(err, "invalid glob pattern").
				WithCode(mdwerror.CodeInvalidPattern).
				WithDetail("pattern", p)
		}
		out = append(out, g)
	}
	return out, nil
}

// Scan walks every root in lexical order and returns the discovered keys.
// A root may also name a single file.
func (s *Scanner) Scan(ctx context.Context, roots []string) (*Result, error) {
	timer := s.logger.StartTimer("scan")
	res := &Result{Tree: tree.New()}

	for _, root := range roots {
		if err := s.scanRoot(ctx, root, res); err != nil {
			timer.StopWithError(err)
			return nil, err
		}
	}
	res.Keys, res.Contexts = res.Tree.Counts()
	timer.Stop()

	s.logger.Info("Scan complete",
		"files", res.Files,
		"matches", res.Matches,
		"keys", res.Keys,
		"contexts", res.Contexts)
	return res, nil
}

func (s *Scanner) scanRoot(ctx context.Context, root string, res *Result) error {
	info, err := s.fs.Stat(root)
	if err != nil {
		return mdwerror.Wrap(err, "scan root not accessible").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("scanner.Scan").
			WithDetail("root", root)
	}
	if !info.IsDir() {
		return s.parse(root, res)
	}

	return afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return mdwerror.Wrap(err, "walk source tree").
				WithCode(mdwerror.CodeIO).
				WithOperation("scanner.Scan").
				WithDetail("path", path)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if matchAny(s.exclude, rel+"/") {
				s.logger.Debug("Directory skipped", "path", path)
				return filepath.SkipDir
			}
			return nil
		}
		if !s.Selected(rel) {
			return nil
		}
		return s.parse(path, res)
	})
}

func (s *Scanner) parse(path string, res *Result) error {
	n, err := s.parser.ParseFile(s.fs, path, res.Tree)
	if err != nil {
		return err
	}
	res.Files++
	res.Matches += n
	if n > 0 {
		s.logger.Debug("File scanned", "path", path, "matches", n)
	}
	return nil
}

// Selected reports whether a root-relative path passes the include and
// exclude patterns. An empty include list selects every file.
func (s *Scanner) Selected(rel string) bool {
	if len(s.include) > 0 && !matchAny(s.include, rel) {
		return false
	}
	return !matchAny(s.exclude, rel)
}

func matchAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}
