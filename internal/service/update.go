// Package service orchestrates test generation: mapping changed sources to
// targets, prompting a generator, merging the reply into existing test
// files, and recording run history.
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/testforge/internal/adapters/git"
	"github.com/hugo-lorenzo-mato/testforge/internal/config"
	"github.com/hugo-lorenzo-mato/testforge/internal/core"
	"github.com/hugo-lorenzo-mato/testforge/internal/fsutil"
	"github.com/hugo-lorenzo-mato/testforge/internal/history"
	"github.com/hugo-lorenzo-mato/testforge/internal/logging"
	"github.com/hugo-lorenzo-mato/testforge/internal/merge"
	"github.com/hugo-lorenzo-mato/testforge/internal/project"
	"github.com/hugo-lorenzo-mato/testforge/internal/prompt"
	"github.com/hugo-lorenzo-mato/testforge/internal/target"
)

// Mode describes how a test file was produced.
type Mode string

const (
	ModeGenerate  Mode = "generate"   // no existing test file
	ModeUpdate    Mode = "update"     // one block replaced in place
	ModeWholeFile Mode = "whole-file" // existing file regenerated entirely
)

// UpdateResult summarizes one completed update.
type UpdateResult struct {
	SourcePath string
	TestPath   string
	Mode       Mode
	MatchRule  merge.MatchRule
	Content    string
	RunID      string
	TokensIn   int
	TokensOut  int
	Duration   time.Duration
}

// Updater turns changed source files into updated test files.
type Updater struct {
	cfg         config.Config
	gen         core.Generator
	logger      *logging.Logger
	renderer    *prompt.Renderer
	mapper      *target.Mapper
	partitioner *merge.Partitioner
	policy      *RetryPolicy
	store       *history.Store

	// DryRun skips writing; the result carries the would-be content.
	DryRun bool
}

// NewUpdater wires an updater from configuration. The history store may
// be nil, in which case runs are not recorded.
func NewUpdater(cfg config.Config, gen core.Generator, store *history.Store, logger *logging.Logger) (*Updater, error) {
	if gen == nil {
		return nil, core.ErrValidation("NO_GENERATOR", "updater requires a generator")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	renderer, err := prompt.NewRenderer()
	if err != nil {
		return nil, err
	}

	policy := DefaultRetryPolicy()
	if cfg.Generator.MaxRetries > 0 {
		policy.MaxAttempts = cfg.Generator.MaxRetries
	}

	groupToken := cfg.Merge.GroupToken
	if groupToken == "" {
		groupToken = merge.DefaultGroupToken
	}

	return &Updater{
		cfg:      cfg,
		gen:      gen,
		logger:   logger,
		renderer: renderer,
		mapper:   target.NewMapper(cfg.Merge.FeatureKeywords),
		partitioner: merge.NewPartitioner(merge.Options{
			GroupToken:      groupToken,
			FeatureKeywords: cfg.Merge.FeatureKeywords,
		}),
		policy: policy,
		store:  store,
	}, nil
}

// TestPathFor maps a source path to its test file path: the base name with
// the configured test suffix, under the configured test directory.
func (u *Updater) TestPathFor(sourcePath string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	suffix := u.cfg.Project.TestSuffix
	if suffix == "" {
		suffix = ".spec.js"
	}

	testDir := u.cfg.Project.TestDir
	if testDir == "" {
		testDir = "tests"
	}

	return filepath.Join(u.cfg.Project.Root, testDir, base+suffix)
}

// UpdateFile regenerates the test coverage for one source file. When the
// existing test file has a block matching the derived target, only that
// block is replaced; otherwise the whole file is regenerated. A match is
// never guessed: ambiguity falls through to whole-file mode so no
// unrelated block is destroyed.
func (u *Updater) UpdateFile(ctx context.Context, sourcePath string) (*UpdateResult, error) {
	log := u.logger.WithFile(sourcePath)
	started := time.Now()

	sourceContent, err := fsutil.ReadFileScoped(sourcePath)
	if err != nil {
		return nil, core.ErrNotFound("SOURCE", sourcePath).WithCause(err)
	}

	tgt := u.mapper.FromPath(sourcePath)
	testPath := u.TestPathFor(sourcePath)

	var existing string
	if fsutil.Exists(testPath) {
		data, err := fsutil.ReadFileScoped(testPath)
		if err != nil {
			return nil, fmt.Errorf("reading test file: %w", err)
		}
		existing = string(data)
	}

	zone, hasZone := merge.ExtractManualZone(existing)
	parsed := u.partitioner.Parse(existing)

	var block *merge.Block
	rule := merge.MatchNone
	if len(parsed.Blocks) > 0 {
		block, rule = merge.FindMatch(&parsed, tgt.Feature, tgt.TestName)
	}

	var result *UpdateResult
	if block != nil {
		result, err = u.updateBlock(ctx, sourcePath, string(sourceContent), testPath, existing, *block, tgt)
	} else {
		result, err = u.generateFile(ctx, sourcePath, string(sourceContent), testPath, existing, zone, tgt)
	}

	if err != nil {
		u.recordRun(ctx, sourcePath, tgt, result, rule, time.Since(started), err)
		return nil, err
	}

	// The zone can live inside the replaced block, so the guard runs on
	// the final text of both modes, not just whole-file regeneration.
	if hasZone {
		var repaired bool
		result.Content, repaired = merge.EnsureManualZone(result.Content, zone)
		if repaired {
			log.Warn("manual zone dropped by generator, reinserted", "test_file", testPath)
		}
	}

	result.SourcePath = sourcePath
	result.TestPath = testPath
	result.MatchRule = rule
	result.Duration = time.Since(started)

	if !u.DryRun {
		if err := fsutil.WriteFileAtomic(testPath, []byte(result.Content), 0o644); err != nil {
			return nil, fmt.Errorf("writing test file: %w", err)
		}
	}

	result.RunID = u.recordRun(ctx, sourcePath, tgt, result, rule, result.Duration, nil)

	log.Info("update complete",
		"test_file", testPath,
		"mode", string(result.Mode),
		"rule", rule.String(),
		"duration", result.Duration,
		"tokens_in", result.TokensIn,
		"tokens_out", result.TokensOut,
		"dry_run", u.DryRun,
	)
	return result, nil
}

// updateBlock regenerates one block and splices it into the existing file.
func (u *Updater) updateBlock(ctx context.Context, sourcePath, sourceContent, testPath string, existing string, block merge.Block, tgt core.MatchTarget) (*UpdateResult, error) {
	promptText, err := u.renderer.RenderUpdateBlock(prompt.UpdateBlockParams{
		SourcePath:    sourcePath,
		SourceContent: sourceContent,
		TestPath:      testPath,
		BlockContent:  block.Content,
		Feature:       tgt.Feature,
		TestName:      tgt.TestName,
		GroupToken:    u.groupToken(),
	})
	if err != nil {
		return nil, err
	}

	genResult, err := u.generate(ctx, promptText)
	if err != nil {
		return nil, err
	}

	reply := merge.StripCodeFences(genResult.Output)
	newBlock, ok := merge.TrimToBlockStart(reply, u.groupToken())
	if !ok {
		return nil, core.ErrExecution("NO_BLOCK_IN_REPLY",
			"generator reply contains no test block").WithDetail("provider", u.gen.Name())
	}

	content := merge.ReplaceBlock(existing, block, strings.TrimSpace(newBlock))
	return &UpdateResult{
		Mode:      ModeUpdate,
		Content:   content,
		TokensIn:  genResult.TokensIn,
		TokensOut: genResult.TokensOut,
	}, nil
}

// generateFile requests a complete test file. The manual zone from any
// previous file version is quoted in the prompt; UpdateFile repairs it
// afterwards if the generator dropped it anyway.
func (u *Updater) generateFile(ctx context.Context, sourcePath, sourceContent, testPath, existing, zone string, tgt core.MatchTarget) (*UpdateResult, error) {
	tree := ""
	if u.cfg.Project.Root != "" {
		if t, err := project.Tree(u.cfg.Project.Root, project.DefaultTreeOptions()); err == nil {
			tree = t
		}
	}

	promptText, err := u.renderer.RenderGenerate(prompt.GenerateParams{
		SourcePath:    sourcePath,
		SourceContent: sourceContent,
		TestPath:      testPath,
		ProjectTree:   tree,
		GroupToken:    u.groupToken(),
		ManualZone:    zone,
		Keywords:      u.cfg.Merge.FeatureKeywords,
	})
	if err != nil {
		return nil, err
	}

	genResult, err := u.generate(ctx, promptText)
	if err != nil {
		return nil, err
	}

	content := merge.StripCodeFences(genResult.Output)
	if trimmed, ok := merge.TrimToBlockStart(content, u.groupToken()); ok {
		// Keep anything before the first block only if it looks like a
		// header the generator produced; a chatty preamble is dropped.
		if headerLooksGenerated(content, trimmed) {
			content = trimmed
		}
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	mode := ModeGenerate
	if existing != "" {
		mode = ModeWholeFile
	}

	return &UpdateResult{
		Mode:      mode,
		Content:   content,
		TokensIn:  genResult.TokensIn,
		TokensOut: genResult.TokensOut,
	}, nil
}

// headerLooksGenerated reports whether the text before the first block is
// prose rather than imports/comments, in which case trimming is safe.
func headerLooksGenerated(full, trimmed string) bool {
	header := strings.TrimSpace(strings.TrimSuffix(full, trimmed))
	if header == "" {
		return false
	}
	for _, line := range strings.Split(header, "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "//") || strings.HasPrefix(t, "/*") ||
			strings.HasPrefix(t, "*") || strings.HasPrefix(t, "import ") ||
			strings.HasPrefix(t, "const ") || strings.HasPrefix(t, "let ") ||
			strings.HasPrefix(t, "var ") {
			return false
		}
	}
	return true
}

// generate calls the provider with retry and per-attempt timeout.
func (u *Updater) generate(ctx context.Context, promptText string) (*core.GenerateResult, error) {
	req := core.DefaultGenerateRequest()
	req.Prompt = promptText
	req.SystemPrompt = prompt.SystemPrompt
	req.Model = u.cfg.Generator.Model
	req.Timeout = u.cfg.Generator.TimeoutDuration()
	if u.cfg.Generator.MaxTokens > 0 {
		req.MaxTokens = u.cfg.Generator.MaxTokens
	}
	if u.cfg.Generator.Temperature > 0 {
		req.Temperature = u.cfg.Generator.Temperature
	}

	var result *core.GenerateResult
	err := u.policy.Execute(ctx, func(ctx context.Context) error {
		var genErr error
		result, genErr = u.gen.Generate(ctx, req)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Output) == "" {
		return nil, core.ErrExecution("EMPTY_REPLY", "generator returned empty output")
	}
	return result, nil
}

func (u *Updater) groupToken() string {
	if u.cfg.Merge.GroupToken != "" {
		return u.cfg.Merge.GroupToken
	}
	return merge.DefaultGroupToken
}

// recordRun writes a history row if a store is configured. History is
// best-effort: failures are logged, never surfaced.
func (u *Updater) recordRun(ctx context.Context, sourcePath string, tgt core.MatchTarget, result *UpdateResult, rule merge.MatchRule, duration time.Duration, runErr error) string {
	if u.store == nil {
		return ""
	}

	run := history.Run{
		File:      sourcePath,
		Feature:   tgt.Feature,
		TestName:  tgt.TestName,
		Mode:      "generate",
		MatchRule: rule.String(),
		Provider:  u.gen.Name(),
		Model:     u.cfg.Generator.Model,
		Duration:  duration,
	}
	if result != nil {
		run.Mode = string(result.Mode)
		run.TokensIn = result.TokensIn
		run.TokensOut = result.TokensOut
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	id, err := u.store.Record(ctx, run)
	if err != nil {
		u.logger.Warn("recording run failed", "error", err)
		return ""
	}
	return id
}

// UpdateChanged discovers changed source files through git and updates each
// one, bounded by the configured parallelism. The first error cancels the
// group; files already in flight finish their atomic writes.
func (u *Updater) UpdateChanged(ctx context.Context, gitClient *git.Client, baseRef string) ([]*UpdateResult, error) {
	files, err := gitClient.ChangedFiles(ctx, baseRef)
	if err != nil {
		return nil, err
	}

	files = u.filterSources(files)
	if len(files) == 0 {
		u.logger.Info("no changed source files")
		return nil, nil
	}

	parallel := u.cfg.Generator.Parallel
	if parallel <= 0 {
		parallel = 2
	}

	results := make([]*UpdateResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, file := range files {
		g.Go(func() error {
			result, err := u.UpdateFile(ctx, filepath.Join(u.cfg.Project.Root, file))
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// filterSources keeps paths inside the source dir matching the configured
// globs (all .js/.ts files when no globs are configured).
func (u *Updater) filterSources(files []string) []string {
	var kept []string
	for _, f := range files {
		if u.cfg.Project.SourceDir != "" {
			rel, err := filepath.Rel(u.cfg.Project.SourceDir, f)
			if err != nil || strings.HasPrefix(rel, "..") {
				continue
			}
		}
		if u.matchesGlobs(f) {
			kept = append(kept, f)
		}
	}
	return kept
}

func (u *Updater) matchesGlobs(file string) bool {
	globs := u.cfg.Project.SourceGlobs
	if len(globs) == 0 {
		ext := filepath.Ext(file)
		return ext == ".js" || ext == ".ts" || ext == ".jsx" || ext == ".tsx"
	}
	base := filepath.Base(file)
	for _, glob := range globs {
		if ok, err := filepath.Match(glob, base); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(glob, file); err == nil && ok {
			return true
		}
	}
	return false
}
