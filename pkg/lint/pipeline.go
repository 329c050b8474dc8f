package lint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/fix"
	"github.com/flintlabs/pyflint/pkg/fsutil"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates a parsing error.
	ErrParseFailure = errors.New("parse failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// FileResult holds diagnostics from the FINAL check. After fixing,
	// it reflects the rewritten content, so applied fixes no longer
	// appear.
	*FileResult

	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing (nil for
	// in-memory processing).
	OriginalInfo *fsutil.FileInfo

	// Modified is true if the content was changed.
	Modified bool

	// ModifiedContent is the new content after fixing (nil if not
	// modified).
	ModifiedContent []byte

	// Diff is the unified diff for dry-run mode (nil otherwise).
	Diff *fix.Diff

	// Skipped is true if the file was skipped (e.g., concurrent
	// modification).
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// FixIterations is the number of fix/re-check rounds performed.
	FixIterations int

	// FixesApplied is the total number of fixes applied across rounds.
	FixesApplied int

	// Converged is true when a check round produced no applicable
	// fixes, i.e. the fix loop reached a fixed point. False means the
	// iteration cap stopped a still-changing file.
	Converged bool
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case !pr.Converged:
		return "fixes did not converge"
	case pr.Written && pr.BackupCreated:
		return "fixed (backup created)"
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// PipelineOptions controls pipeline behavior.
type PipelineOptions struct {
	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// StrictRaceDetection uses hash comparison for modification
	// detection. When false, only mod time and size are checked.
	StrictRaceDetection bool

	// MaxFixIterations caps the fix/re-check loop. Set to 0 to use the
	// configured value.
	MaxFixIterations int
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		DryRun:              false,
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Engine is the lint engine used for parsing and rule execution.
	Engine *Engine
}

// NewPipeline creates a pipeline around the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile runs the full pipeline for a single file:
//
//  1. Read and hash the original file.
//  2. Fix loop: check, apply eligible fixes, re-check the rewritten
//     content, until a round applies nothing or the iteration cap hits.
//  3. Generate a diff (dry-run mode).
//  4. Check for concurrent modification.
//  5. Create a backup (if enabled).
//  6. Write the rewritten content atomically.
//
// In the default mode (no fixing) the loop runs a single check round.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	originalContent, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, originalContent, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified || opts.DryRun {
		return result, nil
	}

	// Concurrent modification check before writing.
	modified, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent runs the check and fix loop on in-memory content
// without touching the file system. ProcessFile delegates here; tests
// and stdin input use it directly.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	originalContent []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	maxIterations := opts.MaxFixIterations
	if maxIterations <= 0 {
		maxIterations = cfg.EffectiveMaxFixIterations()
	}

	content := originalContent
	var fileResult *FileResult

	for range maxIterations {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
		default:
		}

		var checkErr error
		fileResult, checkErr = p.Engine.CheckFile(ctx, path, content, cfg)
		if checkErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, checkErr)
		}

		if !cfg.FixMode.Applies() {
			result.Converged = true
			break
		}

		outcome := ApplyFixes(content, fileResult.Diagnostics, cfg.FixMode)
		if !outcome.Changed {
			result.Converged = true
			break
		}

		content = outcome.Content
		result.FixIterations++
		result.FixesApplied += len(outcome.Applied)
		result.Modified = true
	}

	// Iteration cap hit while fixes were still landing: re-check once
	// so the reported diagnostics match the final content.
	if !result.Converged && result.Modified {
		var checkErr error
		fileResult, checkErr = p.Engine.CheckFile(ctx, path, content, cfg)
		if checkErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, checkErr)
		}
	}

	result.FileResult = fileResult
	if result.Modified {
		result.ModifiedContent = content
		if opts.DryRun {
			result.Diff = fix.GenerateDiff(path, originalContent, content)
		}
	}
	return result, nil
}

// checkModified checks if a file changed since it was read.
func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	if strict {
		return fsutil.CheckModified(ctx, info)
	}
	return fsutil.CheckModifiedQuick(ctx, info)
}

// categorizeError wraps an error with the matching pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}

// PipelineOptionsFromConfig derives pipeline options from the
// configuration.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	opts := DefaultPipelineOptions()
	if cfg == nil {
		return opts
	}
	opts.DryRun = cfg.DryRun
	opts.Backup = BackupConfigFromConfig(cfg)
	opts.MaxFixIterations = cfg.EffectiveMaxFixIterations()
	return opts
}

// BackupConfigFromConfig derives backup behavior from the configuration.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{Enabled: cfg.Backups.Enabled}
}
