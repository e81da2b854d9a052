/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/supportsync/internal/gitctx"
	"github.com/fulmenhq/supportsync/pkg/config"
	"github.com/fulmenhq/supportsync/pkg/exitcode"
	"github.com/fulmenhq/supportsync/pkg/logger"
	"github.com/fulmenhq/supportsync/pkg/manifest"
	"github.com/fulmenhq/supportsync/pkg/reconcile"
	"github.com/fulmenhq/supportsync/pkg/target"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type checkOptions struct {
	dryRun bool
	format string
}

// checkFlagKeys maps check flags onto config keys.
var checkFlagKeys = map[string]string{
	"manifest-repo":   "manifest.repo",
	"manifest-ref":    "manifest.ref",
	"manifest-subdir": "manifest.subdir",
	"manifest-dir":    "manifest.dir",
	"validate-xml":    "manifest.validate_xml",
	"repo-root":       "target.repo_root",
	"target":          "target.file",
	"marker":          "target.marker",
	"commit":          "git.commit",
}

func newCheckCommand() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Add released versions missing from the supported version list",
		Long: `Check lists the release manifests (files such as 7.1.2-MP1.xml) in the manifest
repository, keeps every MAJOR.MINOR line at or above the lowest declared entry and
adds the ones not yet present to the list in the target file. The rewritten file
is staged with git unless --no-stage is given.

Examples:
  # Clone the default manifest repository and update ./cb-non-package-installer
  supportsync check

  # Use a local manifest checkout and report as JSON without writing
  supportsync check --manifest-dir ../manifest --dry-run --format json

  # Stage and commit the change
  supportsync check --commit

Exit Codes:
  0 - All released versions supported (or list updated)
  2 - Configuration error
  3 - Declared list has no valid entries
  5 - Manifest repository could not be cloned
  7 - Timed out
  8 - Target file or list marker not found
  9 - Target is not inside a git repository`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().String("manifest-repo", "", "Manifest repository URL, path or owner/repo")
	cmd.Flags().String("manifest-ref", "", "Branch or tag to clone (default: remote HEAD)")
	cmd.Flags().String("manifest-subdir", "", "Directory holding released manifests")
	cmd.Flags().String("manifest-dir", "", "Local manifest checkout to use instead of cloning")
	cmd.Flags().Bool("validate-xml", false, "Skip manifests that are not well-formed <manifest> documents")
	cmd.Flags().String("repo-root", "", "Root directory the target path is resolved against")
	cmd.Flags().String("target", "", "File declaring the supported version list")
	cmd.Flags().String("marker", "", "Name of the list variable")
	cmd.Flags().Bool("commit", false, "Commit the staged change")
	cmd.Flags().Bool("no-stage", false, "Write the file without staging it")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report missing versions without writing")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Report format (text|json|yaml)")

	return cmd
}

// bindCheckFlags lets explicitly set flags override file and env values.
func bindCheckFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range checkFlagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	if flags.Changed("no-stage") {
		if noStage, _ := flags.GetBool("no-stage"); noStage {
			v.Set("git.stage", false)
		}
	}
	return nil
}

type checkReport struct {
	Target   string   `json:"target" yaml:"target"`
	Source   string   `json:"source" yaml:"source"`
	Declared []string `json:"declared" yaml:"declared"`
	Floor    string   `json:"floor" yaml:"floor"`
	Manifest []string `json:"manifest" yaml:"manifest"`
	Missing  []string `json:"missing" yaml:"missing"`
	Changed  bool     `json:"changed" yaml:"changed"`
	DryRun   bool     `json:"dry_run" yaml:"dry_run"`
	Written  bool     `json:"written" yaml:"written"`
	Staged   bool     `json:"staged" yaml:"staged"`
	Commit   string   `json:"commit,omitempty" yaml:"commit,omitempty"`
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	format := strings.ToLower(opts.format)
	switch format {
	case "text", "json", "yaml":
	default:
		return exitcode.Wrap(exitcode.ConfigError, fmt.Errorf("unsupported format %q (want text, json or yaml)", opts.format))
	}

	v := config.NewViper()
	if err := bindCheckFlags(v, cmd.Flags()); err != nil {
		return exitcode.Wrap(exitcode.ConfigError, err)
	}
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return exitcode.Wrap(exitcode.ConfigError, err)
	}

	src, err := manifestSource(cfg)
	if err != nil {
		return exitcode.Wrap(exitcode.ConfigError, err)
	}

	// Resolve the target before cloning so a wrong path fails fast.
	tgt, err := target.Locate(cfg.Target.RepoRoot, cfg.Target.File)
	if err != nil {
		return err
	}
	text, err := tgt.Read()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Manifest.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Manifest.Timeout)
		defer cancel()
	}

	candidates, err := manifest.Candidates(ctx, src, manifest.ScanOptions{
		Subdir:      cfg.Manifest.Subdir,
		Pattern:     cfg.Manifest.Pattern,
		ValidateXML: cfg.Manifest.ValidateXML,
		Concurrency: cfg.Manifest.Concurrency,
		Warn: func(name string, err error) {
			logger.Warn("Skipping manifest", logger.String("file", name), logger.Err(err))
		},
	})
	if err != nil {
		return err
	}
	logger.Debug("Listed manifests", logger.String("source", src.String()), logger.Int("count", len(candidates)))

	res, err := reconcile.Reconcile(text, cfg.Target.Marker, candidates, func(version string, err error) {
		logger.Warn("Ignoring invalid declared version", logger.String("version", version), logger.Err(err))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", tgt.Name, err)
	}

	report := checkReport{
		Target:   tgt.Name,
		Source:   src.String(),
		Declared: res.Declared,
		Floor:    res.Floor,
		Manifest: res.Manifest,
		Missing:  res.Missing,
		Changed:  res.Changed,
		DryRun:   opts.dryRun,
	}

	if res.Changed && !opts.dryRun {
		if err := apply(cfg, tgt, res, &report); err != nil {
			return err
		}
	}

	switch {
	case !res.Changed:
		logger.Info("All released versions are supported", logger.String("floor", res.Floor))
	case opts.dryRun:
		logger.Info("Dry run: list not updated", logger.Strings("missing", res.Missing))
	default:
		logger.Info("Supported version list updated", logger.String("file", tgt.Name), logger.Strings("added", res.Missing))
	}

	return writeReport(cmd.OutOrStdout(), format, &report)
}

func manifestSource(cfg *config.Config) (manifest.Source, error) {
	if cfg.Manifest.Dir != "" {
		return &manifest.DirSource{Dir: cfg.Manifest.Dir}, nil
	}
	cacheDir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	return &manifest.GitSource{
		Repo:     cfg.Manifest.Repo,
		Ref:      cfg.Manifest.Ref,
		Depth:    cfg.Manifest.Depth,
		CacheDir: cacheDir,
	}, nil
}

// apply writes the updated list and, when enabled, stages and commits it.
// The repository is opened before writing so a missing repository leaves
// the file untouched.
func apply(cfg *config.Config, tgt *target.File, res *reconcile.Result, report *checkReport) error {
	var repo *gitctx.Repo
	if cfg.Git.Stage {
		var err error
		repo, err = gitctx.Open(filepath.Dir(tgt.Path))
		if err != nil {
			return err
		}
		logger.Debug("Using git repository", logger.String("root", repo.Root()))
		if dirty, err := repo.Modified(tgt.Path); err == nil && dirty {
			logger.Warn("Target has uncommitted changes; they will be staged too", logger.String("file", tgt.Name))
		}
	}

	if err := tgt.Write(res.Updated); err != nil {
		return err
	}
	report.Written = true

	if repo == nil {
		return nil
	}
	rel, err := repo.Stage(tgt.Path)
	if err != nil {
		return err
	}
	report.Staged = true
	logger.Info("Staged", logger.String("path", rel))

	if !cfg.Git.Commit {
		return nil
	}
	message, err := gitctx.CommitMessage(cfg.Git.CommitMessage, cfg.Target.Marker, res.Missing)
	if err != nil {
		return exitcode.Wrap(exitcode.ConfigError, err)
	}
	hash, err := repo.Commit(message, gitctx.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail})
	if err != nil {
		return err
	}
	report.Commit = hash
	logger.Info("Committed", logger.String("commit", hash), logger.String("message", message))
	return nil
}

func writeReport(out io.Writer, format string, report *checkReport) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to format YAML: %w", err)
		}
		return enc.Close()
	}

	fmt.Fprintf(out, "Target:    %s\n", report.Target)
	fmt.Fprintf(out, "Source:    %s\n", report.Source)
	fmt.Fprintf(out, "Declared:  %s\n", joinOrNone(report.Declared))
	fmt.Fprintf(out, "Floor:     %s\n", report.Floor)
	fmt.Fprintf(out, "Released:  %s\n", joinOrNone(report.Manifest))
	fmt.Fprintf(out, "Missing:   %s\n", joinOrNone(report.Missing))
	switch {
	case report.Commit != "":
		fmt.Fprintf(out, "Committed: %s\n", report.Commit)
	case report.Staged:
		fmt.Fprintln(out, "Staged:    yes")
	case report.Written:
		fmt.Fprintln(out, "Written:   yes")
	}
	return nil
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
