package multidev

// ABOUTME: Assembles retention controllers and executes confirmed best-effort
// ABOUTME: batch deletion of eligible build environments.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/drodnitchi/terminus-build-tools-plugin/internal/pantheon"
	"github.com/drodnitchi/terminus-build-tools-plugin/internal/provider"
	bitbucketprov "github.com/drodnitchi/terminus-build-tools-plugin/internal/provider/bitbucket"
	githubprov "github.com/drodnitchi/terminus-build-tools-plugin/internal/provider/github"
	gitlabprov "github.com/drodnitchi/terminus-build-tools-plugin/internal/provider/gitlab"
)

// Platform is the hosting API surface the reaper consumes.
type Platform interface {
	// ListEnvironments returns all environments on a site, oldest first.
	ListEnvironments(ctx context.Context, site string) ([]pantheon.Environment, error)

	// BuildMetadata reads one environment's build metadata. Environments
	// with none return pantheon.ErrNoMetadata.
	BuildMetadata(ctx context.Context, site, env string) (*pantheon.BuildMetadata, error)

	// DeleteEnvironment removes one environment, optionally with its branch.
	DeleteEnvironment(ctx context.Context, site, env string, deleteBranch bool) error
}

// Outcome classifies how a reclamation run ended.
type Outcome int

const (
	// OutcomeNoOp means no environment was eligible; nothing happened.
	OutcomeNoOp Outcome = iota
	// OutcomeDryRun means the plan was reported without mutation.
	OutcomeDryRun
	// OutcomeDeclined means the user rejected the confirmation prompt.
	OutcomeDeclined
	// OutcomeExecuted means deletions were attempted.
	OutcomeExecuted
)

// String returns the user-facing name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoOp:
		return "no-op"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeDeclined:
		return "declined"
	case OutcomeExecuted:
		return "executed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// DeleteFailure pairs a failed environment with its error.
type DeleteFailure struct {
	Env string
	Err error
}

// Report is the result of one reclamation run.
type Report struct {
	Outcome  Outcome
	Retained []string
	Eligible []string
	Deleted  []string
	Failed   []DeleteFailure
	Warnings []error
}

// TransientDeleteOptions parameterize DeleteTransientBuilds. The zero value
// keeps no environments, executes for real, and asks before deleting.
type TransientDeleteOptions struct {
	Site      string
	Keep      int
	DryRun    bool
	AssumeYes bool
}

// PullRequestDeleteOptions parameterize DeletePullRequestBuilds. The zero
// value executes for real and asks before deleting.
type PullRequestDeleteOptions struct {
	Site      string
	DryRun    bool
	AssumeYes bool
}

// PatternDeleteOptions carry the arguments of the retired pattern delete.
type PatternDeleteOptions struct {
	Site    string
	Pattern string
}

// Reaper deletes build environments that a retention rule marked eligible.
// Every run re-lists and re-reads metadata from scratch; nothing is cached
// between runs.
type Reaper struct {
	platform Platform
	logger   *slog.Logger
	input    io.Reader
	output   io.Writer

	// resolve and localRemote are fields so tests can override them.
	resolve     func(remote string) (provider.Client, error)
	localRemote func(ctx context.Context, dir string) (string, error)
}

// NewReaper creates a Reaper with the given platform client, logger, and
// input/output for confirmation prompts and progress messages.
func NewReaper(platform Platform, logger *slog.Logger, input io.Reader, output io.Writer) *Reaper {
	return &Reaper{
		platform:    platform,
		logger:      logger,
		input:       input,
		output:      output,
		resolve:     resolveProvider,
		localRemote: LocalRemoteURL,
	}
}

// DeleteTransientBuilds applies the oldest-retention rule to ci- named
// environments and deletes the eligible ones.
func (r *Reaper) DeleteTransientBuilds(ctx context.Context, opts TransientDeleteOptions) (*Report, error) {
	if opts.Keep < 0 {
		return nil, NewUsageError("keep count must be zero or greater, got %d", opts.Keep)
	}

	ctl, err := r.assemble(ctx, opts.Site, CIPattern())
	if err != nil {
		return nil, err
	}
	if err := ctl.SelectOldest(opts.Keep); err != nil {
		return nil, err
	}
	return r.execute(ctx, ctl, opts.DryRun, opts.AssumeYes)
}

// DeletePullRequestBuilds applies the closed pull request rule to pr- named
// environments and deletes the eligible ones.
func (r *Reaper) DeletePullRequestBuilds(ctx context.Context, opts PullRequestDeleteOptions) (*Report, error) {
	ctl, err := r.assemble(ctx, opts.Site, PRPattern())
	if err != nil {
		return nil, err
	}
	if err := ctl.SelectClosedPullRequests(ctx); err != nil {
		return nil, err
	}
	return r.execute(ctx, ctl, opts.DryRun, opts.AssumeYes)
}

// DeleteByPattern is the retired arbitrary-pattern deletion entry point. It
// always fails with a directive pointing at the safe entry points, without
// listing or deleting anything.
func (r *Reaper) DeleteByPattern(ctx context.Context, opts PatternDeleteOptions) error {
	return ErrPatternDeleteDisabled
}

// assemble lists candidates, proves repository identity, and validates
// provider credentials. Any failure here happens before mutation.
func (r *Reaper) assemble(ctx context.Context, site string, pattern Pattern) (*Controller, error) {
	envs, err := r.platform.ListEnvironments(ctx, site)
	if err != nil {
		return nil, fmt.Errorf("list environments on %s: %w", site, err)
	}

	var candidates []string
	for _, env := range envs {
		if pattern.Match(env.ID) {
			candidates = append(candidates, env.ID)
		}
	}
	if len(candidates) == 0 {
		return nil, &NoCandidatesError{Site: site, Pattern: pattern.String()}
	}
	r.logger.Debug("found candidate environments",
		"site", site, "pattern", pattern.String(), "count", len(candidates))

	// The first recorded remote URL is authoritative for the whole set.
	var remote string
	for _, id := range candidates {
		meta, err := r.platform.BuildMetadata(ctx, site, id)
		if errors.Is(err, pantheon.ErrNoMetadata) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read build metadata for %s.%s: %w", site, id, err)
		}
		remote = meta.URL
		break
	}
	if remote == "" {
		return nil, &NoBuildMetadataError{Site: site}
	}

	local, err := r.localRemote(ctx, ".")
	if err != nil {
		return nil, NewUsageError("cannot determine the local repository remote (run inside the site's git checkout): %v", err)
	}

	localProject := NormalizeProject(local)
	recordedProject := NormalizeProject(remote)
	if localProject != recordedProject {
		return nil, &RepositoryMismatchError{
			Site:     site,
			Local:    string(localProject),
			Recorded: string(recordedProject),
		}
	}
	r.logger.Debug("repository identity verified", "site", site, "project", recordedProject)

	prov, err := r.resolve(remote)
	if err != nil {
		return nil, fmt.Errorf("resolve git provider for %s: %w", remote, err)
	}
	if err := prov.ValidateCredentials(ctx); err != nil {
		return nil, &AuthError{Provider: prov.Name(), Err: err}
	}

	return NewController(prov, candidates, pattern, recordedProject, site), nil
}

// execute runs the deletion flow over an already classified controller.
func (r *Reaper) execute(ctx context.Context, ctl *Controller, dryRun, assumeYes bool) (*Report, error) {
	eligible, err := ctl.Eligible()
	if err != nil {
		return nil, err
	}
	retained, err := ctl.Retained()
	if err != nil {
		return nil, err
	}

	report := &Report{
		Retained: retained,
		Eligible: eligible,
		Warnings: ctl.Warnings(),
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(r.output, "Warning: %v\n", w) //nolint:errcheck // best-effort output
	}

	site := ctl.SiteID()
	if len(eligible) == 0 {
		report.Outcome = OutcomeNoOp
		fmt.Fprintf(r.output, "No environments to delete on %s; keeping %s\n", site, displayList(retained)) //nolint:errcheck // best-effort output
		return report, nil
	}

	fmt.Fprintf(r.output, "Will delete %d environment(s) on %s: %s\n", len(eligible), site, strings.Join(eligible, ", ")) //nolint:errcheck // best-effort output
	fmt.Fprintf(r.output, "Will keep: %s\n", displayList(retained))                                                       //nolint:errcheck // best-effort output

	if dryRun {
		report.Outcome = OutcomeDryRun
		fmt.Fprintln(r.output, "Dry run, nothing deleted") //nolint:errcheck // best-effort output
		return report, nil
	}

	if !assumeYes {
		prompt := fmt.Sprintf("Delete %d environment(s) and their branches? [y/N] ", len(eligible))
		ok, err := Confirm(ctx, prompt, r.input, r.output)
		if err != nil {
			return nil, err
		}
		if !ok {
			report.Outcome = OutcomeDeclined
			fmt.Fprintln(r.output, "Aborted, nothing deleted") //nolint:errcheck // best-effort output
			return report, nil
		}
	}

	report.Outcome = OutcomeExecuted
	for _, env := range eligible {
		r.logger.Debug("deleting environment", "site", site, "env", env)
		if err := r.platform.DeleteEnvironment(ctx, site, env, true); err != nil {
			delErr := &DeletionError{Env: env, Err: err}
			fmt.Fprintf(r.output, "Warning: %v\n", delErr) //nolint:errcheck // best-effort output
			report.Failed = append(report.Failed, DeleteFailure{Env: env, Err: delErr})
		} else {
			fmt.Fprintf(r.output, "Deleted %s\n", env) //nolint:errcheck // best-effort output
			report.Deleted = append(report.Deleted, env)
		}
	}

	if len(report.Failed) > 0 {
		return report, fmt.Errorf("failed to delete %d environment(s)", len(report.Failed))
	}
	return report, nil
}

// resolveProvider picks the provider implementation for the host recorded in
// build metadata. Credentials come from the environment: GITHUB_TOKEN,
// GITLAB_TOKEN, or BITBUCKET_USER and BITBUCKET_PASS.
func resolveProvider(remote string) (provider.Client, error) {
	host := provider.HostOf(remote)
	project := string(NormalizeProject(remote))
	switch {
	case strings.Contains(host, "github"):
		return githubprov.New(os.Getenv("GITHUB_TOKEN"), project)
	case strings.Contains(host, "gitlab"):
		return gitlabprov.New(os.Getenv("GITLAB_TOKEN"), host, project)
	case strings.Contains(host, "bitbucket"):
		return bitbucketprov.New(os.Getenv("BITBUCKET_USER"), os.Getenv("BITBUCKET_PASS"), project)
	default:
		return nil, fmt.Errorf("unknown git host %q (supported: github, gitlab, bitbucket)", host)
	}
}

// displayList renders ids for humans. The word "none" stands in for an
// empty list so output never shows a dangling colon.
func displayList(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}
