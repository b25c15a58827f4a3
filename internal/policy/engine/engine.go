// Package engine implements the decision pipeline (spec.md §4.F):
// combining target classification and per-argument classification into
// an (allowed, forbidden) split for one exec call.
package engine

import (
	"log/slog"

	"github.com/firejail/execfilter/internal/policy/assoc"
	"github.com/firejail/execfilter/internal/policy/classify"
	"github.com/firejail/execfilter/internal/policy/listcache"
	"github.com/firejail/execfilter/internal/policy/listpolicy"
	"github.com/firejail/execfilter/internal/policy"
)

// Call is one exec attempt to classify: Target is the resolved,
// canonical path of the binary; Argv is the full argument vector
// (conventionally argv[0] mirrors the caller-supplied name, not Target).
type Call struct {
	Target string
	Argv   []string
}

// Decision is the (allowed, forbidden) split produced by Decide. At
// most one of Allowed and Forbidden is non-zero-valued; both carry the
// same Call shape as the input, since this engine never splits a single
// call's arguments between the two halves (spec.md §4.F's conservative
// widening rule).
type Decision struct {
	Allowed   *Call
	Forbidden *Call
}

// Paths names the three fixed policy-file locations an Engine reads
// through its cache. Defaulted to policy.HelperBinsPath etc. by
// NewEngine when left zero.
type Paths struct {
	HelperBins   string
	ManagedBins  string
	ManagedFiles string
}

func (p Paths) withDefaults() Paths {
	if p.HelperBins == "" {
		p.HelperBins = policy.HelperBinsPath
	}
	if p.ManagedBins == "" {
		p.ManagedBins = policy.ManagedBinsPath
	}
	if p.ManagedFiles == "" {
		p.ManagedFiles = policy.ManagedFilesPath
	}
	return p
}

// Engine ties together the policy-file cache and the argument classifier
// to decide one exec call at a time. It also holds an association
// registry (see WithAssociations); Decide does not consult it.
type Engine struct {
	paths  Paths
	cache  *listcache.Cache
	assoc  *assoc.Registry
	logger *slog.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithCache overrides the default freshly-allocated policy-file cache,
// letting callers share one cache across engines or pre-warm it.
func WithCache(c *listcache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithAssociations overrides the default built-in association registry.
func WithAssociations(r *assoc.Registry) Option {
	return func(e *Engine) { e.assoc = r }
}

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine constructs an Engine reading policy lists from paths
// (zero-valued fields fall back to the fixed spec.md §6 locations).
func NewEngine(paths Paths, opts ...Option) *Engine {
	e := &Engine{
		paths:  paths.withDefaults(),
		cache:  listcache.New(),
		assoc:  assoc.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide runs the three-step pipeline of spec.md §4.F against one exec
// call. argv[0] is conventionally the caller-supplied program name;
// call.Target is the already-resolved path to classify.
func (e *Engine) Decide(call Call) Decision {
	helperBins, _ := e.cache.Get(e.paths.HelperBins)
	managedBins, _ := e.cache.Get(e.paths.ManagedBins)

	targetTag := e.classifyTarget(call.Target, helperBins, managedBins)
	if !targetTag.Clear(policy.DefaultPolicy) {
		e.logger.Debug("target forbidden", "target", call.Target, "tag", targetTag)
		return Decision{Forbidden: &call}
	}

	managedFiles, _ := e.cache.Get(e.paths.ManagedFiles)
	for i, arg := range call.Argv {
		if i == 0 {
			continue
		}
		tag := classify.Argument(arg, managedFiles)
		if !tag.Clear(policy.Helpers | policy.Unspecified) {
			e.logger.Debug("argument forbidden, delegating whole call", "target", call.Target, "argument", arg, "tag", tag)
			return Decision{Forbidden: &call}
		}
	}

	return Decision{Allowed: &call}
}

// classifyTarget applies spec.md §4.F step 1. A helpers-list hit tags
// HELPERS, a managed-bins-list hit tags SANDBOX_MANAGED, anything else
// tags UNSPECIFIED. Only HELPERS and UNSPECIFIED lie within
// policy.DefaultPolicy, so a managed-bins hit is forbidden under the
// fixed default policy (matching spec.md §8 scenario S3: a managed-bins
// target always produces a sentinel notification, never a clear pass).
func (e *Engine) classifyTarget(target string, helperBins, managedBins []string) policy.Tag {
	if listpolicy.Contains(helperBins, target) {
		return policy.Helpers
	}
	if listpolicy.Contains(managedBins, target) {
		return policy.SandboxManaged
	}
	return policy.Unspecified
}
