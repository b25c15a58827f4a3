// Package assoc implements the binary-association registry (spec.md
// §4.D): groups of cooperating binaries sharing one main identity, so a
// helper invoked by an associated app can be treated as the app itself.
package assoc

import (
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// Group is an association group: Members is the full ordered membership
// list (main key included), MainKey is the designated representative.
// Patterns are compiled glob patterns (from YAML-configured groups) that
// additionally qualify a path as a member without listing it literally.
type Group struct {
	MainKey  string
	Members  []string
	Patterns []glob.Glob
}

// Registry answers membership queries over a set of association groups:
// the built-in table (seeded by New) plus whatever extra groups callers
// register.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]*Group // keyed by main key
	index  map[string]string // member -> main key
}

// New returns a registry seeded with the built-in firefox, vlc, and
// thunar groups (original_source/src/common.c's exechelp_get_binary_associations).
func New() *Registry {
	r := &Registry{
		groups: make(map[string]*Group),
		index:  make(map[string]string),
	}
	for _, g := range builtinGroups() {
		r.addGroupLocked(g)
	}
	return r
}

// Empty returns a registry with no groups, for callers that want to
// build their association table entirely from configuration.
func Empty() *Registry {
	return &Registry{groups: make(map[string]*Group), index: make(map[string]string)}
}

// AddGroup registers an association group, overwriting any existing
// group with the same main key. The main key is added to Members if not
// already present.
func (r *Registry) AddGroup(g Group) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addGroupLocked(g)
}

func (r *Registry) addGroupLocked(g Group) {
	members := g.Members
	hasMain := false
	for _, m := range members {
		if m == g.MainKey {
			hasMain = true
			break
		}
	}
	if !hasMain {
		members = append(append([]string{}, members...), g.MainKey)
	}
	stored := &Group{MainKey: g.MainKey, Members: members, Patterns: g.Patterns}
	r.groups[g.MainKey] = stored
	for _, m := range members {
		r.index[m] = g.MainKey
	}
}

// mainKeyFor resolves path to its group's main key, consulting the
// literal membership index first and then every group's glob patterns.
// Callers hold at least r.mu.RLock().
func (r *Registry) mainKeyFor(path string) (string, bool) {
	if mainKey, ok := r.index[path]; ok {
		return mainKey, true
	}
	for mainKey, group := range r.groups {
		for _, p := range group.Patterns {
			if p.Match(path) {
				return mainKey, true
			}
		}
	}
	return "", false
}

func (r *Registry) isMember(group *Group, path string) bool {
	for _, m := range group.Members {
		if m == path {
			return true
		}
	}
	for _, p := range group.Patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}

// IsAssociated reports whether callee is a member of caller's
// association group. An unknown caller is never associated with
// anything (spec.md §4.D: "future: consult the packaging system").
func (r *Registry) IsAssociated(caller, callee string) bool {
	if caller == "" || callee == "" {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	mainKey, ok := r.mainKeyFor(caller)
	if !ok {
		return false
	}
	group := r.groups[mainKey]
	if group == nil {
		return false
	}
	return r.isMember(group, callee)
}

// MembersOf returns the ordered member list of the group identified by
// mainKey, or nil if no such group exists.
func (r *Registry) MembersOf(mainKey string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	group := r.groups[mainKey]
	if group == nil {
		return nil
	}
	out := make([]string, len(group.Members))
	copy(out, group.Members)
	return out
}

// DescribeFor returns a colon-separated concatenation of the members of
// binary's group, or the empty string if binary belongs to no group
// (original_source's exechelp_extract_associations_for_binary).
func (r *Registry) DescribeFor(binary string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mainKey, ok := r.mainKeyFor(binary)
	if !ok {
		return ""
	}
	group := r.groups[mainKey]
	if group == nil {
		return ""
	}
	return strings.Join(group.Members, ":")
}

// MainKeys returns every registered main key, sorted for deterministic
// output (used by cmd/execfilterctl's assoc listing).
func (r *Registry) MainKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.groups))
	for k := range r.groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func builtinGroups() []Group {
	return []Group{
		{
			MainKey: "/usr/bin/firefox",
			Members: []string{
				"/usr/bin/firefox",
				"/usr/lib/firefox/firefox",
				"/usr/lib/firefox/plugin-container",
				"/usr/lib/firefox/webapprt-stub",
			},
		},
		{
			MainKey: "/usr/bin/vlc",
			Members: []string{
				"/usr/bin/vlc",
				"/usr/bin/cvlc",
				"/usr/bin/vlc-wrapper",
				"/usr/bin/vlc-cache-gen",
			},
		},
		{
			MainKey: "/usr/bin/thunar",
			Members: []string{
				"/usr/bin/thunar",
				"/usr/bin/thunar-settings",
				"/usr/bin/thunar-volman",
				"/usr/bin/thunar-volman-settings",
			},
		},
	}
}
