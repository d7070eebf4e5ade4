package assets

import "strings"

// Resolver maps an asset name to the URL it is served at.
type Resolver interface {
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver returns a Resolver serving the manifest's fingerprinted names
// under prefix. A nil manifest resolves every name to itself.
func NewResolver(m *Manifest, prefix string) Resolver {
	if m == nil {
		return NewPassthroughResolver(prefix)
	}
	return &manifestResolver{manifest: m, prefix: normalizePrefix(prefix)}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(strings.TrimPrefix(source, "/"))
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver returns a Resolver that only adds prefix, for
// development where files are not fingerprinted.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: normalizePrefix(prefix)}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + strings.TrimPrefix(source, "/")
}

// normalizePrefix makes a non-empty prefix end in "/".
func normalizePrefix(prefix string) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
