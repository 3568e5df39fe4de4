package cache

import "sort"

// Keyer builds cache keys. Plan keys depend on the source document and the
// options that change segmentation; artifact keys depend on the plan and the
// output format.
type Keyer interface {
	PlanKey(docHash string, opts PlanKeyOpts) string
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// PlanKeyOpts are the options that affect a plan.
type PlanKeyOpts struct {
	Anchor   string   `json:"anchor"`
	Breakout []string `json:"breakout"`
}

// ArtifactKeyOpts are the options that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Standalone bool   `json:"standalone,omitempty"`
	Title      string `json:"title,omitempty"`
	Detailed   bool   `json:"detailed,omitempty"`
}

// DefaultKeyer hashes key parts with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlanKey returns "plan:<hash>". Breakout order does not matter.
func (DefaultKeyer) PlanKey(docHash string, opts PlanKeyOpts) string {
	breakout := append([]string(nil), opts.Breakout...)
	sort.Strings(breakout)
	return hashKey("plan", docHash, opts.Anchor, breakout)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}

// ScopedKeyer prefixes every key of an inner keyer, which keeps several
// deployments apart when they share one Redis or Mongo instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; a nil inner means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PlanKey(docHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(docHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(planHash, opts)
}
