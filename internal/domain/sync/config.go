package sync

// SourceOfTruth selects which store the user ultimately sees. It is an
// explicit configuration value injected into the orchestrator — the single
// decision point, never an implicit branch scattered across call sites.
type SourceOfTruth string

const (
	// SourceRemote: the remote-derived reconciled set is the visible truth.
	SourceRemote SourceOfTruth = "remote"
	// SourceLocal: the local cache is the visible truth and full syncs skip
	// the remote fetch entirely; pushes still mirror to the remote.
	SourceLocal SourceOfTruth = "local"
)

// Config bounds one sync cycle.
type Config struct {
	SourceOfTruth SourceOfTruth
	// PageSize per query call, capped by the store at 100.
	PageSize int
	// MaxPages is the hard pagination ceiling protecting against unbounded
	// loops from a misbehaving remote.
	MaxPages int
}

const (
	defaultPageSize = 100
	defaultMaxPages = 1000
)

func (c Config) withDefaults() Config {
	if c.SourceOfTruth == "" {
		c.SourceOfTruth = SourceRemote
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	if c.MaxPages <= 0 {
		c.MaxPages = defaultMaxPages
	}
	return c
}
