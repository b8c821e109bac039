package cache

// Keyer builds cache keys for the pipeline stages. Implementations must be
// deterministic: the same inputs always yield the same key.
type Keyer interface {
	// DocKey is the key for a decoded score document. The archive hash
	// alone determines it: decoding is independent of part and voice
	// selection, so all requests against one upload share the entry.
	DocKey(archiveHash string) string

	// TablatureKey is the key for an assembled tablature.
	TablatureKey(docHash string, opts TablatureKeyOpts) string

	// ArtifactKey is the key for one rendered output format.
	ArtifactKey(tabHash string, opts ArtifactKeyOpts) string
}

// TablatureKeyOpts is everything besides the document that shapes an
// assembled tablature.
type TablatureKeyOpts struct {
	Part            int    `json:"part"`
	Voice           int    `json:"voice"`
	Scale           string `json:"scale"`
	Notes           int    `json:"notes"`
	Mode            string `json:"mode"`
	Offset          int    `json:"offset"`
	PlayOnlyInScale bool   `json:"play_only_inscale"`
}

// ArtifactKeyOpts identifies one output format of a tablature.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() DefaultKeyer {
	return DefaultKeyer{}
}

// DocKey prefixes the archive hash; it is already content-addressed.
func (DefaultKeyer) DocKey(archiveHash string) string {
	return "score:" + archiveHash
}

// TablatureKey hashes the document hash together with the options.
func (DefaultKeyer) TablatureKey(docHash string, opts TablatureKeyOpts) string {
	return hashKey("tab", docHash, opts)
}

// ArtifactKey hashes the tablature hash together with the format options.
func (DefaultKeyer) ArtifactKey(tabHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", tabHash, opts)
}

var _ Keyer = DefaultKeyer{}
