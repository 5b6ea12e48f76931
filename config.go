package http2

// Role distinguishes which side of a connection a Codec is playing,
// since the preface handshake and stream-id parity rules differ
// between them (spec.md section 6).
type Role uint8

const (
	RoleClient Role = iota
	RoleServer
)

// Config holds a Codec's tunable parameters. Construct one via
// functional Options passed to NewCodec, in the style of
// dgrr-http2/configure.go's ClientOpts, generalized into an
// options-function API since Codec has no fasthttp.Client/Server to
// piggyback configuration fields onto.
type Config struct {
	role Role

	settings Settings

	neverIndexNames   map[string]struct{}
	withoutIndexNames map[string]struct{}

	logger Logger
	metrics *Metrics
}

// Option configures a Codec at construction time.
type Option func(*Config)

// WithRole sets which side of the connection this Codec represents.
func WithRole(r Role) Option {
	return func(c *Config) { c.role = r }
}

// WithSettings overrides the initial local SETTINGS sent on handshake.
func WithSettings(s Settings) Option {
	return func(c *Config) { c.settings = s }
}

// WithNeverIndexNames marks header names that must always be encoded as
// never-indexed literals on this connection (e.g. "authorization"),
// regardless of per-message flags (spec.md section 3).
func WithNeverIndexNames(names ...string) Option {
	return func(c *Config) {
		if c.neverIndexNames == nil {
			c.neverIndexNames = make(map[string]struct{})
		}
		for _, n := range names {
			c.neverIndexNames[n] = struct{}{}
		}
	}
}

// WithoutIndexNames marks header names that must always be encoded
// without indexing (but Huffman/plain, not never-indexed) on this
// connection.
func WithoutIndexNames(names ...string) Option {
	return func(c *Config) {
		if c.withoutIndexNames == nil {
			c.withoutIndexNames = make(map[string]struct{})
		}
		for _, n := range names {
			c.withoutIndexNames[n] = struct{}{}
		}
	}
}

// WithLogger overrides the zap-backed Logger used for connection
// diagnostics.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.logger = l }
}

// WithMetrics attaches a Metrics recorder (prometheus counters/gauges)
// to the Codec.
func WithMetrics(m *Metrics) Option {
	return func(c *Config) { c.metrics = m }
}

func defaultConfig() Config {
	return Config{
		role:     RoleClient,
		settings: DefaultSettings(),
		logger:   NopLogger(),
	}
}
