package cfg

type Cfg struct {
	// HTTP server configuration
	Port         string
	APIAccessKey string

	// Cache store configuration
	StoreBackend string
	SQLitePath   string
	RedisAddr    string

	// Content source configuration (server-side scheduled rebuilds)
	SourceMode      string
	ContentDir      string
	ManifestPath    string
	BucketURL       string
	FeedURL         string
	RebuildInterval int

	// Application metadata
	FetchTimeout int
	UserAgent    string
	Debug        bool
	Version      string
}
