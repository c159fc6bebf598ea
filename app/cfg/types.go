package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SourcesFile        string
	Port               string
	WorkerCount        int
	ScrapeInterval     int
	CleanupInterval    int
	RetentionDays      int
	MaxFirstRunEntries int

	// Enrichment configuration
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	EnrichTimeout int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
