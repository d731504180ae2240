package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Provider configuration
	ProviderURL string
	ConfigFile  string

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
