package data

// Flags represents CLI command-line flags.
type Flags struct {
	LogLevel    *string // Log level (e.g., debug, info, warn, error)
	LogFile     *string // Path to log file
	URL         *string // API collection url
	Profile     *string // Endpoint profile name
	Limit       *int    // Initial page size
	SortBy      *string // Initial sort field
	Order       *string // Initial sort order
	ReadOnly    *bool   // Disable mutations
	MetricsAddr *string // Prometheus listen address
}

// NewFlags creates a new Flags instance with all pointer fields initialized.
func NewFlags() *Flags {
	return &Flags{
		LogLevel:    new(string),
		LogFile:     new(string),
		URL:         new(string),
		Profile:     new(string),
		Limit:       new(int),
		SortBy:      new(string),
		Order:       new(string),
		ReadOnly:    new(bool),
		MetricsAddr: new(string),
	}
}

// API represents the remote endpoint settings.
type API struct {
	URL      string   `yaml:"url"`
	Profile  string   `yaml:"profile"`
	Timeout  Duration `yaml:"timeout"`
	ReadOnly bool     `yaml:"readOnly"`
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse    bool `yaml:"enableMouse"`
	RowHeight      int  `yaml:"rowHeight"`
	FallbackHeight int  `yaml:"fallbackHeight"`
	BufferRows     int  `yaml:"bufferRows"`
	Columns        int  `yaml:"columns"`
}

// Loki configures log shipping.
type Loki struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Labels  map[string]string `yaml:"labels"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
	Loki   Loki   `yaml:"loki"`
}

// Metrics configures the prometheus endpoint.
type Metrics struct {
	Addr string `yaml:"addr"`
}

// Defaults seed the list state when no preferences are stored.
type Defaults struct {
	Limit  int    `yaml:"limit"`
	SortBy string `yaml:"sortBy"`
	Order  string `yaml:"order"`
}
