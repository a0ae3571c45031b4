package config

// ServerConfig represents the entire papan-server configuration file.
type ServerConfig struct {
	Version   int              `yaml:"version"`
	Server    ServerSection    `yaml:"server"`
	Storage   StorageSection   `yaml:"storage"`
	Logging   LoggingSection   `yaml:"logging"`
	Discovery DiscoverySection `yaml:"discovery"`
	Limits    LimitsSection    `yaml:"limits"`
}

// ServerSection configures the HTTP listener.
type ServerSection struct {
	Host string `yaml:"host"` // Empty = listen on all interfaces
	Port int    `yaml:"port"`
}

// StorageSection selects where the board state is persisted.
type StorageSection struct {
	Driver     string `yaml:"driver"`                // file, sqlite or memory
	DataDir    string `yaml:"data_dir,omitempty"`    // Empty = <config dir>/data
	SQLiteFile string `yaml:"sqlite_file,omitempty"` // Relative to DataDir unless absolute
	Watch      bool   `yaml:"watch"`                 // Reload when files are edited externally (file driver only)
}

// LoggingSection configures zap output.
type LoggingSection struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}

// DiscoverySection configures the mDNS advertisement.
type DiscoverySection struct {
	Enabled  bool   `yaml:"enabled"`
	Instance string `yaml:"instance,omitempty"` // Empty = hostname
}

// LimitsSection bounds what clients may send.
type LimitsSection struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"` // Mutating API routes, per client IP
	Burst             int     `yaml:"burst"`
	MaxUploadBytes    int64   `yaml:"max_upload_bytes"`
}

// Storage drivers
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Default returns a configuration with every section populated.
func Default() *ServerConfig {
	return &ServerConfig{
		Version: 1,
		Server: ServerSection{
			Port: 8080,
		},
		Storage: StorageSection{
			Driver:     DriverFile,
			SQLiteFile: "papan.db",
			Watch:      true,
		},
		Logging: LoggingSection{
			Level: "info",
		},
		Discovery: DiscoverySection{
			Enabled: true,
		},
		Limits: LimitsSection{
			RequestsPerSecond: 5,
			Burst:             20,
			MaxUploadBytes:    4 * 1024 * 1024,
		},
	}
}

// fillDefaults populates zero-valued fields left out of a hand-written file.
func (c *ServerConfig) fillDefaults() {
	d := Default()
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = d.Storage.Driver
	}
	if c.Storage.SQLiteFile == "" {
		c.Storage.SQLiteFile = d.Storage.SQLiteFile
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Limits.RequestsPerSecond <= 0 {
		c.Limits.RequestsPerSecond = d.Limits.RequestsPerSecond
	}
	if c.Limits.Burst <= 0 {
		c.Limits.Burst = d.Limits.Burst
	}
	if c.Limits.MaxUploadBytes <= 0 {
		c.Limits.MaxUploadBytes = d.Limits.MaxUploadBytes
	}
}
