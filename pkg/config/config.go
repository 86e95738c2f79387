package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB              string // connection string for the database
	WaitForServices string // duration to wait for other services to be ready
	LogLevel        string // sets the log level (zap log level values)
	SQLLogLevel     string // sets the log level for sql subsystem
	LogFormat       string // text vs json
	LogFilter       string // zapfilter rules, e.g. "info+:* debug+:ibt"
	Output          string // output format of result commands (text, json, yaml)
	SectorCount     int    // number of equal distance sectors per lap
	CacheDuration   string // how long decoded files are kept, 0 disables the cache
	NatsURL         string // URL of the NATS server, empty disables publishing
	NatsSubject     string // subject prefix for parse summaries
)
