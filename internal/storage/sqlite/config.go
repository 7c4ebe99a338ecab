package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:covid19.db?_pragma=busy_timeout(5000)"
	//   "covid19.db" (interpreted by the driver)
	DSN string

	// Table is the target table name, e.g. "daily_reports". A schema prefix
	// such as "main.daily_reports" selects an attached database.
	Table string
}
