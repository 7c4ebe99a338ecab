package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Store kinds.
const (
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
	KindMSSQL    = "mssql"
	KindMySQL    = "mysql"
)

const redactedMark = "xxxxx"

// DBConfig holds discrete connection parts. When DSN is set it wins over the
// parts.
type DBConfig struct {
	Kind     string `yaml:"kind"`
	Driver   string `yaml:"driver,omitempty"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode,omitempty"`
	DSN      string `yaml:"dsn,omitempty"`
}

// NormalizeKind maps accepted aliases onto a canonical kind.
func NormalizeKind(kind string) string {
	k := strings.ToLower(strings.TrimSpace(kind))
	switch k {
	case "postgresql", "pg", "pgx":
		return KindPostgres
	case "sqlite3":
		return KindSQLite
	case "sqlserver":
		return KindMSSQL
	}
	return k
}

// DriverName returns the database/sql driver name for the kind, or the
// explicit Driver override.
func (d DBConfig) DriverName() string {
	if d.Driver != "" {
		return d.Driver
	}
	switch NormalizeKind(d.Kind) {
	case KindPostgres:
		return "pgx"
	case KindSQLite:
		return "sqlite"
	case KindMSSQL:
		return "sqlserver"
	case KindMySQL:
		return "mysql"
	}
	return ""
}

func (d DBConfig) port(fallback string) string {
	if d.Port != "" {
		return d.Port
	}
	return fallback
}

// ConnString returns DSN when set, otherwise assembles one from the parts in
// the native format of the kind's driver.
func (d DBConfig) ConnString() (string, error) {
	if d.DSN != "" {
		return d.DSN, nil
	}
	switch NormalizeKind(d.Kind) {
	case KindPostgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(d.Host, d.port("5432")),
			Path:   "/" + d.Name,
		}
		if d.User != "" {
			u.User = userInfo(d.User, d.Password)
		}
		if d.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
		}
		return u.String(), nil
	case KindMSSQL:
		u := url.URL{
			Scheme: "sqlserver",
			Host:   net.JoinHostPort(d.Host, d.port("1433")),
		}
		if d.User != "" {
			u.User = userInfo(d.User, d.Password)
		}
		if d.Name != "" {
			u.RawQuery = url.Values{"database": {d.Name}}.Encode()
		}
		return u.String(), nil
	case KindMySQL:
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(d.Host, d.port("3306"))
		mc.DBName = d.Name
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	case KindSQLite:
		if d.Name == "" {
			return "", fmt.Errorf("sqlite: name (database file path) is required")
		}
		return d.Name, nil
	}
	return "", fmt.Errorf("unknown db kind %q", d.Kind)
}

func userInfo(user, password string) *url.Userinfo {
	if password == "" {
		return url.User(user)
	}
	return url.UserPassword(user, password)
}

// RedactDSN masks the password in dsn. Unparseable values are fully masked.
func RedactDSN(kind, dsn string) string {
	switch NormalizeKind(kind) {
	case KindSQLite:
		return dsn
	case KindMySQL:
		mc, err := mysql.ParseDSN(dsn)
		if err != nil {
			return redactedMark
		}
		if mc.Passwd != "" {
			mc.Passwd = redactedMark
		}
		return mc.FormatDSN()
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		// key=value form: mask password=... tokens.
		fields := strings.Fields(dsn)
		for i, f := range fields {
			if strings.HasPrefix(strings.ToLower(f), "password=") {
				fields[i] = "password=" + redactedMark
			}
		}
		return strings.Join(fields, " ")
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), redactedMark)
	}
	return u.String()
}
