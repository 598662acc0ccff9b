package dbroute

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/juju/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// Supported node types
const (
	SQLServer = "sqlserver"
	MySQL     = "mysql"
	Postgres  = "postgres"
	SQLite    = "sqlite"
)

func nodeType(n NodeConfig) string {
	if n.DBType == "" {
		return SQLServer
	}
	return strings.ToLower(n.DBType)
}

func openDialector(n NodeConfig) (gorm.Dialector, error) {
	dsn := n.DSN
	if dsn == "" {
		dsn = buildDSN(n)
	}
	switch nodeType(n) {
	case SQLServer:
		return sqlserver.Open(dsn), nil
	case MySQL:
		return mysql.Open(dsn), nil
	case Postgres:
		return postgres.Open(dsn), nil
	case SQLite:
		return sqlite.Open(dsn), nil
	default:
	}
	return nil, errors.NotSupportedf("node %q type %q", n.Name, n.DBType)
}

func buildDSN(n NodeConfig) string {
	switch nodeType(n) {
	case SQLServer:
		q := url.Values{}
		q.Set("database", n.Database)
		if n.ConnectTimeout > 0 {
			q.Set("connection timeout", fmt.Sprint(n.ConnectTimeout))
		}
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(n.User, n.Password),
			Host:     fmt.Sprintf("%s:%d", n.Server, n.Port),
			RawQuery: q.Encode(),
		}
		return u.String()
	case MySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", n.User, n.Password, n.Server, n.Port, n.Database)
		if n.ConnectTimeout > 0 {
			dsn += fmt.Sprintf("&timeout=%ds", n.ConnectTimeout)
		}
		return dsn
	case Postgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", n.Server, n.Port, n.User, n.Password, n.Database)
		if n.ConnectTimeout > 0 {
			dsn += fmt.Sprintf(" connect_timeout=%d", n.ConnectTimeout)
		}
		return dsn
	case SQLite:
		return n.Database
	}
	return ""
}

// readinessQuery trivial statement that answers with the server version
func readinessQuery(n NodeConfig) string {
	switch nodeType(n) {
	case MySQL:
		return "SELECT VERSION()"
	case Postgres:
		return "SELECT version()"
	case SQLite:
		return "SELECT sqlite_version()"
	}
	return "SELECT @@VERSION"
}
