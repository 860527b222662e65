package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Omarlsant/job-scraper/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// columns lists the listing columns in models.JobListing.Values order.
var columns = []string{
	"job_title",
	"company_name",
	"location",
	"work_format",
	"publication_date",
	"description",
	"contract_type",
	"work_type",
	"salary",
	"url",
}

// dialect isolates the SQL that differs between servers.
type dialect interface {
	open(db config.Database) (*sql.DB, error)
	// namespace is the database/schema the table lives in; "" for none.
	namespace(db config.Database, st config.Storage) string
	quote(ident string) string
	schemaStatements(namespace, table string) []string
	placeholder(n int) string
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case config.DriverMySQL:
		return mysqlDialect{}, nil
	case config.DriverPostgres:
		return postgresDialect{}, nil
	case config.DriverSQLite:
		return sqliteDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported driver %q", driver)
}

func qualify(d dialect, namespace, table string) string {
	if namespace == "" {
		return d.quote(table)
	}
	return d.quote(namespace) + "." + d.quote(table)
}

func insertStatement(d dialect, table string) string {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.quote(c)
		marks[i] = d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(marks, ", "))
}

// ---------------- MYSQL ----------------

type mysqlDialect struct{}

// open connects to the server without selecting a database so the target
// database can be created on first run.
func (mysqlDialect) open(db config.Database) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = db.User
	cfg.Passwd = db.Password
	cfg.Net = "tcp"
	cfg.Addr = db.Addr()
	cfg.Collation = "utf8mb4_unicode_ci"
	cfg.Timeout = 10 * time.Second

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql config: %w", err)
	}
	return sql.OpenDB(connector), nil
}

func (mysqlDialect) namespace(db config.Database, _ config.Storage) string {
	return db.Name
}

func (mysqlDialect) quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (d mysqlDialect) schemaStatements(namespace, table string) []string {
	const text = "CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s %s", d.quote(namespace), text),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INT AUTO_INCREMENT PRIMARY KEY,
	job_title VARCHAR(255) %[2]s,
	company_name VARCHAR(255) %[2]s,
	location VARCHAR(255) %[2]s,
	work_format VARCHAR(100) %[2]s,
	publication_date VARCHAR(100) %[2]s,
	description TEXT %[2]s,
	contract_type VARCHAR(100) %[2]s,
	work_type VARCHAR(100) %[2]s,
	salary VARCHAR(100) %[2]s,
	url VARCHAR(255)
) DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, qualify(d, namespace, table), text),
	}
}

func (mysqlDialect) placeholder(int) string { return "?" }

// ---------------- POSTGRES ----------------

type postgresDialect struct{}

func (postgresDialect) open(db config.Database) (*sql.DB, error) {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(db.User, db.Password),
		Host:   db.Addr(),
		Path:   "/" + db.Name,
	}
	connConfig, err := pgx.ParseConfig(u.String())
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}
	// Poolers in transaction mode do not support prepared statements.
	connConfig.DefaultQueryExecMode = pgx.QueryExecModeExec
	return stdlib.OpenDB(*connConfig), nil
}

func (postgresDialect) namespace(_ config.Database, st config.Storage) string {
	return st.Schema
}

func (postgresDialect) quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (d postgresDialect) schemaStatements(namespace, table string) []string {
	var stmts []string
	if namespace != "" {
		stmts = append(stmts, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", d.quote(namespace)))
	}
	return append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id SERIAL PRIMARY KEY,
	job_title VARCHAR(255),
	company_name VARCHAR(255),
	location VARCHAR(255),
	work_format VARCHAR(100),
	publication_date VARCHAR(100),
	description TEXT,
	contract_type VARCHAR(100),
	work_type VARCHAR(100),
	salary VARCHAR(100),
	url VARCHAR(255)
)`, qualify(d, namespace, table)))
}

func (postgresDialect) placeholder(n int) string { return "$" + strconv.Itoa(n) }

// ---------------- SQLITE ----------------

type sqliteDialect struct{}

// open uses the modernc DSN form: file:foo.db?_pragma=busy_timeout(5000)
func (sqliteDialect) open(db config.Database) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", db.Name))
}

func (sqliteDialect) namespace(config.Database, config.Storage) string { return "" }

func (sqliteDialect) quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (d sqliteDialect) schemaStatements(_, table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_title TEXT,
	company_name TEXT,
	location TEXT,
	work_format TEXT,
	publication_date TEXT,
	description TEXT,
	contract_type TEXT,
	work_type TEXT,
	salary TEXT,
	url TEXT
)`, d.quote(table)),
	}
}

func (sqliteDialect) placeholder(int) string { return "?" }
