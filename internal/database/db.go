// Package database opens the MySQL connection pool shared by all
// repositories.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// dsn builds the driver connection string. parseTime maps
// DATE/DATETIME columns to time.Time, loc=UTC keeps stored timestamps
// consistent across hosts, and clientFoundRows makes RowsAffected
// count matched rows rather than changed ones, so an UPDATE that hits
// a row but changes nothing is not mistaken for a missing row.
func dsn(user, pass, host, port, name string) string {
	creds := user
	if pass != "" {
		creds = user + ":" + pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		creds, host, port, name)
}

// Open connects to MySQL and verifies the connection with a bounded ping.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
