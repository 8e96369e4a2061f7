package common

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PublicDB is a connection pool using the public database role, subject to
// row-level security policies.
type PublicDB struct {
	*sql.DB
}

// AdminDB is a connection pool using the service role, which bypasses
// row-level security. Only the admin listing is allowed to take an AdminDB;
// keeping the two types apart stops a call site from picking up elevated
// access by accident.
type AdminDB struct {
	*sql.DB
}

func NewPublicDB(host, port, user, password, name string, maxOpenConns, maxIdleConns int, maxIdleTime time.Duration) (*PublicDB, error) {
	db, err := connectDB(host, port, user, password, name, maxOpenConns, maxIdleConns, maxIdleTime)
	if err != nil {
		return nil, err
	}
	return &PublicDB{db}, nil
}

func NewAdminDB(host, port, user, password, name string, maxOpenConns, maxIdleConns int, maxIdleTime time.Duration) (*AdminDB, error) {
	db, err := connectDB(host, port, user, password, name, maxOpenConns, maxIdleConns, maxIdleTime)
	if err != nil {
		return nil, err
	}
	return &AdminDB{db}, nil
}

// connectDB connects to the database and returns the connection
func connectDB(host, port, user, password, name string, maxOpenConns int, maxIdleConns int, maxIdleTime time.Duration) (*sql.DB, error) {
	URI := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	db, err := sql.Open("postgres", URI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// CloseDB closes the database connection
func CloseDB(db *sql.DB) error {
	return db.Close()
}
