package main

import (
	"database/sql"
	"errors"

	"github.com/xavierca1/buyerleads/internal/infra/database"
)

func (a *app) openDB() (*sql.DB, error) {
	if a.cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	return database.NewDBConnection(a.cfg.Database.URL)
}
