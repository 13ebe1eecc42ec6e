package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is idempotent so Migrate can run on every deploy.
const Schema = `
DO $$ BEGIN
	CREATE TYPE city AS ENUM ('Chandigarh', 'Mohali', 'Zirakpur', 'Panchkula', 'Other');
EXCEPTION WHEN duplicate_object THEN NULL; END $$;

DO $$ BEGIN
	CREATE TYPE property_type AS ENUM ('Apartment', 'Villa', 'Plot', 'Office', 'Retail');
EXCEPTION WHEN duplicate_object THEN NULL; END $$;

DO $$ BEGIN
	CREATE TYPE bhk AS ENUM ('1', '2', '3', '4', 'Studio');
EXCEPTION WHEN duplicate_object THEN NULL; END $$;

DO $$ BEGIN
	CREATE TYPE purpose AS ENUM ('Buy', 'Rent');
EXCEPTION WHEN duplicate_object THEN NULL; END $$;

DO $$ BEGIN
	CREATE TYPE timeline AS ENUM ('0-3m', '3-6m', '>6m', 'Exploring');
EXCEPTION WHEN duplicate_object THEN NULL; END $$;

DO $$ BEGIN
	CREATE TYPE lead_source AS ENUM ('Website', 'Referral', 'Walk-in', 'Call', 'Other');
EXCEPTION WHEN duplicate_object THEN NULL; END $$;

DO $$ BEGIN
	CREATE TYPE lead_status AS ENUM ('New', 'Qualified', 'Contacted', 'Visited', 'Negotiation', 'Converted', 'Dropped');
EXCEPTION WHEN duplicate_object THEN NULL; END $$;

CREATE TABLE IF NOT EXISTS buyers (
	id            uuid PRIMARY KEY,
	full_name     varchar(80)  NOT NULL,
	email         varchar(255),
	phone         varchar(15)  NOT NULL,
	city          city          NOT NULL,
	property_type property_type NOT NULL,
	bhk           bhk,
	purpose       purpose       NOT NULL,
	budget_min    bigint CHECK (budget_min >= 0),
	budget_max    bigint CHECK (budget_max >= 0),
	timeline      timeline      NOT NULL,
	source        lead_source   NOT NULL,
	notes         varchar(1000),
	tags          varchar(32)[] NOT NULL DEFAULT '{}',
	status        lead_status   NOT NULL DEFAULT 'New',
	owner_id      uuid          NOT NULL,
	updated_at    timestamptz   NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_buyers_updated_at ON buyers (updated_at DESC, id);

CREATE TABLE IF NOT EXISTS buyer_history (
	id         uuid PRIMARY KEY,
	buyer_id   uuid        NOT NULL REFERENCES buyers (id),
	changed_by uuid        NOT NULL,
	changed_at timestamptz NOT NULL DEFAULT now(),
	diff       jsonb       NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_buyer_history_buyer ON buyer_history (buyer_id, changed_at DESC);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
