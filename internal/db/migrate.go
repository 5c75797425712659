package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS farms (
		id                   TEXT PRIMARY KEY,
		name                 TEXT NOT NULL UNIQUE,
		allowed_seeding_days INTEGER NOT NULL DEFAULT 127,
		low_stock_threshold  INTEGER NOT NULL DEFAULT 0,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS recipes (
		id            TEXT PRIMARY KEY,
		farm_id       TEXT NOT NULL REFERENCES farms(id) ON DELETE CASCADE,
		variety       TEXT NOT NULL,
		name          TEXT NOT NULL,
		version       INTEGER NOT NULL DEFAULT 1,
		supersedes_id TEXT REFERENCES recipes(id),
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_farm ON recipes(farm_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_recipes_supersedes ON recipes(supersedes_id) WHERE supersedes_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS recipe_steps (
		recipe_id        TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		sequence_order   INTEGER NOT NULL,
		action           TEXT NOT NULL
		                 CHECK(action IN ('seed','soak','blackout','germination','growing','harvest','other')),
		duration         INTEGER NOT NULL CHECK(duration >= 0),
		unit             TEXT NOT NULL CHECK(unit IN ('days','hours')),
		weight_grams     REAL,
		water_type       TEXT NOT NULL DEFAULT 'none' CHECK(water_type IN ('none','water','nutrients')),
		water_method     TEXT NOT NULL DEFAULT '',
		water_times      INTEGER NOT NULL DEFAULT 0,
		post_sow_wetting TEXT NOT NULL DEFAULT '',
		notes            TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (recipe_id, sequence_order)
	)`,

	`CREATE TABLE IF NOT EXISTS customers (
		id         TEXT PRIMARY KEY,
		farm_id    TEXT NOT NULL REFERENCES farms(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id         TEXT PRIMARY KEY,
		farm_id    TEXT NOT NULL REFERENCES farms(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		recipe_id  TEXT REFERENCES recipes(id),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS standing_orders (
		id            TEXT PRIMARY KEY,
		farm_id       TEXT NOT NULL REFERENCES farms(id) ON DELETE CASCADE,
		customer_id   TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		product_id    TEXT NOT NULL REFERENCES products(id),
		quantity      INTEGER NOT NULL CHECK(quantity > 0),
		delivery_days INTEGER NOT NULL CHECK(delivery_days > 0),
		start_date    TEXT NOT NULL,
		end_date      TEXT,
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_standing_orders_farm ON standing_orders(farm_id)`,

	`CREATE TABLE IF NOT EXISTS seeding_requests (
		id                TEXT PRIMARY KEY,
		farm_id           TEXT NOT NULL REFERENCES farms(id) ON DELETE CASCADE,
		recipe_id         TEXT NOT NULL REFERENCES recipes(id),
		quantity          INTEGER NOT NULL CHECK(quantity > 0),
		seed_date         TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'pending'
		                  CHECK(status IN ('pending','completed','cancelled')),
		source            TEXT NOT NULL DEFAULT 'manual' CHECK(source IN ('manual','standing_order')),
		standing_order_id TEXT REFERENCES standing_orders(id) ON DELETE SET NULL,
		customer_id       TEXT REFERENCES customers(id) ON DELETE SET NULL,
		delivery_date     TEXT,
		soaked_at         TEXT,
		completed_at      TEXT,
		created_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_seeding_requests_farm_status ON seeding_requests(farm_id, status, seed_date)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_seeding_requests_order_date
		ON seeding_requests(standing_order_id, seed_date)
		WHERE standing_order_id IS NOT NULL AND status != 'cancelled'`,
	`CREATE TABLE IF NOT EXISTS seeding_request_deliveries (
		request_id    TEXT NOT NULL REFERENCES seeding_requests(id) ON DELETE CASCADE,
		delivery_date TEXT NOT NULL,
		quantity      INTEGER NOT NULL CHECK(quantity > 0),
		PRIMARY KEY (request_id, delivery_date)
	)`,

	`CREATE TABLE IF NOT EXISTS trays (
		id                 TEXT PRIMARY KEY,
		farm_id            TEXT NOT NULL REFERENCES farms(id) ON DELETE CASCADE,
		recipe_id          TEXT NOT NULL REFERENCES recipes(id),
		sow_date           TEXT NOT NULL,
		loss_state         TEXT NOT NULL DEFAULT 'active'
		                   CHECK(loss_state IN ('active','harvested','lost')),
		loss_reason        TEXT,
		loss_note          TEXT NOT NULL DEFAULT '',
		customer_id        TEXT REFERENCES customers(id) ON DELETE SET NULL,
		yield_grams        REAL,
		seeding_request_id TEXT REFERENCES seeding_requests(id) ON DELETE SET NULL,
		location           TEXT NOT NULL DEFAULT '',
		harvested_on       TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trays_farm_state ON trays(farm_id, loss_state)`,

	`CREATE TABLE IF NOT EXISTS tray_event_marks (
		tray_id     TEXT NOT NULL REFERENCES trays(id) ON DELETE CASCADE,
		day_offset  INTEGER NOT NULL,
		kind        TEXT NOT NULL,
		resolution  TEXT NOT NULL CHECK(resolution IN ('completed','skipped')),
		note        TEXT NOT NULL DEFAULT '',
		resolved_at TEXT NOT NULL,
		PRIMARY KEY (tray_id, day_offset, kind)
	)`,
}
