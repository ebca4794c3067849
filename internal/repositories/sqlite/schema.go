package sqlite

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			role       TEXT NOT NULL CHECK(role IN ('DONOR', 'COLLECTOR', 'ADMIN')),
			points     INTEGER NOT NULL DEFAULT 0 CHECK(points >= 0),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		// Append-only ledger
		`CREATE TABLE IF NOT EXISTS transactions (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(id),
			type          TEXT NOT NULL CHECK(type IN ('EARN', 'REDEEM')),
			amount        INTEGER NOT NULL,
			balance_after INTEGER NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			related_id    TEXT NOT NULL DEFAULT '',
			created_at    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS waste_categories (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			points_per_kg TEXT NOT NULL DEFAULT '0',
			is_active     INTEGER NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS rewards (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			points_cost INTEGER NOT NULL CHECK(points_cost >= 0),
			stock       INTEGER NOT NULL DEFAULT 0 CHECK(stock >= 0),
			is_active   INTEGER NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS addresses (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			label      TEXT NOT NULL DEFAULT '',
			line1      TEXT NOT NULL DEFAULT '',
			city       TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_addresses_user ON addresses(user_id)`,

		`CREATE TABLE IF NOT EXISTS donation_requests (
			id               TEXT PRIMARY KEY,
			donor_id         TEXT NOT NULL REFERENCES users(id),
			category_id      TEXT NOT NULL REFERENCES waste_categories(id),
			address_id       TEXT NOT NULL REFERENCES addresses(id),
			estimated_weight TEXT NOT NULL,
			actual_weight    TEXT,
			status           TEXT NOT NULL DEFAULT 'PENDING'
				CHECK(status IN ('PENDING', 'ACCEPTED', 'COMPLETED', 'CANCELLED')),
			notes            TEXT NOT NULL DEFAULT '',
			preferred_date   TEXT,
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_status ON donation_requests(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_donor ON donation_requests(donor_id, created_at)`,

		// One claim per request, enforced by the UNIQUE constraint
		`CREATE TABLE IF NOT EXISTS collections (
			id                  TEXT PRIMARY KEY,
			donation_request_id TEXT NOT NULL UNIQUE REFERENCES donation_requests(id),
			collector_id        TEXT NOT NULL REFERENCES users(id),
			verification_code   TEXT NOT NULL,
			collected_at        TEXT,
			verification_notes  TEXT NOT NULL DEFAULT '',
			verification_images TEXT NOT NULL DEFAULT '[]',
			points_awarded      INTEGER,
			created_at          TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_collections_collector ON collections(collector_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			kind       TEXT NOT NULL,
			payload    TEXT NOT NULL DEFAULT '{}',
			status     TEXT NOT NULL DEFAULT 'PENDING',
			gateway    TEXT NOT NULL DEFAULT '',
			message_id TEXT NOT NULL DEFAULT '',
			error      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at)`,
	}
}
