// Package store provides read access to the profile and partner tables
// that hold Slack credentials.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ProfileReader looks up end-user Slack OAuth tokens.
type ProfileReader interface {
	// UserTokenByID returns the Slack user token for a profile id,
	// or "" if the profile has none.
	UserTokenByID(ctx context.Context, id string) (string, error)

	// UserTokenByEmail returns the Slack user token for a profile email,
	// or "" if the profile has none.
	UserTokenByEmail(ctx context.Context, email string) (string, error)

	// HasUserToken reports whether a token exists for the id or email,
	// without returning it.
	HasUserToken(ctx context.Context, id, email string) (bool, error)
}

// PartnerReader looks up per-partner Slack bot tokens.
type PartnerReader interface {
	// BotToken returns the bot token for a partner id, or "" if the
	// partner has none.
	BotToken(ctx context.Context, partnerID string) (string, error)
}

// DB wraps the SQLite database holding profiles and partners.
// It implements ProfileReader and PartnerReader.
type DB struct {
	sql *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id               TEXT PRIMARY KEY,
	email            TEXT,
	slack_user_token TEXT
);
CREATE INDEX IF NOT EXISTS idx_profiles_email ON profiles(email);

CREATE TABLE IF NOT EXISTS partners (
	id              TEXT PRIMARY KEY,
	name            TEXT,
	slack_bot_token TEXT
);
`

// Open opens (creating if necessary) the database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{sql: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.sql.Close()
}

// UserTokenByID returns the Slack user token for a profile id.
// A missing profile or empty token yields "" without an error.
func (d *DB) UserTokenByID(ctx context.Context, id string) (string, error) {
	return d.queryToken(ctx,
		`SELECT slack_user_token FROM profiles WHERE id = ?`, id)
}

// UserTokenByEmail returns the Slack user token for a profile email.
func (d *DB) UserTokenByEmail(ctx context.Context, email string) (string, error) {
	return d.queryToken(ctx,
		`SELECT slack_user_token FROM profiles WHERE email = ?`, email)
}

// HasUserToken reports whether a non-empty token exists for either key.
func (d *DB) HasUserToken(ctx context.Context, id, email string) (bool, error) {
	token, err := d.UserTokenByID(ctx, id)
	if err != nil {
		return false, err
	}
	if token != "" {
		return true, nil
	}
	if email == "" {
		return false, nil
	}
	token, err = d.UserTokenByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// BotToken returns the bot token for a partner id.
func (d *DB) BotToken(ctx context.Context, partnerID string) (string, error) {
	return d.queryToken(ctx,
		`SELECT slack_bot_token FROM partners WHERE id = ?`, partnerID)
}

// SaveProfile inserts or updates a profile row.
func (d *DB) SaveProfile(ctx context.Context, id, email, userToken string) error {
	_, err := d.sql.ExecContext(ctx, `
		INSERT INTO profiles (id, email, slack_user_token) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email,
			slack_user_token = excluded.slack_user_token`,
		id, email, userToken)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", id, err)
	}
	return nil
}

// SavePartner inserts or updates a partner row.
func (d *DB) SavePartner(ctx context.Context, id, name, botToken string) error {
	_, err := d.sql.ExecContext(ctx, `
		INSERT INTO partners (id, name, slack_bot_token) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			slack_bot_token = excluded.slack_bot_token`,
		id, name, botToken)
	if err != nil {
		return fmt.Errorf("save partner %s: %w", id, err)
	}
	return nil
}

func (d *DB) queryToken(ctx context.Context, query, arg string) (string, error) {
	var token sql.NullString
	err := d.sql.QueryRowContext(ctx, query, arg).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query token: %w", err)
	}
	return token.String, nil
}
