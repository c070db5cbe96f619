package credentials

import (
	"context"
	"errors"
	"log"
	"time"

	"ecapbot/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS saved_credentials (
	user_id      BIGINT PRIMARY KEY,
	username     TEXT NOT NULL,
	password     TEXT NOT NULL,
	password_enc TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_used    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at   TIMESTAMPTZ NOT NULL
);
ALTER TABLE saved_credentials ADD COLUMN IF NOT EXISTS password_enc TEXT NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS saved_credentials_expires_at_idx ON saved_credentials (expires_at);`

// PostgresStore keeps credentials in a table. Expired rows are hidden from
// reads and removed by PurgeExpired.
type PostgresStore struct {
	db     *pgxpool.Pool
	sealer Sealer
	ttl    time.Duration
	now    func() time.Time
}

func NewPostgresStore(db *pgxpool.Pool, sealer Sealer) *PostgresStore {
	if sealer == nil {
		sealer = plainSealer{}
	}
	return &PostgresStore{
		db:     db,
		sealer: sealer,
		ttl:    TTL,
		now:    time.Now,
	}
}

// EnsureSchema creates the credentials table if it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) Save(ctx context.Context, userID int64, username, password string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	sealed, encoding, err := s.sealer.Seal(userID, password)
	if err != nil {
		return &StoreError{Op: "save", UserID: userID, Err: err}
	}

	now := s.now().UTC()
	stmt := `INSERT INTO saved_credentials (user_id, username, password, password_enc, created_at, last_used, expires_at)
VALUES ($1, $2, $3, $6, $4, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
	username = EXCLUDED.username,
	password = EXCLUDED.password,
	password_enc = EXCLUDED.password_enc,
	last_used = EXCLUDED.last_used,
	expires_at = EXCLUDED.expires_at,
	created_at = CASE WHEN saved_credentials.expires_at <= $4 THEN $4 ELSE saved_credentials.created_at END;`
	if _, err := s.db.Exec(ctx, stmt, userID, username, sealed, now, now.Add(s.ttl), encoding); err != nil {
		log.Printf("[STORE] save failed user=%d: %v", userID, err)
		return &StoreError{Op: "save", UserID: userID, Err: err}
	}

	log.Printf("[STORE] saved credentials user=%d ttl=%s", userID, s.ttl)
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID int64) (*models.Credential, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cred := models.Credential{UserID: userID}
	var sealed, encoding string
	stmt := "SELECT username, password, password_enc, created_at, last_used FROM saved_credentials WHERE user_id = $1 AND expires_at > $2;"
	err := s.db.QueryRow(ctx, stmt, userID, s.now().UTC()).Scan(&cred.Username, &sealed, &encoding, &cred.CreatedAt, &cred.LastUsed)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("[STORE] get failed user=%d: %v", userID, err)
		}
		return nil, false
	}

	cred.Password, err = s.sealer.Open(userID, sealed, encoding)
	if err != nil {
		log.Printf("[STORE] unreadable password user=%d: %v", userID, err)
		return nil, false
	}
	return &cred, true
}

func (s *PostgresStore) TouchLastUsed(ctx context.Context, userID int64) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := s.now().UTC()
	stmt := "UPDATE saved_credentials SET last_used = $2 WHERE user_id = $1 AND expires_at > $2;"
	if _, err := s.db.Exec(ctx, stmt, userID, now); err != nil {
		log.Printf("[STORE] touch last_used failed user=%d: %v", userID, err)
	}
}

func (s *PostgresStore) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.db.Exec(ctx, "DELETE FROM saved_credentials WHERE user_id = $1;", userID); err != nil {
		log.Printf("[STORE] delete failed user=%d: %v", userID, err)
		return &StoreError{Op: "delete", UserID: userID, Err: err}
	}
	log.Printf("[STORE] deleted credentials user=%d", userID)
	return nil
}

// PurgeExpired deletes rows past their TTL and returns how many went.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tag, err := s.db.Exec(ctx, "DELETE FROM saved_credentials WHERE expires_at <= $1;", s.now().UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
