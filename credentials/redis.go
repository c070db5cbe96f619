package credentials

import (
	"context"
	"fmt"
	"log"
	"time"

	"ecapbot/models"

	"github.com/redis/go-redis/v9"
)

// touchScript only updates records that still exist so an expired key is
// never recreated without a TTL.
var touchScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("HSET", KEYS[1], "last_used", ARGV[1])
end
return -1
`)

func credentialKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// RedisStore keeps each credential as a hash under user:{id} and lets Redis
// enforce the TTL.
type RedisStore struct {
	rdb    *redis.Client
	sealer Sealer
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore returns a store backed by rdb. A nil sealer stores passwords
// as given.
func NewRedisStore(rdb *redis.Client, sealer Sealer) *RedisStore {
	if sealer == nil {
		sealer = plainSealer{}
	}
	return &RedisStore{
		rdb:    rdb,
		sealer: sealer,
		ttl:    TTL,
		now:    time.Now,
	}
}

// Save upserts the credential. created_at is kept from the first save.
func (s *RedisStore) Save(ctx context.Context, userID int64, username, password string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	sealed, encoding, err := s.sealer.Seal(userID, password)
	if err != nil {
		return &StoreError{Op: "save", UserID: userID, Err: err}
	}

	now := s.now().UTC().Format(time.RFC3339)
	key := credentialKey(userID)

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"username":     username,
		"password":     sealed,
		"password_enc": encoding,
		"last_used":    now,
	})
	pipe.HSetNX(ctx, key, "created_at", now)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[STORE] save failed user=%d: %v", userID, err)
		return &StoreError{Op: "save", UserID: userID, Err: err}
	}

	log.Printf("[STORE] saved credentials user=%d ttl=%s", userID, s.ttl)
	return nil
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (*models.Credential, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := s.rdb.HGetAll(ctx, credentialKey(userID)).Result()
	if err != nil {
		log.Printf("[STORE] get failed user=%d: %v", userID, err)
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	password, err := s.sealer.Open(userID, data["password"], data["password_enc"])
	if err != nil {
		log.Printf("[STORE] unreadable password user=%d: %v", userID, err)
		return nil, false
	}

	return &models.Credential{
		UserID:    userID,
		Username:  data["username"],
		Password:  password,
		CreatedAt: parseTime(data["created_at"]),
		LastUsed:  parseTime(data["last_used"]),
	}, true
}

func (s *RedisStore) TouchLastUsed(ctx context.Context, userID int64) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := s.now().UTC().Format(time.RFC3339)
	if err := touchScript.Run(ctx, s.rdb, []string{credentialKey(userID)}, now).Err(); err != nil {
		log.Printf("[STORE] touch last_used failed user=%d: %v", userID, err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, credentialKey(userID)).Err(); err != nil {
		log.Printf("[STORE] delete failed user=%d: %v", userID, err)
		return &StoreError{Op: "delete", UserID: userID, Err: err}
	}
	log.Printf("[STORE] deleted credentials user=%d", userID)
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
