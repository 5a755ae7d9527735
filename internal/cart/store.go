package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fleur_back_end/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TTL est la durée de vie d'un panier inactif.
const TTL = 30 * 24 * time.Hour

// Store persiste le panier d'un visiteur, identifié par son id de session.
type Store interface {
	Load(ctx context.Context, visitorID string) (models.Cart, error)
	Save(ctx context.Context, visitorID string, cart models.Cart) error
	Clear(ctx context.Context, visitorID string) error
}

// =============================================
// REDIS
// =============================================

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: TTL}
}

func redisKey(visitorID string) string {
	return "cart:" + visitorID
}

func (s *RedisStore) Load(ctx context.Context, visitorID string) (models.Cart, error) {
	data, err := s.client.Get(ctx, redisKey(visitorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (s *RedisStore) Save(ctx context.Context, visitorID string, cart models.Cart) error {
	if len(cart) == 0 {
		return s.Clear(ctx, visitorID)
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(visitorID), data, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, visitorID string) error {
	return s.client.Del(ctx, redisKey(visitorID)).Err()
}

// =============================================
// TABLE DE SESSIONS (gorm)
// =============================================

type DBStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db, ttl: TTL, now: time.Now}
}

func (s *DBStore) Load(ctx context.Context, visitorID string) (models.Cart, error) {
	var row models.CartSession
	err := s.db.WithContext(ctx).First(&row, "visitor_id = ?", visitorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	if s.now().After(row.ExpiresAt) {
		return models.Cart{}, nil
	}
	return decode(row.Payload)
}

func (s *DBStore) Save(ctx context.Context, visitorID string, cart models.Cart) error {
	if len(cart) == 0 {
		return s.Clear(ctx, visitorID)
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	row := models.CartSession{
		VisitorID: visitorID,
		Payload:   data,
		ExpiresAt: s.now().Add(s.ttl),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "visitor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
	}).Create(&row).Error
}

func (s *DBStore) Clear(ctx context.Context, visitorID string) error {
	return s.db.WithContext(ctx).Delete(&models.CartSession{}, "visitor_id = ?", visitorID).Error
}

// PurgeExpired supprime les paniers expirés et renvoie leur nombre.
func (s *DBStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", s.now()).Delete(&models.CartSession{})
	return res.RowsAffected, res.Error
}

func decode(data []byte) (models.Cart, error) {
	cart := models.Cart{}
	if len(data) == 0 {
		return cart, nil
	}
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return cart, nil
}
