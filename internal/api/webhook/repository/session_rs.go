package webhookRepository

import (
	"encoding/json"
	"errors"
	"time"

	"ProjectBodycheck/internal/api/webhook"
	"ProjectBodycheck/internal/entity"
	contextPkg "ProjectBodycheck/pkg/context"
	redisPkg "ProjectBodycheck/pkg/redis"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const sessionKeyPrefix = "bodycheck:session:"

type redisStore struct {
	redis redisPkg.IRedis
	log   *logrus.Logger
	ttl   time.Duration
}

func NewRedisStore(redis redisPkg.IRedis, log *logrus.Logger, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &redisStore{
		redis: redis,
		log:   log,
		ttl:   ttl,
	}
}

func (r *redisStore) Get(ctx context.Context, userID string) (entity.UserSession, error) {
	requestID := contextPkg.GetRequestID(ctx)

	raw, err := r.redis.Get(ctx, sessionKeyPrefix+userID)
	if err != nil {
		if errors.Is(err, redisPkg.ErrNotFound) {
			return entity.UserSession{}, webhook.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to read session from Redis")
		return entity.UserSession{}, err
	}

	var session entity.UserSession
	if err := json.Unmarshal(raw, &session); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to unmarshal stored session")
		return entity.UserSession{}, err
	}

	return session, nil
}

func (r *redisStore) Put(ctx context.Context, session entity.UserSession) error {
	requestID := contextPkg.GetRequestID(ctx)

	raw, err := json.Marshal(session)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal session")
		return err
	}

	return r.redis.Set(ctx, sessionKeyPrefix+session.UserID, raw, r.ttl)
}

func (r *redisStore) Delete(ctx context.Context, userID string) error {
	return r.redis.Delete(ctx, sessionKeyPrefix+userID)
}
