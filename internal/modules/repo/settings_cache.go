package repo

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
)

const (
	settingsCachePrefix = "settings:"
	settingsGenPrefix   = "settings_gen:"
)

var errStaleFill = errors.New("settings cache: stale fill")

// absentMarker caches a missing key so repeated reads skip the database.
const absentMarker = "\x00"

type cachedSettingsRepo struct {
	inner SettingsRepo
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
	group singleflight.Group
}

// NewCachedSettingsRepo puts a read-through redis cache in front of inner.
// Redis failures degrade to direct reads.
func NewCachedSettingsRepo(inner SettingsRepo, rdb *redis.Client, ttl time.Duration, log *zap.Logger) SettingsRepo {
	return &cachedSettingsRepo{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func (r *cachedSettingsRepo) Get(ctx context.Context, key string) (datatypes.JSON, error) {
	ck := settingsCachePrefix + key

	raw, err := r.rdb.Get(ctx, ck).Result()
	switch {
	case err == nil:
		if raw == absentMarker {
			return nil, nil
		}
		return datatypes.JSON(raw), nil
	case !errors.Is(err, redis.Nil):
		r.log.Warn("settings cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		// generation before the database read; a write in between voids the fill
		gen, genErr := r.generation(ctx, key)
		val, err := r.inner.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if genErr != nil {
			r.log.Warn("settings cache generation read failed", zap.String("key", key), zap.Error(genErr))
			return val, nil
		}
		cached := absentMarker
		if val != nil {
			cached = string(val)
		}
		r.fill(ctx, key, gen, cached)
		return val, nil
	})
	if err != nil {
		return nil, err
	}
	val, _ := v.(datatypes.JSON)
	return val, nil
}

func (r *cachedSettingsRepo) generation(ctx context.Context, key string) (int64, error) {
	n, err := r.rdb.Get(ctx, settingsGenPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// fill stores cached only while the key's generation still equals gen.
func (r *cachedSettingsRepo) fill(ctx context.Context, key string, gen int64, cached string) {
	gk := settingsGenPrefix + key
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if errors.Is(err, redis.Nil) {
			cur, err = 0, nil
		}
		if err != nil {
			return err
		}
		if cur != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, settingsCachePrefix+key, cached, r.ttl)
			return nil
		})
		return err
	}, gk)
	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		r.log.Debug("settings cache fill skipped, key changed during read", zap.String("key", key))
	default:
		r.log.Warn("settings cache fill failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *cachedSettingsRepo) Set(ctx context.Context, key string, value datatypes.JSON) error {
	if err := r.inner.Set(ctx, key, value); err != nil {
		return err
	}
	r.invalidate(ctx, key)
	return nil
}

func (r *cachedSettingsRepo) SetIfAbsent(ctx context.Context, key string, value datatypes.JSON) (bool, error) {
	ok, err := r.inner.SetIfAbsent(ctx, key, value)
	if err != nil {
		return false, err
	}
	if ok {
		r.invalidate(ctx, key)
	}
	return ok, nil
}

// invalidate bumps the key's generation and drops the cached value in one transaction.
func (r *cachedSettingsRepo) invalidate(ctx context.Context, key string) {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, settingsGenPrefix+key)
		p.Del(ctx, settingsCachePrefix+key)
		return nil
	})
	if err != nil {
		r.log.Warn("settings cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
