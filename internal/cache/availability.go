package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"futspot/internal/models"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Enabled  bool          `envconfig:"ENABLED" default:"false"`
	Addr     string        `envconfig:"ADDR" default:"localhost:6379"`
	Password string        `envconfig:"PASSWORD"`
	DB       int           `envconfig:"DB" default:"0"`
	TTL      time.Duration `envconfig:"TTL" default:"5m"`
}

const (
	keyPrefix     = "disponibilidade"
	versionPrefix = "disponibilidade-versao"
	versionTTL    = 24 * time.Hour
)

var errStale = errors.New("availability changed while it was read")

// AvailabilityCache хранит ответы disponibilidade по (local, data)
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(cfg Config) (*AvailabilityCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &AvailabilityCache{client: rdb, ttl: cfg.TTL}, nil
}

func availabilityKey(venueID int64, date string) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, venueID, date)
}

// versionKeys: счетчик всего local и счетчик (local, data)
func versionKeys(venueID int64, date string) (string, string) {
	return fmt.Sprintf("%s:%d", versionPrefix, venueID),
		fmt.Sprintf("%s:%d:%s", versionPrefix, venueID, date)
}

// Get returns nil, nil on a miss.
func (c *AvailabilityCache) Get(ctx context.Context, venueID int64, date string) (*models.AvailabilityResponse, error) {
	raw, err := c.client.Get(ctx, availabilityKey(venueID, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}

	var resp models.AvailabilityResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("invalid cached availability: %w", err)
	}
	return &resp, nil
}

type multiGetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

func readVersion(ctx context.Context, r multiGetter, venueID int64, date string) (int64, error) {
	venueKey, dateKey := versionKeys(venueID, date)
	vals, err := r.MGet(ctx, venueKey, dateKey).Result()
	if err != nil {
		return 0, fmt.Errorf("cache version error: %w", err)
	}

	var sum int64
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid cache version %q: %w", str, err)
		}
		sum += n
	}
	return sum, nil
}

// Version returns the invalidation counter of (venue, date). Any invalidation
// touching the pair changes it.
func (c *AvailabilityCache) Version(ctx context.Context, venueID int64, date string) (int64, error) {
	return readVersion(ctx, c.client, venueID, date)
}

// Set stores resp only while the version is still the one read before the
// response was built. A concurrent invalidation turns it into a no-op.
func (c *AvailabilityCache) Set(ctx context.Context, venueID int64, date string, version int64, resp *models.AvailabilityResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal availability: %w", err)
	}

	venueKey, dateKey := versionKeys(venueID, date)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, venueID, date)
		if err != nil {
			return err
		}
		if current != version {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, availabilityKey(venueID, date), raw, c.ttl)
			return nil
		})
		return err
	}, venueKey, dateKey)

	if errors.Is(err, errStale) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *AvailabilityCache) InvalidateVenueDate(ctx context.Context, venueID int64, date string) error {
	_, dateKey := versionKeys(venueID, date)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, dateKey)
		pipe.Expire(ctx, dateKey, versionTTL)
		pipe.Del(ctx, availabilityKey(venueID, date))
		return nil
	})
	return err
}

// InvalidateVenue drops every cached date of the venue.
func (c *AvailabilityCache) InvalidateVenue(ctx context.Context, venueID int64) error {
	venueKey, _ := versionKeys(venueID, "")
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, venueKey)
		pipe.Expire(ctx, venueKey, versionTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache version error: %w", err)
	}

	pattern := fmt.Sprintf("%s:%d:*", keyPrefix, venueID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan error: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *AvailabilityCache) Close() error {
	return c.client.Close()
}
