package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

const (
	scanBatch = 100

	// счетчики поколений живут дольше записей, чтобы не обнулиться посреди чтения
	generationTTL = 7 * 24 * time.Hour
)

// Stamp поколения инвалидаций (день мастера, мастер, весь кэш), прочитанные до запроса в БД.
// Set записывает результат, только если с тех пор ни одно поколение не изменилось.
type Stamp struct {
	Day   int64
	Staff int64
	All   int64
}

// entry формат записи в Redis
type entry struct {
	StaffID   int64              `json:"staffId"`
	Date      string             `json:"fecha"`
	Slots     []types.TimeString `json:"slots"`
	Available []types.TimeString `json:"available"`
	Occupied  []types.TimeString `json:"occupied"`
}

// Cache кэш рассчитанной доступности мастера на день.
// Ключ: <prefix>:availability:<staffId>:<YYYY-MM-DD>
// Поколения: <prefix>:availability-gen[:<staffId>[:<YYYY-MM-DD>]]
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCache создает кэш доступности поверх клиента Redis
func NewCache(client *redis.Client, ttl time.Duration, prefix string) *Cache {
	return &Cache{client: client, ttl: ttl, prefix: prefix}
}

// Get читает доступность из кэша; при отсутствии записи возвращает ErrCacheMiss
func (c *Cache) Get(ctx context.Context, staffID int64, date time.Time) (*domain.DayAvailability, error) {
	val, err := c.client.Get(ctx, c.key(staffID, date)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: Get: %v", ErrCache, err)
	}

	var e entry
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return nil, fmt.Errorf("%w: Get - decode: %v", ErrCache, err)
	}

	return &domain.DayAvailability{
		StaffID:   e.StaffID,
		Date:      date,
		Slots:     e.Slots,
		Available: e.Available,
		Occupied:  e.Occupied,
	}, nil
}

// Stamp читает текущие поколения для (staffID, date).
// Вызывается до чтения бронирований из БД.
func (c *Cache) Stamp(ctx context.Context, staffID int64, date time.Time) (Stamp, error) {
	stamp, err := readStamp(ctx, c.client, c.generationKeys(staffID, date))
	if err != nil {
		return Stamp{}, fmt.Errorf("%w: Stamp: %v", ErrCache, err)
	}
	return stamp, nil
}

// Set сохраняет доступность с TTL. Если после чтения stamp была инвалидация,
// запись не выполняется и возвращается ErrStale.
func (c *Cache) Set(ctx context.Context, a *domain.DayAvailability, stamp Stamp) error {
	data, err := json.Marshal(entry{
		StaffID:   a.StaffID,
		Date:      a.Date.Format(domain.DateFormat),
		Slots:     a.Slots,
		Available: a.Available,
		Occupied:  a.Occupied,
	})
	if err != nil {
		return fmt.Errorf("%w: Set - encode: %v", ErrCache, err)
	}

	genKeys := c.generationKeys(a.StaffID, a.Date)
	key := c.key(a.StaffID, a.Date)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readStamp(ctx, tx, genKeys)
		if err != nil {
			return err
		}
		if current != stamp {
			return ErrStale
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, genKeys...)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStale), errors.Is(err, redis.TxFailedErr):
		return ErrStale
	default:
		return fmt.Errorf("%w: Set: %v", ErrCache, err)
	}
}

// Invalidate удаляет запись мастера на конкретный день
func (c *Cache) Invalidate(ctx context.Context, staffID int64, date time.Time) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		c.bump(ctx, pipe, c.dayGenerationKey(staffID, date))
		pipe.Del(ctx, c.key(staffID, date))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: Invalidate: %v", ErrCache, err)
	}
	return nil
}

// InvalidateStaff удаляет все дни мастера (после изменения его расписания)
func (c *Cache) InvalidateStaff(ctx context.Context, staffID int64) error {
	if err := c.bumpOne(ctx, c.staffGenerationKey(staffID)); err != nil {
		return fmt.Errorf("%w: InvalidateStaff: %v", ErrCache, err)
	}
	return c.deleteByPattern(ctx, fmt.Sprintf("%s:availability:%d:*", c.prefix, staffID))
}

// InvalidateAll удаляет всю доступность (после изменения длительности услуги)
func (c *Cache) InvalidateAll(ctx context.Context) error {
	if err := c.bumpOne(ctx, c.allGenerationKey()); err != nil {
		return fmt.Errorf("%w: InvalidateAll: %v", ErrCache, err)
	}
	return c.deleteByPattern(ctx, fmt.Sprintf("%s:availability:*", c.prefix))
}

func (c *Cache) bump(ctx context.Context, pipe redis.Pipeliner, key string) {
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, generationTTL)
}

func (c *Cache) bumpOne(ctx context.Context, key string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		c.bump(ctx, pipe, key)
		return nil
	})
	return err
}

func (c *Cache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()

	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: delete %s: %v", ErrCache, pattern, err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: scan %s: %v", ErrCache, pattern, err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("%w: delete %s: %v", ErrCache, pattern, err)
		}
	}
	return nil
}

func (c *Cache) key(staffID int64, date time.Time) string {
	return fmt.Sprintf("%s:availability:%d:%s", c.prefix, staffID, date.Format(domain.DateFormat))
}

func (c *Cache) dayGenerationKey(staffID int64, date time.Time) string {
	return fmt.Sprintf("%s:availability-gen:%d:%s", c.prefix, staffID, date.Format(domain.DateFormat))
}

func (c *Cache) staffGenerationKey(staffID int64) string {
	return fmt.Sprintf("%s:availability-gen:%d", c.prefix, staffID)
}

func (c *Cache) allGenerationKey() string {
	return fmt.Sprintf("%s:availability-gen", c.prefix)
}

// generationKeys порядок совпадает с полями Stamp
func (c *Cache) generationKeys(staffID int64, date time.Time) []string {
	return []string{
		c.dayGenerationKey(staffID, date),
		c.staffGenerationKey(staffID),
		c.allGenerationKey(),
	}
}

// generationReader общая часть *redis.Client и *redis.Tx
type generationReader interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

func readStamp(ctx context.Context, client generationReader, keys []string) (Stamp, error) {
	vals, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return Stamp{}, err
	}

	gens := make([]int64, len(keys))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue // ключа нет: поколение 0
		}
		gens[i], err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Stamp{}, fmt.Errorf("generation %s: %v", keys[i], err)
		}
	}
	return Stamp{Day: gens[0], Staff: gens[1], All: gens[2]}, nil
}

// Noop кэш для работы без Redis: всегда промах, запись и инвалидация ничего не делают
type Noop struct{}

func (Noop) Get(context.Context, int64, time.Time) (*domain.DayAvailability, error) {
	return nil, ErrCacheMiss
}

func (Noop) Stamp(context.Context, int64, time.Time) (Stamp, error) { return Stamp{}, nil }

func (Noop) Set(context.Context, *domain.DayAvailability, Stamp) error { return nil }

func (Noop) Invalidate(context.Context, int64, time.Time) error { return nil }

func (Noop) InvalidateStaff(context.Context, int64) error { return nil }

func (Noop) InvalidateAll(context.Context) error { return nil }
