package slotredis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// Схема ключей:
//
//	slot_hold:{uid}:{userId}:{start}:{end} - JSON удержания, TTL до release_at
//	slot_hold_ids:{uid}                    - SET ключей удержаний резервирования
//	slot_hold_user:{userId}                - ZSET ключей удержаний пользователя, score = начало слота (unix)
//
// Ключ удержания повторяет уникальный ключ таблицы selected_slots:
// один uid может удерживать несколько слотов.
const (
	holdKeyPrefix   = "slot_hold:"
	idIndexPrefix   = "slot_hold_ids:"
	userIndexPrefix = "slot_hold_user:"
)

// Store хранилище удержаний слотов в Redis
// Истечение удержаний обеспечивается TTL ключей, фоновая очистка не нужна
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// NewStore создает хранилище поверх клиента Redis
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

type holdRecord struct {
	ID            string    `json:"uid"`
	UserID        int64     `json:"userId"`
	EventTypeID   int64     `json:"eventTypeId"`
	SlotStart     time.Time `json:"slotStart"`
	SlotEnd       time.Time `json:"slotEnd"`
	IsSeatedEvent bool      `json:"isSeat"`
	CreatedAt     time.Time `json:"createdAt"`
	ReleaseAt     time.Time `json:"releaseAt"`
}

func holdKey(hold *domain.SlotHold) string {
	return holdKeyPrefix + hold.ID +
		":" + strconv.FormatInt(hold.UserID, 10) +
		":" + strconv.FormatInt(hold.SlotStart.Unix(), 10) +
		":" + strconv.FormatInt(hold.SlotEnd.Unix(), 10)
}

func idIndexKey(id string) string {
	return idIndexPrefix + id
}

func userIndexKey(userID int64) string {
	return userIndexPrefix + strconv.FormatInt(userID, 10)
}

// Upsert сохраняет удержание; повторная запись с тем же uid, пользователем и слотом продлевает TTL
func (s *Store) Upsert(ctx context.Context, hold *domain.SlotHold) error {
	ttl := hold.ReleaseAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(holdRecord{
		ID:            hold.ID,
		UserID:        hold.UserID,
		EventTypeID:   hold.EventTypeID,
		SlotStart:     hold.SlotStart.UTC(),
		SlotEnd:       hold.SlotEnd.UTC(),
		IsSeatedEvent: hold.IsSeatedEvent,
		CreatedAt:     hold.CreatedAt.UTC(),
		ReleaseAt:     hold.ReleaseAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	key := holdKey(hold)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, payload, ttl)
		pipe.SAdd(ctx, idIndexKey(hold.ID), key)
		pipe.Expire(ctx, idIndexKey(hold.ID), ttl)
		pipe.ZAdd(ctx, userIndexKey(hold.UserID), redis.Z{
			Score:  float64(hold.SlotStart.Unix()),
			Member: key,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: Upsert: %v", ErrRedis, err)
	}

	return nil
}

// DeleteByID удаляет все удержания резервирования
func (s *Store) DeleteByID(ctx context.Context, id string) (int64, error) {
	keys, err := s.client.SMembers(ctx, idIndexKey(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByID - smembers: %v", ErrRedis, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByID - mget: %v", ErrRedis, err)
	}

	var deleted *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, keys...)
		pipe.Del(ctx, idIndexKey(id))
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var rec holdRecord
			if json.Unmarshal([]byte(raw), &rec) != nil {
				continue
			}
			pipe.ZRem(ctx, userIndexKey(rec.UserID), keys[i])
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByID - delete: %v", ErrRedis, err)
	}

	return deleted.Val(), nil
}

// DeleteHolds удаляет перечисленные удержания, не трогая другие слоты того же uid
func (s *Store) DeleteHolds(ctx context.Context, holds []*domain.SlotHold) (int64, error) {
	if len(holds) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(holds))
	for _, hold := range holds {
		keys = append(keys, holdKey(hold))
	}

	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, keys...)
		for i, hold := range holds {
			pipe.SRem(ctx, idIndexKey(hold.ID), keys[i])
			pipe.ZRem(ctx, userIndexKey(hold.UserID), keys[i])
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteHolds: %v", ErrRedis, err)
	}

	return deleted.Val(), nil
}

// DeleteExpired ничего не делает: ключи удерживаний истекают по TTL
func (s *Store) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

// ListActiveByUser возвращает действующие удержания пользователя, пересекающие [from, to)
// Истекшие члены индекса пользователя удаляются попутно
func (s *Store) ListActiveByUser(ctx context.Context, userID int64, from, to, now time.Time) ([]*domain.SlotHold, error) {
	idx := userIndexKey(userID)

	keys, err := s.client.ZRangeByScore(ctx, idx, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(to.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByUser - zrangebyscore: %v", ErrRedis, err)
	}

	holds := make([]*domain.SlotHold, 0)
	if len(keys) == 0 {
		return holds, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByUser - mget: %v", ErrRedis, err)
	}

	stale := make([]interface{}, 0)
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, keys[i])
			continue
		}

		var rec holdRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("%w: key %s: %v", ErrDecode, keys[i], err)
		}

		hold := &domain.SlotHold{
			ID:            rec.ID,
			UserID:        rec.UserID,
			EventTypeID:   rec.EventTypeID,
			SlotStart:     rec.SlotStart,
			SlotEnd:       rec.SlotEnd,
			IsSeatedEvent: rec.IsSeatedEvent,
			CreatedAt:     rec.CreatedAt,
			ReleaseAt:     rec.ReleaseAt,
		}
		if hold.IsExpired(now) || !hold.Overlaps(from, to) {
			continue
		}
		holds = append(holds, hold)
	}

	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, idx, stale...).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: ListActiveByUser - zrem stale: %v", ErrRedis, err)
		}
	}

	return holds, nil
}
