package queue

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"parking-reservation/internal/domain/waitlist"
	"parking-reservation/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	memberIndexPrefix = "reservation:waitlist-member:"
	scanBatch         = 200
)

// Score is the enqueue time in milliseconds, bumped past the current tail so ties
// still come out in insertion order. The member index is a best-effort reverse
// lookup; reads always re-check the queue itself.
var enqueueScript = redis.NewScript(`
if redis.call("ZSCORE", KEYS[1], ARGV[1]) then
	return 0
end
local score = tonumber(ARGV[2])
local tail = redis.call("ZRANGE", KEYS[1], -1, -1, "WITHSCORES")
if #tail == 2 then
	local last = tonumber(tail[2])
	if score <= last then
		score = last + 1
	end
end
redis.call("ZADD", KEYS[1], score, ARGV[1])
redis.call("PEXPIREAT", KEYS[1], ARGV[3])
redis.call("SADD", KEYS[2], ARGV[4])
local ttl = redis.call("PTTL", KEYS[2])
local want = tonumber(ARGV[5])
if ttl < want then
	redis.call("PEXPIRE", KEYS[2], want)
end
return 1
`)

type RedisStore struct {
	client redis.Cmdable
	loc    *time.Location
	logger *slog.Logger
}

func NewRedisStore(client redis.Cmdable, loc *time.Location, logger *slog.Logger) *RedisStore {
	if loc == nil {
		loc = time.UTC
	}
	return &RedisStore{client: client, loc: loc, logger: logger}
}

func memberIndexKey(requesterID uuid.UUID) string {
	return memberIndexPrefix + requesterID.String()
}

func (s *RedisStore) Enqueue(ctx context.Context, key waitlist.Key, requesterID uuid.UUID, now time.Time) (waitlist.JoinResult, error) {
	queueKey := key.String(s.loc)
	expireAt := key.End().UnixMilli()
	indexTTL := max(expireAt-now.UnixMilli(), 1)

	added, err := enqueueScript.Run(ctx, s.client,
		[]string{queueKey, memberIndexKey(requesterID)},
		requesterID.String(),
		strconv.FormatInt(now.UnixMilli(), 10),
		strconv.FormatInt(expireAt, 10),
		queueKey,
		strconv.FormatInt(indexTTL, 10),
	).Int()
	if err != nil {
		return "", errs.Wrapf(err, "failed to enqueue into %s", queueKey)
	}
	if added == 0 {
		return waitlist.AlreadyJoined, nil
	}
	return waitlist.Joined, nil
}

// DequeueHead returns nil when the queue is empty.
func (s *RedisStore) DequeueHead(ctx context.Context, key waitlist.Key) (*waitlist.Entry, error) {
	queueKey := key.String(s.loc)
	popped, err := s.client.ZPopMin(ctx, queueKey, 1).Result()
	if err != nil {
		return nil, errs.Wrapf(err, "failed to dequeue from %s", queueKey)
	}
	if len(popped) == 0 {
		return nil, nil
	}

	entry, err := toEntry(key, popped[0])
	if err != nil {
		return nil, err
	}
	s.dropIndex(ctx, entry.RequesterID, queueKey)
	return &entry, nil
}

func (s *RedisStore) List(ctx context.Context, key waitlist.Key) ([]waitlist.Entry, error) {
	queueKey := key.String(s.loc)
	members, err := s.client.ZRangeWithScores(ctx, queueKey, 0, -1).Result()
	if err != nil {
		return nil, errs.Wrapf(err, "failed to list %s", queueKey)
	}

	entries := make([]waitlist.Entry, 0, len(members))
	for _, m := range members {
		entry, err := toEntry(key, m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *RedisStore) Remove(ctx context.Context, key waitlist.Key, requesterID uuid.UUID) (bool, error) {
	queueKey := key.String(s.loc)
	removed, err := s.client.ZRem(ctx, queueKey, requesterID.String()).Result()
	if err != nil {
		return false, errs.Wrapf(err, "failed to remove from %s", queueKey)
	}
	s.dropIndex(ctx, requesterID, queueKey)
	return removed > 0, nil
}

func (s *RedisStore) IsMember(ctx context.Context, key waitlist.Key, requesterID uuid.UUID) (bool, error) {
	_, ok, err := s.Position(ctx, key, requesterID)
	return ok, err
}

func (s *RedisStore) Position(ctx context.Context, key waitlist.Key, requesterID uuid.UUID) (int, bool, error) {
	return s.rank(ctx, key.String(s.loc), requesterID)
}

func (s *RedisStore) Size(ctx context.Context, key waitlist.Key) (int, error) {
	queueKey := key.String(s.loc)
	n, err := s.client.ZCard(ctx, queueKey).Result()
	if err != nil {
		return 0, errs.Wrapf(err, "failed to count %s", queueKey)
	}
	return int(n), nil
}

func (s *RedisStore) FindByRequester(ctx context.Context, requesterID uuid.UUID) ([]waitlist.Membership, error) {
	indexKey := memberIndexKey(requesterID)
	queueKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errs.Wrapf(err, "failed to read waitlist index for %s", requesterID)
	}

	memberships := make([]waitlist.Membership, 0, len(queueKeys))
	for _, queueKey := range queueKeys {
		key, err := waitlist.ParseKey(queueKey, s.loc)
		if err != nil {
			s.dropIndex(ctx, requesterID, queueKey)
			continue
		}
		pos, ok, err := s.rank(ctx, queueKey, requesterID)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.dropIndex(ctx, requesterID, queueKey)
			continue
		}
		size, err := s.Size(ctx, key)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, waitlist.Membership{Key: key, Position: pos, Size: size})
	}
	return memberships, nil
}

// RemoveElapsed deletes every queue whose window ended before now. Keys also carry
// a PEXPIREAT at the window end, so this pass only catches stragglers.
func (s *RedisStore) RemoveElapsed(ctx context.Context, now time.Time) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, waitlist.KeyPrefix+"*", scanBatch).Result()
		if err != nil {
			return removed, errs.Wrap(err, "failed to scan waitlist keys")
		}

		var elapsed []string
		for _, k := range keys {
			key, err := waitlist.ParseKey(k, s.loc)
			if err != nil {
				s.logger.Warn("skipping unparseable waitlist key", "key", k)
				continue
			}
			if key.HasElapsed(now) {
				elapsed = append(elapsed, k)
			}
		}
		if len(elapsed) > 0 {
			n, err := s.client.Del(ctx, elapsed...).Result()
			if err != nil {
				return removed, errs.Wrap(err, "failed to delete elapsed waitlists")
			}
			removed += int(n)
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (s *RedisStore) rank(ctx context.Context, queueKey string, requesterID uuid.UUID) (int, bool, error) {
	r, err := s.client.ZRank(ctx, queueKey, requesterID.String()).Result()
	if errs.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errs.Wrapf(err, "failed to rank in %s", queueKey)
	}
	return int(r) + 1, true, nil
}

func (s *RedisStore) dropIndex(ctx context.Context, requesterID uuid.UUID, queueKey string) {
	if err := s.client.SRem(ctx, memberIndexKey(requesterID), queueKey).Err(); err != nil {
		s.logger.Warn("failed to update waitlist index", "requester_id", requesterID, "key", queueKey, "error", err.Error())
	}
}

func toEntry(key waitlist.Key, z redis.Z) (waitlist.Entry, error) {
	member, ok := z.Member.(string)
	if !ok {
		return waitlist.Entry{}, errs.New("unexpected waitlist member type")
	}
	requesterID, err := uuid.Parse(member)
	if err != nil {
		return waitlist.Entry{}, errs.Wrapf(err, "invalid waitlist member %q", member)
	}
	return waitlist.Entry{
		RequesterID: requesterID,
		Key:         key,
		EnqueuedAt:  time.UnixMilli(int64(z.Score)),
	}, nil
}
