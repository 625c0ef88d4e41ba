package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/scoring"
)

const defaultTTL = 24 * time.Hour

// SnapshotStore mirrors recent batch results in redis. One snapshot per
// user: switching folders replaces the previous one, the same way a browser
// tab only remembers the folder it is looking at.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(url string, ttl time.Duration) (*SnapshotStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SnapshotStore{client: redis.NewClient(opts), ttl: ttl}, nil
}

func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SnapshotStore) Close() error { return s.client.Close() }

func analyzedKey(userID, folderID string) string {
	return fmt.Sprintf("ats:analyzed:%s:%s", userID, folderID)
}

func folderKey(userID string) string {
	return fmt.Sprintf("ats:currentfolder:%s", userID)
}

func lastBatchKey(userID string) string {
	return fmt.Sprintf("ats:lastbatch:%s", userID)
}

// RecordBatch stores the batch outcomes and adds the successful file ids to
// the folder's analyzed set. A folder switch drops the previous folder's set
// first.
func (s *SnapshotStore) RecordBatch(ctx context.Context, userID, folderID string, outcomes []scoring.Outcome) error {
	prev, err := s.client.Get(ctx, folderKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := s.client.TxPipeline()
	if prev != "" && prev != folderID {
		pipe.Del(ctx, analyzedKey(userID, prev))
	}
	pipe.Set(ctx, folderKey(userID), folderID, s.ttl)

	key := analyzedKey(userID, folderID)
	for _, o := range outcomes {
		if o.Failed() || o.FileID == "" {
			continue
		}
		pipe.SAdd(ctx, key, o.FileID)
	}
	pipe.Expire(ctx, key, s.ttl)

	raw, err := json.Marshal(outcomes)
	if err != nil {
		return err
	}
	pipe.Set(ctx, lastBatchKey(userID), raw, s.ttl)

	_, err = pipe.Exec(ctx)
	return err
}

// AnalyzedFileIDs returns the snapshot set, or nil when the snapshot belongs
// to another folder (or none exists).
func (s *SnapshotStore) AnalyzedFileIDs(ctx context.Context, userID, folderID string) ([]string, error) {
	current, err := s.client.Get(ctx, folderKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if current != folderID {
		return nil, nil
	}
	return s.client.SMembers(ctx, analyzedKey(userID, folderID)).Result()
}

func (s *SnapshotStore) RemoveFile(ctx context.Context, userID, folderID, fileID string) error {
	return s.client.SRem(ctx, analyzedKey(userID, folderID), fileID).Err()
}

// LastBatch returns the most recent batch, nil when there is none.
func (s *SnapshotStore) LastBatch(ctx context.Context, userID string) ([]scoring.Outcome, error) {
	raw, err := s.client.Get(ctx, lastBatchKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var outcomes []scoring.Outcome
	if err := json.Unmarshal(raw, &outcomes); err != nil {
		return nil, fmt.Errorf("decoding snapshot batch: %w", err)
	}
	return outcomes, nil
}
