package download

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	pendingKey = "portal:pending:document_downloads"
	// A client is counted once per document per window.
	clientWindow = time.Hour
)

// Store persists accumulated download counts.
type Store interface {
	AddDownloads(ctx context.Context, id uuid.UUID, n int) error
}

type DownloadCounter interface {
	Record(ctx context.Context, documentID uuid.UUID, clientIP string) error
	Sync(ctx context.Context) int
	StartSyncWorker(ctx context.Context, every time.Duration)
}

type downloadCounter struct {
	redisClient *redis.Client
	store       Store
}

// NewDownloadCounter buffers counts in Redis and flushes them to the store
// periodically. Without Redis every download is written through.
func NewDownloadCounter(redisClient *redis.Client, store Store) DownloadCounter {
	return &downloadCounter{redisClient: redisClient, store: store}
}

func countKey(id string) string {
	return "portal:document_downloads:" + id
}

func (s *downloadCounter) Record(ctx context.Context, documentID uuid.UUID, clientIP string) error {
	if s.redisClient == nil {
		return s.store.AddDownloads(ctx, documentID, 1)
	}

	clientKey := fmt.Sprintf("portal:document_download:%s:%s", documentID, clientIP)
	fresh, err := s.redisClient.SetNX(ctx, clientKey, 1, clientWindow).Result()
	if err != nil {
		return fmt.Errorf("failed to mark client download: %w", err)
	}
	if !fresh {
		return nil
	}

	pipe := s.redisClient.TxPipeline()
	pipe.Incr(ctx, countKey(documentID.String()))
	pipe.SAdd(ctx, pendingKey, documentID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment downloads: %w", err)
	}
	return nil
}

// Sync flushes buffered counts and returns how many documents were updated.
func (s *downloadCounter) Sync(ctx context.Context) int {
	if s.redisClient == nil {
		return 0
	}

	ids, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		log.Printf("Error getting pending downloads: %v", err)
		return 0
	}

	synced := 0
	for _, raw := range ids {
		s.redisClient.SRem(ctx, pendingKey, raw)

		id, err := uuid.Parse(raw)
		if err != nil {
			log.Printf("Invalid document ID in pending downloads: %s", raw)
			continue
		}

		val, err := s.redisClient.GetDel(ctx, countKey(raw)).Result()
		if err != nil {
			if err != redis.Nil {
				log.Printf("Error reading downloads for %s: %v", raw, err)
			}
			continue
		}
		n, _ := strconv.Atoi(val)
		if n <= 0 {
			continue
		}

		if err := s.store.AddDownloads(ctx, id, n); err != nil {
			log.Printf("Failed to store downloads for %s: %v", raw, err)
			// put the count back for the next run
			s.redisClient.IncrBy(ctx, countKey(raw), int64(n))
			s.redisClient.SAdd(ctx, pendingKey, raw)
			continue
		}
		synced++
	}

	if synced > 0 {
		log.Printf("Synced downloads for %d documents", synced)
	}
	return synced
}

func (s *downloadCounter) StartSyncWorker(ctx context.Context, every time.Duration) {
	if s.redisClient == nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sync(ctx)
		case <-ctx.Done():
			// flush what is buffered before exit
			s.Sync(context.Background())
			return
		}
	}
}
