package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sweetpotato0/ai-reasoner/vector"
)

var _ vector.VectorStore = (*RedisVectorStore)(nil)

// RedisVectorStore keeps each embedding in a hash and ranks by brute force.
// It suits knowledge bases of a few thousand chunks.
type RedisVectorStore struct {
	client *redis.Client
	prefix string // Key prefix for namespacing
}

// Config holds Redis configuration
type Config struct {
	Addr     string // Redis server address (e.g., "localhost:6379")
	Password string // Redis password (if any)
	DB       int    // Redis database number
	Prefix   string // Key prefix for namespacing
}

// DefaultConfig returns default Redis configuration
func DefaultConfig(addr string) *Config {
	return &Config{
		Addr:   addr,
		Prefix: "ai-reasoner:vector:",
	}
}

// New creates a Redis-backed vector store
func New(config *Config) *RedisVectorStore {
	if config == nil {
		config = DefaultConfig("localhost:6379")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	return NewWithClient(client, config.Prefix)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string) *RedisVectorStore {
	if prefix == "" {
		prefix = "ai-reasoner:vector:"
	}
	return &RedisVectorStore{client: client, prefix: prefix}
}

func (s *RedisVectorStore) key(id string) string {
	return s.prefix + "emb:" + id
}

func (s *RedisVectorStore) setKey() string {
	return s.prefix + "ids"
}

// AddEmbedding inserts or replaces an embedding
func (s *RedisVectorStore) AddEmbedding(ctx context.Context, embedding *vector.Embedding) error {
	if err := vector.Validate(embedding); err != nil {
		return err
	}

	vec, err := json.Marshal(embedding.Vector)
	if err != nil {
		return fmt.Errorf("failed to marshal vector: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key(embedding.ID),
			"text", embedding.Text,
			"source", embedding.Source,
			"vector", string(vec),
		)
		pipe.SAdd(ctx, s.setKey(), embedding.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store embedding in Redis: %w", err)
	}
	return nil
}

// Search loads every embedding and ranks it against the query vector
func (s *RedisVectorStore) Search(ctx context.Context, queryVector []float32, topK int) ([]vector.Match, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("query vector cannot be empty")
	}

	ids, err := s.client.SMembers(ctx, s.setKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding ids: %w", err)
	}
	if len(ids) == 0 {
		return []vector.Match{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.key(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load embeddings: %w", err)
	}

	candidates := make([]*vector.Embedding, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Hash vanished; drop the dangling id.
			s.client.SRem(ctx, s.setKey(), ids[i])
			continue
		}
		emb, err := decode(ids[i], fields)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, emb)
	}

	return vector.Rank(queryVector, candidates, topK), nil
}

// DeleteEmbedding removes an embedding by ID
func (s *RedisVectorStore) DeleteEmbedding(ctx context.Context, id string) error {
	removed, err := s.client.SRem(ctx, s.setKey(), id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete embedding: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("embedding %s: %w", id, vector.ErrNotFound)
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete embedding: %w", err)
	}
	return nil
}

// GetEmbedding retrieves a specific embedding by ID
func (s *RedisVectorStore) GetEmbedding(ctx context.Context, id string) (*vector.Embedding, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("embedding %s: %w", id, vector.ErrNotFound)
	}
	return decode(id, fields)
}

// Clear removes all embeddings
func (s *RedisVectorStore) Clear(ctx context.Context) error {
	ids, err := s.client.SMembers(ctx, s.setKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to get embedding ids: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	keys = append(keys, s.setKey())
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear embeddings: %w", err)
	}
	return nil
}

// Count returns the number of embeddings
func (s *RedisVectorStore) Count(ctx context.Context) (int, error) {
	count, err := s.client.SCard(ctx, s.setKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return int(count), nil
}

// Ping checks if Redis connection is alive
func (s *RedisVectorStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisVectorStore) Close() error {
	return s.client.Close()
}

func decode(id string, fields map[string]string) (*vector.Embedding, error) {
	raw, ok := fields["vector"]
	if !ok {
		return nil, fmt.Errorf("embedding %s: %w", id, errors.New("missing vector field"))
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vector for %s: %w", id, err)
	}
	return &vector.Embedding{
		ID:     id,
		Text:   fields["text"],
		Source: fields["source"],
		Vector: vec,
	}, nil
}
