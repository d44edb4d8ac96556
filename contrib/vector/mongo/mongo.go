package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetpotato0/ai-reasoner/vector"
)

var _ vector.VectorStore = (*MongoVectorStore)(nil)

// MongoVectorStore stores embeddings as documents and ranks by brute force.
type MongoVectorStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Config holds MongoDB connection configuration
type Config struct {
	URI        string
	Database   string
	Collection string
}

// DefaultConfig returns default MongoDB configuration
func DefaultConfig(uri string) *Config {
	return &Config{
		URI:        uri,
		Database:   "ai_reasoner",
		Collection: "embeddings",
	}
}

// mongoEmbedding is the internal representation for MongoDB
type mongoEmbedding struct {
	ID        string    `bson:"_id"`
	Text      string    `bson:"text"`
	Source    string    `bson:"source"`
	Vector    []float32 `bson:"vector"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Open connects to MongoDB and verifies the connection
func Open(ctx context.Context, config *Config) (*MongoVectorStore, error) {
	if config == nil || config.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if config.Database == "" {
		config.Database = "ai_reasoner"
	}
	if config.Collection == "" {
		config.Collection = "embeddings"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoVectorStore{
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
	}, nil
}

// AddEmbedding inserts or replaces an embedding
func (s *MongoVectorStore) AddEmbedding(ctx context.Context, embedding *vector.Embedding) error {
	if err := vector.Validate(embedding); err != nil {
		return err
	}

	doc := mongoEmbedding{
		ID:        embedding.ID,
		Text:      embedding.Text,
		Source:    embedding.Source,
		Vector:    embedding.Vector,
		UpdatedAt: time.Now(),
	}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add embedding: %w", err)
	}
	return nil
}

// Search loads every embedding and ranks it against the query vector
func (s *MongoVectorStore) Search(ctx context.Context, queryVector []float32, topK int) ([]vector.Match, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("query vector cannot be empty")
	}

	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to search embeddings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoEmbedding
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings: %w", err)
	}

	candidates := make([]*vector.Embedding, 0, len(docs))
	for _, doc := range docs {
		candidates = append(candidates, doc.toEmbedding())
	}
	return vector.Rank(queryVector, candidates, topK), nil
}

// DeleteEmbedding removes an embedding by ID
func (s *MongoVectorStore) DeleteEmbedding(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete embedding: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("embedding %s: %w", id, vector.ErrNotFound)
	}
	return nil
}

// GetEmbedding retrieves a specific embedding by ID
func (s *MongoVectorStore) GetEmbedding(ctx context.Context, id string) (*vector.Embedding, error) {
	var doc mongoEmbedding
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("embedding %s: %w", id, vector.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}
	return doc.toEmbedding(), nil
}

// Clear removes all embeddings
func (s *MongoVectorStore) Clear(ctx context.Context) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear embeddings: %w", err)
	}
	return nil
}

// Count returns the number of embeddings
func (s *MongoVectorStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return int(count), nil
}

// Close disconnects from MongoDB
func (s *MongoVectorStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (d mongoEmbedding) toEmbedding() *vector.Embedding {
	return &vector.Embedding{
		ID:     d.ID,
		Text:   d.Text,
		Source: d.Source,
		Vector: d.Vector,
	}
}
