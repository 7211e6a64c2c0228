package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Wizi44/PNodes/config"
	"github.com/Wizi44/PNodes/models"
)

const (
	CollectionNetworkSummaries = "network_summaries"
	CollectionNodeHistory      = "node_history"
)

// MongoDBService archives per-cycle summaries and per-node history. The
// in-memory snapshot history remains the source for detection; Mongo
// only backs the long-range history endpoints.
type MongoDBService struct {
	client  *mongo.Client
	db      *mongo.Database
	enabled bool
}

func NewMongoDBService(cfg *config.Config) (*MongoDBService, error) {
	if !cfg.MongoDB.Enabled {
		log.Println("MongoDB is disabled in configuration")
		return &MongoDBService{enabled: false}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	service := &MongoDBService{
		client:  client,
		db:      client.Database(cfg.MongoDB.Database),
		enabled: true,
	}

	if err := service.createIndexes(ctx); err != nil {
		log.Printf("Warning: failed to create indexes: %v", err)
	}

	log.Printf("MongoDB connected to database %s", cfg.MongoDB.Database)
	return service, nil
}

func (m *MongoDBService) createIndexes(ctx context.Context) error {
	if !m.enabled {
		return nil
	}

	_, err := m.db.Collection(CollectionNetworkSummaries).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("timestamp_desc"),
	})
	if err != nil {
		return err
	}

	_, err = m.db.Collection(CollectionNodeHistory).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "node_id", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("node_timestamp"),
	})
	return err
}

func (m *MongoDBService) Enabled() bool {
	return m != nil && m.enabled
}

func (m *MongoDBService) Close() error {
	if !m.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoDBService) InsertNetworkSummary(ctx context.Context, summary *models.NetworkSummary) error {
	if !m.Enabled() {
		return nil
	}
	_, err := m.db.Collection(CollectionNetworkSummaries).InsertOne(ctx, summary)
	return err
}

func (m *MongoDBService) InsertNodeHistory(ctx context.Context, entry *models.NodeHistoryEntry) error {
	if !m.Enabled() {
		return nil
	}
	_, err := m.db.Collection(CollectionNodeHistory).InsertOne(ctx, entry)
	return err
}

// GetNetworkSummariesRange returns archived summaries in [start, end],
// oldest first.
func (m *MongoDBService) GetNetworkSummariesRange(ctx context.Context, start, end time.Time) ([]models.NetworkSummary, error) {
	if !m.Enabled() {
		return nil, fmt.Errorf("mongodb not enabled")
	}

	filter := bson.M{"timestamp": bson.M{"$gte": start, "$lte": end}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := m.db.Collection(CollectionNetworkSummaries).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var summaries []models.NetworkSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetNodeHistoryRange returns archived entries for one node in
// [start, end], oldest first.
func (m *MongoDBService) GetNodeHistoryRange(ctx context.Context, nodeID string, start, end time.Time) ([]models.NodeHistoryEntry, error) {
	if !m.Enabled() {
		return nil, fmt.Errorf("mongodb not enabled")
	}

	filter := bson.M{
		"node_id":   nodeID,
		"timestamp": bson.M{"$gte": start, "$lte": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := m.db.Collection(CollectionNodeHistory).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.NodeHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
