// Package mongo stores projects in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"proyectos/internal/models"
	"proyectos/internal/storage"
)

const (
	defaultDatabase   = "proyectos"
	projectCollection = "projects"
)

type projectDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"nombre"`
	Description string             `bson:"descripcion"`
	Image       string             `bson:"imagen"`
	CreatedAt   string             `bson:"fecha"`
}

func (d projectDoc) model() models.Project {
	return models.Project{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt,
	}
}

// Store implements storage.ProjectStore on top of a MongoDB collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

var _ storage.ProjectStore = (*Store)(nil)

// Open connects to MongoDB and verifies the connection. The database name is
// taken from the URI path, falling back to "proyectos".
func Open(ctx context.Context, uri string, logger *slog.Logger) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty mongo uri")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("parse mongo uri: %w", err)
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = defaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("mongo project store ready", slog.String("database", dbName))
	return &Store{
		client:     client,
		collection: client.Database(dbName).Collection(projectCollection),
		logger:     logger,
	}, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// ListProjects returns every project in insertion order.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []projectDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}

	projects := make([]models.Project, 0, len(docs))
	for _, d := range docs {
		projects = append(projects, d.model())
	}
	return projects, nil
}

// CreateProject inserts a project; the server assigns the ObjectID.
func (s *Store) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	if err := storage.Validate(p); err != nil {
		return models.Project{}, err
	}

	doc := projectDoc{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return doc.model(), nil
}

// GetProject fetches a project by its hex identifier.
func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Project{}, storage.ErrNotFound
	}

	var doc projectDoc
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Project{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	return doc.model(), nil
}

// UpdateProject sets the supplied fields and returns the document after the update.
func (s *Store) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Project{}, storage.ErrNotFound
	}

	set := bson.M{}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return models.Project{}, &storage.ValidationError{Field: "nombre", Message: "is required"}
		}
		set["nombre"] = *patch.Name
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return models.Project{}, &storage.ValidationError{Field: "descripcion", Message: "is required"}
		}
		set["descripcion"] = *patch.Description
	}
	if patch.Image != nil {
		set["imagen"] = *patch.Image
	}
	if patch.CreatedAt != nil {
		set["fecha"] = *patch.CreatedAt
	}
	if len(set) == 0 {
		return s.GetProject(ctx, id)
	}

	var doc projectDoc
	err = s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Project{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	return doc.model(), nil
}

// DeleteProject removes a project by id.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
