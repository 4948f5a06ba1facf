package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/productcrud/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoProduct is the BSON shape of a product document.
type mongoProduct struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
}

func (m mongoProduct) toProduct() *Product {
	return &Product{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Description: m.Description,
	}
}

// MongoStore implements ProductStore on a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

var _ ProductStore = (*MongoStore)(nil)

// NewMongoStore creates a new instance of ProductStore backed by the given collection.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// FindByID retrieves a product by its ObjectID.
// Returns ErrProductNotFound if no document matches.
func (m *MongoStore) FindByID(ctx context.Context, id string) (*Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc mongoProduct
	if err := m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return doc.toProduct(), nil
}

// FindAll retrieves every document of the collection in natural order.
func (m *MongoStore) FindAll(ctx context.Context) ([]Product, error) {
	cursor, err := m.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	var docs []mongoProduct
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make([]Product, len(docs))
	for i, doc := range docs {
		products[i] = *doc.toProduct()
	}
	return products, nil
}

// Create inserts a new document with a fresh ObjectID.
func (m *MongoStore) Create(ctx context.Context, name, description string) (*Product, error) {
	doc := mongoProduct{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
	}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return doc.toProduct(), nil
}

// Update sets the provided fields and returns the document after the update.
// Returns ErrProductNotFound if no document matches.
func (m *MongoStore) Update(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	if update.IsEmpty() {
		return m.FindByID(ctx, id)
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.D{}
	if update.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *update.Name})
	}
	if update.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *update.Description})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoProduct
	err = m.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return doc.toProduct(), nil
}

// DeleteByID removes a document and returns it.
// Returns ErrProductNotFound if no document matches.
func (m *MongoStore) DeleteByID(ctx context.Context, id string) (*Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc mongoProduct
	if err := m.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to delete product by ID: %w", err)
	}
	return doc.toProduct(), nil
}

// Ping checks the connection to the primary.
func (m *MongoStore) Ping(ctx context.Context) error {
	return m.coll.Database().Client().Ping(ctx, readpref.Primary())
}

// parseObjectID converts a hex id into an ObjectID or returns a *CastError.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &perrors.CastError{
			Model: modelName,
			Kind:  "ObjectId",
			Value: id,
			Path:  "_id",
			Err:   err,
		}
	}
	return oid, nil
}
