package orders

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"freshcart/models"
	"freshcart/schemas"
)

// MongoRepository keeps orders in one collection keyed by order id.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) Get(ctx context.Context, id string) (models.OrderDetails, error) {
	var o models.OrderDetails
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return o, ErrNotFound
	}
	if err != nil {
		return o, fmt.Errorf("find order %s: %w", id, err)
	}
	return o, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]models.OrderDetails, error) {
	opts := options.Find().SetSort(bson.D{{Key: "placedAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.OrderDetails{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) Save(ctx context.Context, o models.OrderDetails) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": o.ID}, o, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save order %s: %w", o.ID, err)
	}
	return nil
}

// Seed inserts the given orders unless one with the same id already exists.
func (r *MongoRepository) Seed(ctx context.Context, logger *zap.Logger, seed ...models.OrderDetails) error {
	for _, o := range seed {
		if err := schemas.Order(o); err != nil {
			logger.Warn("skipping seed order", zap.String("id", o.ID), zap.Error(err))
			continue
		}
		if _, err := r.coll.InsertOne(ctx, o); err != nil && !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("seed order %s: %w", o.ID, err)
		}
	}
	return nil
}
