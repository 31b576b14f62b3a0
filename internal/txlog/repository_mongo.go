package txlog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"topup/kit/db"
	"topup/kit/observability"
)

const OrdersCollection = "order"

type mongoCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

type MongoRepository struct {
	coll mongoCollection
}

func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: database.Collection(OrdersCollection)}
}

func newMongoRepository(coll mongoCollection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// EnsureIndexes creates the unique record id index that backs duplicate
// detection, plus the customer history index.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(OrdersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "record_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return errors.Join(db.ErrInternal, err)
	}
	return nil
}

func (r *MongoRepository) Append(ctx context.Context, rec Record) error {
	if err := ValidateRecord(rec); err != nil {
		return errors.Join(db.ErrInvalid, err)
	}
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Join(db.ErrConflict, err)
		}
		observability.L().Error("append order failed", "layer", "repo", "component", "txlog", "repo", "MongoRepository", "method", "Append", "record_id", rec.ID, "err", err)
		return errors.Join(db.ErrInternal, err)
	}
	return nil
}

func (r *MongoRepository) ListByCustomer(ctx context.Context, customerID string) ([]Record, error) {
	return r.find(ctx, bson.M{"customer_id": customerID})
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]Record, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]Record, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		observability.L().Error("list orders failed", "layer", "repo", "component", "txlog", "repo", "MongoRepository", "err", err)
		return nil, errors.Join(db.ErrInternal, err)
	}
	out := []Record{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Join(db.ErrInternal, err)
	}
	return out, nil
}
