package ledger

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"topup/kit/db"
	"topup/kit/observability"
)

const CustomersCollection = "user"

type mongoCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type customerDocument struct {
	CustomerID string           `bson:"customer_id"`
	Balances   map[string]int64 `bson:"balances"`
	DateJoined time.Time        `bson:"date_joined"`
}

// MongoRepository keeps one document per customer with a balances
// sub-document. Debit is a single FindOneAndUpdate whose filter carries the
// sufficient-funds condition.
type MongoRepository struct {
	coll mongoCollection
}

func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: database.Collection(CustomersCollection)}
}

func newMongoRepository(coll mongoCollection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) Register(ctx context.Context, customerID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"customer_id": customerID},
		bson.M{"$setOnInsert": bson.M{"balances": bson.M{}, "date_joined": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		observability.L().Error("register customer failed", "layer", "repo", "component", "ledger", "repo", "MongoRepository", "method", "Register", "customer_id", customerID, "err", err)
		return classifyMongo(err)
	}
	return nil
}

func (r *MongoRepository) Balances(ctx context.Context, customerID string) (map[string]int64, error) {
	var doc customerDocument
	if err := r.coll.FindOne(ctx, bson.M{"customer_id": customerID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Join(db.ErrNotFound, ErrCustomerNotFound)
		}
		observability.L().Error("balances query failed", "layer", "repo", "component", "ledger", "repo", "MongoRepository", "method", "Balances", "customer_id", customerID, "err", err)
		return nil, classifyMongo(err)
	}
	if doc.Balances == nil {
		doc.Balances = make(map[string]int64)
	}
	return doc.Balances, nil
}

func (r *MongoRepository) Debit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	path := "balances." + bucket
	var doc customerDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"customer_id": customerID, path: bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{path: -amount}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrInsufficientFunds
		}
		observability.L().Error("debit failed", "layer", "repo", "component", "ledger", "repo", "MongoRepository", "method", "Debit", "customer_id", customerID, "bucket", bucket, "amount", amount, "err", err)
		return 0, classifyMongo(err)
	}
	return doc.Balances[bucket], nil
}

func (r *MongoRepository) Credit(ctx context.Context, customerID, bucket string, amount int64) (int64, error) {
	path := "balances." + bucket
	var doc customerDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"customer_id": customerID},
		bson.M{"$inc": bson.M{path: amount}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, errors.Join(db.ErrNotFound, ErrCustomerNotFound)
		}
		observability.L().Error("credit failed", "layer", "repo", "component", "ledger", "repo", "MongoRepository", "method", "Credit", "customer_id", customerID, "bucket", bucket, "amount", amount, "err", err)
		return 0, classifyMongo(err)
	}
	return doc.Balances[bucket], nil
}

func classifyMongo(err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(db.ErrConflict, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, context.DeadlineExceeded):
		return errors.Join(db.ErrUnavailable, err)
	default:
		return errors.Join(db.ErrInternal, err)
	}
}
