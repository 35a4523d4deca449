package mongodb

import (
	// Go Internal Packages
	"context"

	// Local Packages
	errors "payguard/errors"
	models "payguard/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TransactionsRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewTransactionsRepository(client *mongo.Client, database string) *TransactionsRepository {
	return &TransactionsRepository{client: client, database: database, collection: "transactions"}
}

func (r *TransactionsRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// Exists reports whether a terminal record is already present for the
// fingerprint. Store failures are surfaced, never treated as "not a
// duplicate".
func (r *TransactionsRepository) Exists(ctx context.Context, fingerprint string) (bool, error) {
	err := r.coll().FindOne(ctx, bson.M{"_id": fingerprint}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, errors.StoreUnavailableErr(err)
	}
	return true, nil
}

// Record inserts the terminal decision for a fingerprint. The _id unique
// index makes the insert atomic across concurrent callers: at most one insert
// per fingerprint ever succeeds, the rest get a Conflict.
func (r *TransactionsRepository) Record(ctx context.Context, record models.TransactionRecord) error {
	_, err := r.coll().InsertOne(ctx, record)
	if mongo.IsDuplicateKeyError(err) {
		return errors.DuplicateTransactionErr(record.Fingerprint)
	}
	if err != nil {
		return errors.StoreUnavailableErr(err)
	}
	return nil
}

// Get retrieves the record for a fingerprint.
func (r *TransactionsRepository) Get(ctx context.Context, fingerprint string) (models.TransactionRecord, error) {
	var record models.TransactionRecord
	err := r.coll().FindOne(ctx, bson.M{"_id": fingerprint}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return models.TransactionRecord{}, errors.E(errors.NotFound, "transaction not found")
	}
	if err != nil {
		return models.TransactionRecord{}, errors.StoreUnavailableErr(err)
	}
	return record, nil
}
