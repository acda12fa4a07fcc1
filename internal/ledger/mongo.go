package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aditya13-hue/zup/internal/domain"
)

const defaultOpTimeout = 5 * time.Second

// Connect establishes a MongoDB connection with sane pool settings and
// verifies it with a ping.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

// wrapErr translates driver-level failures into the ledger error taxonomy.
// Timeouts and network failures surface as ErrUnavailable, never ErrNotFound.
func wrapErr(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultOpTimeout)
}

// MongoTransactionLedger implements TransactionLedger over the
// "transactions" collection.
type MongoTransactionLedger struct {
	coll *mongo.Collection
}

func NewMongoTransactionLedger(db *mongo.Database) *MongoTransactionLedger {
	return &MongoTransactionLedger{coll: db.Collection("transactions")}
}

func (m *MongoTransactionLedger) Create(ctx context.Context, tx *domain.Transaction) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := m.coll.InsertOne(ctx, tx); err != nil {
		return wrapErr("insert transaction", err)
	}
	return nil
}

func (m *MongoTransactionLedger) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var tx domain.Transaction
	if err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&tx); err != nil {
		return nil, wrapErr("get transaction", err)
	}
	return &tx, nil
}

func (m *MongoTransactionLedger) MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	filter := bson.M{"_id": id, "status": domain.TxStatusPending}
	update := bson.M{"$set": bson.M{
		"status":     domain.TxStatusPaid,
		"payment_id": paymentID,
		"paid_at":    paidAt,
	}}

	result, err := m.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return wrapErr("mark transaction paid", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// No pending record matched: either the transaction is unknown or
	// another confirmation already won the race.
	if err := m.coll.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		return wrapErr("mark transaction paid", err)
	}
	return ErrAlreadyPaid
}

func (m *MongoTransactionLedger) List(ctx context.Context) ([]*domain.Transaction, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapErr("list transactions", err)
	}
	defer cursor.Close(ctx)

	var txs []*domain.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, wrapErr("list transactions", err)
	}
	return txs, nil
}

// MongoProductLedger implements ProductLedger over the "products"
// collection, keyed by barcode.
type MongoProductLedger struct {
	coll *mongo.Collection
}

func NewMongoProductLedger(db *mongo.Database) *MongoProductLedger {
	return &MongoProductLedger{coll: db.Collection("products")}
}

func (m *MongoProductLedger) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var p domain.Product
	if err := m.coll.FindOne(ctx, bson.M{"_id": barcode}).Decode(&p); err != nil {
		return nil, wrapErr("get product", err)
	}
	return &p, nil
}

func (m *MongoProductLedger) List(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := m.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, wrapErr("list products", err)
	}
	return products, nil
}

func (m *MongoProductLedger) Upsert(ctx context.Context, p *domain.Product) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	filter := bson.M{"_id": p.Barcode}
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"price_minor": p.PriceMinor,
		"image":       p.Image,
		"description": p.Description,
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return wrapErr("upsert product", err)
	}
	return nil
}

func (m *MongoProductLedger) Delete(ctx context.Context, barcode string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	result, err := m.coll.DeleteOne(ctx, bson.M{"_id": barcode})
	if err != nil {
		return wrapErr("delete product", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoStoreLedger implements StoreLedger over the "stores" collection.
type MongoStoreLedger struct {
	coll *mongo.Collection
}

func NewMongoStoreLedger(db *mongo.Database) *MongoStoreLedger {
	return &MongoStoreLedger{coll: db.Collection("stores")}
}

func (m *MongoStoreLedger) Get(ctx context.Context, id string) (*domain.Store, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var s domain.Store
	if err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, wrapErr("get store", err)
	}
	return &s, nil
}

func (m *MongoStoreLedger) List(ctx context.Context) ([]*domain.Store, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := m.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, wrapErr("list stores", err)
	}
	defer cursor.Close(ctx)

	var stores []*domain.Store
	if err := cursor.All(ctx, &stores); err != nil {
		return nil, wrapErr("list stores", err)
	}
	return stores, nil
}

// Upsert provisions a store record (used by cmd/seed).
func (m *MongoStoreLedger) Upsert(ctx context.Context, s *domain.Store) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	filter := bson.M{"_id": s.ID}
	update := bson.M{"$set": bson.M{
		"name":              s.Name,
		"address":           s.Address,
		"lat":               s.Lat,
		"lng":               s.Lng,
		"radius_m":          s.RadiusMeters,
		"payout_account_id": s.PayoutAccountID,
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return wrapErr("upsert store", err)
	}
	return nil
}
