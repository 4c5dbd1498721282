package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
)

// Store implements entitlement.Store on the users collection.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ entitlement.Store = (*Store)(nil)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreClock overrides the clock used for timestamps and the projection.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an entitlement store on db.
func NewStore(db *mongo.Database, opts ...StoreOption) *Store {
	s := &Store{
		coll: db.Collection(UsersCollection),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureIndexes creates the secondary indexes used by lookups.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: entitlement.FieldEmail, Value: 1}}},
		{Keys: bson.D{{Key: "subscription.id", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return errors.Join(ErrStoreOperation, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID string) (*entitlement.Record, error) {
	if userID == "" {
		return nil, entitlement.ErrEmptyUserID
	}

	var rec entitlement.Record
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entitlement.ErrRecordNotFound
		}
		return nil, errors.Join(entitlement.ErrStoreUnavailable, err)
	}
	return &rec, nil
}

func (s *Store) Merge(ctx context.Context, userID string, patch entitlement.Patch) (*entitlement.Record, error) {
	if userID == "" {
		return nil, entitlement.ErrEmptyUserID
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var rec entitlement.Record
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: userID}},
		mergePipeline(patch, s.now().UTC()),
		opts,
	).Decode(&rec)
	if err != nil {
		return nil, errors.Join(entitlement.ErrStoreUnavailable, err)
	}
	return &rec, nil
}

func (s *Store) Exists(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, entitlement.ErrEmptyUserID
	}

	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: userID}}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Join(entitlement.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}
