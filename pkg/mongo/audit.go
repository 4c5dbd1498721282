package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/pawpremium/pkg/audit"
)

// AuditStorage implements audit.Storage and audit.Querier on the audit_events collection.
type AuditStorage struct {
	coll *mongo.Collection
}

var (
	_ audit.Storage = (*AuditStorage)(nil)
	_ audit.Querier = (*AuditStorage)(nil)
)

// NewAuditStorage creates an audit storage on db.
func NewAuditStorage(db *mongo.Database) *AuditStorage {
	return &AuditStorage{coll: db.Collection(AuditCollection)}
}

func (s *AuditStorage) Store(ctx context.Context, event audit.Event) error {
	if _, err := s.coll.InsertOne(ctx, event); err != nil {
		return errors.Join(audit.ErrStorageNotAvailable, err)
	}
	return nil
}

func (s *AuditStorage) Query(ctx context.Context, criteria audit.Criteria) ([]audit.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if criteria.Limit > 0 {
		opts.SetLimit(int64(criteria.Limit))
	}

	cur, err := s.coll.Find(ctx, auditFilter(criteria), opts)
	if err != nil {
		return nil, errors.Join(audit.ErrStorageNotAvailable, err)
	}

	var events []audit.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, errors.Join(audit.ErrStorageNotAvailable, err)
	}
	return events, nil
}

func auditFilter(c audit.Criteria) bson.D {
	filter := bson.D{}
	if c.Action != "" {
		filter = append(filter, bson.E{Key: "action", Value: c.Action})
	}
	if c.UserID != "" {
		filter = append(filter, bson.E{Key: "userId", Value: c.UserID})
	}
	if c.ResourceID != "" {
		filter = append(filter, bson.E{Key: "resourceId", Value: c.ResourceID})
	}
	return filter
}
