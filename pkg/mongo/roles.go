package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/pawpremium/pkg/admin"
)

// RoleStore implements admin.RoleStore on the roles collection.
type RoleStore struct {
	coll *mongo.Collection
}

var _ admin.RoleStore = (*RoleStore)(nil)

// NewRoleStore creates a role store on db.
func NewRoleStore(db *mongo.Database) *RoleStore {
	return &RoleStore{coll: db.Collection(RolesCollection)}
}

func (s *RoleStore) GetRole(ctx context.Context, email string) (*admin.Role, error) {
	var role admin.Role
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: admin.NormalizeEmail(email)}}).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, admin.ErrRoleNotFound
		}
		return nil, errors.Join(ErrStoreOperation, err)
	}
	return &role, nil
}

func (s *RoleStore) SetRole(ctx context.Context, role admin.Role) error {
	role.Email = admin.NormalizeEmail(role.Email)
	if role.Email == "" {
		return admin.ErrInvalidRole
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: role.Email}},
		role,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrStoreOperation, err)
	}
	return nil
}
