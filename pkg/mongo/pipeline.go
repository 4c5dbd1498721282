package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
)

// mergePipeline builds the update pipeline for one Merge.
//
// Patched values are wrapped in $literal so strings that start with "$"
// are never read as field paths. The projection mirrors
// entitlement.ProjectPremium.
func mergePipeline(patch entitlement.Patch, now time.Time) mongo.Pipeline {
	set := bson.D{}
	for _, f := range patch.Fields() {
		set = append(set, bson.E{Key: f.Path, Value: bson.D{{Key: "$literal", Value: f.Value}}})
	}

	project := bson.D{
		{Key: entitlement.FieldIsPremium, Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$" + entitlement.FieldAdminGrantedPremium, true}}},
			bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$" + entitlement.FieldTrialActive, true}}},
				bson.D{{Key: "$gt", Value: bson.A{"$" + entitlement.FieldTrialEndDate, now}}},
			}}},
			bson.D{{Key: "$eq", Value: bson.A{"$subscription.status", string(entitlement.StatusActive)}}},
		}}}},
		{Key: entitlement.FieldCreatedAt, Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + entitlement.FieldCreatedAt, now}}}},
		{Key: entitlement.FieldUpdatedAt, Value: now},
	}

	return mongo.Pipeline{
		{{Key: "$set", Value: set}},
		{{Key: "$set", Value: project}},
	}
}
