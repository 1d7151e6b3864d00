package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notesaas/notes-api/internal/core/domain"
)

const collectionTenants = "tenants"

type TenantRepository struct {
	col *mongo.Collection
}

func NewTenantRepository(db *mongo.Database) *TenantRepository {
	return &TenantRepository{col: db.Collection(collectionTenants)}
}

func (r *TenantRepository) FindBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Tenant
	if err := r.col.FindOne(ctx, bson.M{"_id": slug}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUnknownTenant
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return &t, nil
}

// SetPlan updates the plan and returns the tenant as stored afterwards.
func (r *TenantRepository) SetPlan(ctx context.Context, slug string, plan domain.Plan) (*domain.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Tenant
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": slug},
		bson.M{"$set": bson.M{"plan": string(plan)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUnknownTenant
		}
		return nil, fmt.Errorf("set tenant plan: %w", err)
	}
	return &t, nil
}

// Seed inserts missing tenants. Plans of existing tenants are left alone.
func (r *TenantRepository) Seed(ctx context.Context, tenants []domain.Tenant) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, t := range tenants {
		_, err := r.col.UpdateOne(ctx,
			bson.M{"_id": t.Slug},
			bson.M{"$setOnInsert": bson.M{"name": t.Name, "plan": string(t.Plan)}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed tenant %s: %w", t.Slug, err)
		}
	}
	return nil
}
