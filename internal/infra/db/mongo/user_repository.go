package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fractioncar/internal/domain/shared/faults"
	domainuser "fractioncar/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

func (r *UserRepository) ByID(ctx context.Context, id string) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("mongo: user %s: %w", id, faults.ErrNotFound)
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) ListKYCPending(ctx context.Context) ([]*domainuser.User, error) {
	filter := bson.M{
		"kyc_status": string(domainuser.KYCPending),
		"status":     string(domainuser.StatusActive),
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []*domainuser.User
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, doc.toEntity())
	}
	return users, cur.Err()
}

type userDocument struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`
	KYCStatus string `bson:"kyc_status"`
	Status    string `bson:"status"`
	CreatedAt int64  `bson:"created_at"`
}

func (d userDocument) toEntity() *domainuser.User {
	return &domainuser.User{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		KYCStatus: domainuser.KYCStatus(d.KYCStatus),
		Status:    domainuser.AccountStatus(d.Status),
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
