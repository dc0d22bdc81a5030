package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainblock "fractioncar/internal/domain/blockdate"
	domainrange "fractioncar/internal/domain/shared/daterange"
	"fractioncar/internal/domain/shared/faults"
)

type BlockedDateRepository struct {
	col *mongo.Collection
}

func NewBlockedDateRepository(db *mongo.Database) *BlockedDateRepository {
	return &BlockedDateRepository{col: db.Collection("blocked_dates")}
}

func (r *BlockedDateRepository) ByID(ctx context.Context, id string) (*domainblock.BlockedDate, error) {
	var doc blockedDateDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("mongo: blocked date %s: %w", id, faults.ErrNotFound)
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *BlockedDateRepository) Insert(ctx context.Context, b *domainblock.BlockedDate) error {
	_, err := r.col.InsertOne(ctx, newBlockedDateDocument(b))
	return err
}

func (r *BlockedDateRepository) Update(ctx context.Context, b *domainblock.BlockedDate) error {
	doc := newBlockedDateDocument(b)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mongo: blocked date %s: %w", b.ID, faults.ErrNotFound)
	}
	return nil
}

func (r *BlockedDateRepository) ListByCar(ctx context.Context, carID string) ([]*domainblock.BlockedDate, error) {
	return r.list(ctx, bson.M{"car_id": carID})
}

func (r *BlockedDateRepository) ListActiveByCar(ctx context.Context, carID string) ([]*domainblock.BlockedDate, error) {
	return r.list(ctx, bson.M{"car_id": carID, "is_active": true})
}

func (r *BlockedDateRepository) list(ctx context.Context, filter bson.M) ([]*domainblock.BlockedDate, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var blocks []*domainblock.BlockedDate
	for cur.Next(ctx) {
		var doc blockedDateDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		blocks = append(blocks, doc.toEntity())
	}
	return blocks, cur.Err()
}

type blockedDateDocument struct {
	ID        string        `bson:"_id"`
	CarID     string        `bson:"car_id"`
	Range     rangeDocument `bson:"range"`
	Reason    string        `bson:"reason"`
	IsActive  bool          `bson:"is_active"`
	CreatedBy string        `bson:"created_by"`
	CreatedAt int64         `bson:"created_at"`
	UpdatedAt int64         `bson:"updated_at"`
}

func newBlockedDateDocument(b *domainblock.BlockedDate) blockedDateDocument {
	return blockedDateDocument{
		ID:        b.ID,
		CarID:     b.CarID,
		Range:     rangeDocument{From: b.Range.From.UnixMilli(), To: b.Range.To.UnixMilli()},
		Reason:    b.Reason,
		IsActive:  b.IsActive,
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
	}
}

func (d blockedDateDocument) toEntity() *domainblock.BlockedDate {
	return &domainblock.BlockedDate{
		ID:        d.ID,
		CarID:     d.CarID,
		Range:     domainrange.DateRange{From: timestampToTime(d.Range.From), To: timestampToTime(d.Range.To)},
		Reason:    d.Reason,
		IsActive:  d.IsActive,
		CreatedBy: d.CreatedBy,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}
