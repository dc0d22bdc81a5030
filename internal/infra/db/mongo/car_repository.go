package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincar "fractioncar/internal/domain/car"
	"fractioncar/internal/domain/shared/faults"
)

type CarRepository struct {
	col *mongo.Collection
}

func NewCarRepository(db *mongo.Database) *CarRepository {
	return &CarRepository{col: db.Collection("cars")}
}

func (r *CarRepository) ByID(ctx context.Context, id string) (*domaincar.Car, error) {
	var doc carDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("mongo: car %s: %w", id, faults.ErrNotFound)
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *CarRepository) List(ctx context.Context) ([]*domaincar.Car, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var cars []*domaincar.Car
	for cur.Next(ctx) {
		var doc carDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		cars = append(cars, doc.toEntity())
	}
	return cars, cur.Err()
}

func (r *CarRepository) Save(ctx context.Context, c *domaincar.Car) error {
	doc := newCarDocument(c)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

// DecrementResource is a single findAndModify guarded by a positive-count
// filter, so the exhaustion check and the decrement cannot interleave with a
// concurrent purchase.
func (r *CarRepository) DecrementResource(ctx context.Context, id string, res domaincar.Resource) (*domaincar.Car, error) {
	field := resourceField(res)
	filter := bson.M{"_id": id, field: bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{field: -1},
		"$set": bson.M{"updated_at": time.Now().UnixMilli()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc carDocument
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, lookupErr := r.ByID(ctx, id); lookupErr != nil {
				return nil, lookupErr
			}
			return nil, fmt.Errorf("mongo: car %s has no %s left: %w", id, res, faults.ErrExhausted)
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// IncrementResource gives one token back, clamped at the pool maximum. An
// increment against a full pool matches nothing and the current document is
// returned unchanged.
func (r *CarRepository) IncrementResource(ctx context.Context, id string, res domaincar.Resource) (*domaincar.Car, error) {
	field := resourceField(res)
	filter := bson.M{"_id": id, field: bson.M{"$lt": res.Max()}}
	update := bson.M{
		"$inc": bson.M{field: 1},
		"$set": bson.M{"updated_at": time.Now().UnixMilli()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc carDocument
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return r.ByID(ctx, id)
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *CarRepository) SetStopBookings(ctx context.Context, id string, stop bool) error {
	update := bson.M{"$set": bson.M{"stop_bookings": stop, "updated_at": time.Now().UnixMilli()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mongo: car %s: %w", id, faults.ErrNotFound)
	}
	return nil
}

func resourceField(res domaincar.Resource) string {
	if res == domaincar.ResourceBookNow {
		return "book_now_tokens"
	}
	return "waitlist_tokens"
}

type carDocument struct {
	ID             string `bson:"_id"`
	Name           string `bson:"name"`
	WaitlistTokens int    `bson:"waitlist_tokens"`
	BookNowTokens  int    `bson:"book_now_tokens"`
	StopBookings   bool   `bson:"stop_bookings"`
	ContractYears  int    `bson:"contract_years"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
}

func newCarDocument(c *domaincar.Car) carDocument {
	return carDocument{
		ID:             c.ID,
		Name:           c.Name,
		WaitlistTokens: c.WaitlistTokens,
		BookNowTokens:  c.BookNowTokens,
		StopBookings:   c.StopBookings,
		ContractYears:  c.ContractYears,
		CreatedAt:      c.CreatedAt.UnixMilli(),
		UpdatedAt:      c.UpdatedAt.UnixMilli(),
	}
}

func (d carDocument) toEntity() *domaincar.Car {
	return &domaincar.Car{
		ID:             d.ID,
		Name:           d.Name,
		WaitlistTokens: d.WaitlistTokens,
		BookNowTokens:  d.BookNowTokens,
		StopBookings:   d.StopBookings,
		ContractYears:  d.ContractYears,
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
	}
}
