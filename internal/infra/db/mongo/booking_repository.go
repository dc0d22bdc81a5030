package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainbooking "fractioncar/internal/domain/booking"
	domainrange "fractioncar/internal/domain/shared/daterange"
	"fractioncar/internal/domain/shared/faults"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) ByID(ctx context.Context, id string) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("mongo: booking %s: %w", id, faults.ErrNotFound)
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *domainbooking.Booking) error {
	_, err := r.col.InsertOne(ctx, newBookingDocument(b))
	return err
}

func (r *BookingRepository) Update(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mongo: booking %s: %w", b.ID, faults.ErrNotFound)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("mongo: booking %s: %w", id, faults.ErrNotFound)
	}
	return nil
}

func (r *BookingRepository) ListByCar(ctx context.Context, carID string) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"car_id": carID})
}

func (r *BookingRepository) ListAcceptedByCar(ctx context.Context, carID string) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"car_id": carID, "status": string(domainbooking.StatusAccepted)})
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var bookings []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		bookings = append(bookings, doc.toEntity())
	}
	return bookings, cur.Err()
}

type bookingDocument struct {
	ID              string        `bson:"_id"`
	CarID           string        `bson:"car_id"`
	UserID          string        `bson:"user_id"`
	Range           rangeDocument `bson:"range"`
	Status          string        `bson:"status"`
	CreatedBy       string        `bson:"created_by"`
	StatusChangedBy string        `bson:"status_changed_by,omitempty"`
	StatusChangedAt int64         `bson:"status_changed_at,omitempty"`
	CreatedAt       int64         `bson:"created_at"`
	UpdatedAt       int64         `bson:"updated_at"`
}

type rangeDocument struct {
	From int64 `bson:"from"`
	To   int64 `bson:"to"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:              b.ID,
		CarID:           b.CarID,
		UserID:          b.UserID,
		Range:           rangeDocument{From: b.Range.From.UnixMilli(), To: b.Range.To.UnixMilli()},
		Status:          string(b.Status),
		CreatedBy:       b.CreatedBy,
		StatusChangedBy: b.StatusChangedBy,
		StatusChangedAt: b.StatusChangedAt.UnixMilli(),
		CreatedAt:       b.CreatedAt.UnixMilli(),
		UpdatedAt:       b.UpdatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toEntity() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:              d.ID,
		CarID:           d.CarID,
		UserID:          d.UserID,
		Range:           domainrange.DateRange{From: timestampToTime(d.Range.From), To: timestampToTime(d.Range.To)},
		Status:          domainbooking.Status(d.Status),
		CreatedBy:       d.CreatedBy,
		StatusChangedBy: d.StatusChangedBy,
		StatusChangedAt: timestampToTime(d.StatusChangedAt),
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
	}
}
