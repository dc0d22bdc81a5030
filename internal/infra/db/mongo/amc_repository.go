package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainamc "fractioncar/internal/domain/amc"
	"fractioncar/internal/domain/shared/faults"
)

type AMCRepository struct {
	col *mongo.Collection
}

func NewAMCRepository(db *mongo.Database) *AMCRepository {
	return &AMCRepository{col: db.Collection("amcs")}
}

func (r *AMCRepository) ByID(ctx context.Context, id string) (*domainamc.AMC, error) {
	var doc amcDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("mongo: amc %s: %w", id, faults.ErrNotFound)
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *AMCRepository) List(ctx context.Context) ([]*domainamc.AMC, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var records []*domainamc.AMC
	for cur.Next(ctx) {
		var doc amcDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, doc.toEntity())
	}
	return records, cur.Err()
}

func (r *AMCRepository) Save(ctx context.Context, a *domainamc.AMC) error {
	doc := newAMCDocument(a)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

type amcDocument struct {
	ID           string                `bson:"_id"`
	UserID       string                `bson:"user_id"`
	CarID        string                `bson:"car_id"`
	TicketID     string                `bson:"ticket_id"`
	Installments []installmentDocument `bson:"installments"`
	CreatedAt    int64                 `bson:"created_at"`
	UpdatedAt    int64                 `bson:"updated_at"`
}

type installmentDocument struct {
	Year                   int     `bson:"year"`
	Amount                 float64 `bson:"amount"`
	Paid                   bool    `bson:"paid"`
	DueDate                int64   `bson:"duedate"`
	PaidDate               *int64  `bson:"paiddate,omitempty"`
	Penalty                float64 `bson:"penality"`
	LastPenaltyCalculation *int64  `bson:"last_penalty_calculation,omitempty"`
}

func newAMCDocument(a *domainamc.AMC) amcDocument {
	doc := amcDocument{
		ID:        a.ID,
		UserID:    a.UserID,
		CarID:     a.CarID,
		TicketID:  a.TicketID,
		CreatedAt: a.CreatedAt.UnixMilli(),
		UpdatedAt: a.UpdatedAt.UnixMilli(),
	}
	for _, inst := range a.Installments {
		doc.Installments = append(doc.Installments, installmentDocument{
			Year:                   inst.Year,
			Amount:                 inst.Amount,
			Paid:                   inst.Paid,
			DueDate:                inst.DueDate.UnixMilli(),
			PaidDate:               optionalMilli(inst.PaidDate),
			Penalty:                inst.Penalty,
			LastPenaltyCalculation: optionalMilli(inst.LastPenaltyCalculation),
		})
	}
	return doc
}

func (d amcDocument) toEntity() *domainamc.AMC {
	a := &domainamc.AMC{
		ID:        d.ID,
		UserID:    d.UserID,
		CarID:     d.CarID,
		TicketID:  d.TicketID,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
	for _, inst := range d.Installments {
		a.Installments = append(a.Installments, domainamc.Installment{
			Year:                   inst.Year,
			Amount:                 inst.Amount,
			Paid:                   inst.Paid,
			DueDate:                timestampToTime(inst.DueDate),
			PaidDate:               optionalTime(inst.PaidDate),
			Penalty:                inst.Penalty,
			LastPenaltyCalculation: optionalTime(inst.LastPenaltyCalculation),
		})
	}
	return a
}

func optionalMilli(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func optionalTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := timestampToTime(*ms)
	return &t
}
