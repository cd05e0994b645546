package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sniperthink/identity-service/internal/core/domain"
)

const loginHistoryCollection = "login_history"

// LoginRecordRepository appends and pages the immutable login audit trail.
type LoginRecordRepository struct {
	coll *mongo.Collection
}

func NewLoginRecordRepository(db *mongo.Database) *LoginRecordRepository {
	return &LoginRecordRepository{coll: db.Collection(loginHistoryCollection)}
}

type mongoLoginRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserEmail string             `bson:"user_email"`
	LoginType string             `bson:"login_type"`
	Timestamp int64              `bson:"timestamp"`
	IPAddress string             `bson:"ip_address,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty"`
}

func (r *LoginRecordRepository) Insert(ctx context.Context, record *domain.LoginRecord) error {
	doc := mongoLoginRecord{
		UserEmail: record.UserEmail,
		LoginType: record.LoginType,
		Timestamp: record.Timestamp.Unix(),
		IPAddress: record.IPAddress,
		UserAgent: record.UserAgent,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert login record: %w", err)
	}
	return nil
}

// List returns a page of records sorted newest first.
func (r *LoginRecordRepository) List(ctx context.Context, skip, limit int64) ([]domain.LoginRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list login records: %w", err)
	}
	defer cur.Close(ctx)

	var records []domain.LoginRecord
	for cur.Next(ctx) {
		var mr mongoLoginRecord
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode login record: %w", err)
		}
		records = append(records, domain.LoginRecord{
			ID:        mr.ID.Hex(),
			UserEmail: mr.UserEmail,
			LoginType: mr.LoginType,
			Timestamp: unixToTime(mr.Timestamp),
			IPAddress: mr.IPAddress,
			UserAgent: mr.UserAgent,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list login records: %w", err)
	}
	return records, nil
}
