package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/edumanage/core/teacherreq"
)

type teacherReqRepository struct {
	col *mongo.Collection
}

var _ teacherreq.Repository = (*teacherReqRepository)(nil) // interface compliance check

func NewTeacherRequestRepository(db *mongo.Database) teacherreq.Repository {
	return &teacherReqRepository{col: db.Collection(teacherReqsCollection)}
}

func (repo *teacherReqRepository) CreateRequest(ctx context.Context, req teacherreq.Request) (teacherreq.Request, error) {
	req.ID = primitive.NewObjectID()
	if _, err := repo.col.InsertOne(ctx, req); err != nil {
		return teacherreq.Request{}, errors.Wrap(err, "inserting teacher request")
	}
	return req, nil
}

func (repo *teacherReqRepository) QueryAllRequests(ctx context.Context) ([]teacherreq.Request, error) {
	cur, err := repo.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying teacher requests")
	}
	var reqs []teacherreq.Request
	if err = cur.All(ctx, &reqs); err != nil {
		return nil, errors.Wrap(err, "decoding teacher requests")
	}
	return reqs, nil
}

func (repo *teacherReqRepository) GetRequestByID(ctx context.Context, id string) (teacherreq.Request, error) {
	oid, ok := objectID(id)
	if !ok {
		return teacherreq.Request{}, teacherreq.ErrNotFound
	}
	var req teacherreq.Request
	if err := repo.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&req); err != nil {
		if err == mongo.ErrNoDocuments {
			return teacherreq.Request{}, teacherreq.ErrNotFound
		}
		return teacherreq.Request{}, errors.Wrap(err, "finding teacher request by id")
	}
	return req, nil
}

func (repo *teacherReqRepository) GetRequestByEmail(ctx context.Context, email string) (teacherreq.Request, error) {
	opts := options.FindOne().SetSort(bson.M{"created_at": -1})
	var req teacherreq.Request
	if err := repo.col.FindOne(ctx, bson.M{"email": email}, opts).Decode(&req); err != nil {
		if err == mongo.ErrNoDocuments {
			return teacherreq.Request{}, teacherreq.ErrNotFound
		}
		return teacherreq.Request{}, errors.Wrap(err, "finding teacher request by email")
	}
	return req, nil
}

func (repo *teacherReqRepository) UpdateRequestStatus(ctx context.Context, id, status, role string) error {
	oid, ok := objectID(id)
	if !ok {
		return teacherreq.ErrNotFound
	}
	set := bson.M{"status": status, "updated_at": time.Now().UTC()}
	if role != "" {
		set["role"] = role
	}
	res, err := repo.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(err, "updating teacher request status")
	}
	if res.MatchedCount == 0 {
		return teacherreq.ErrNotFound
	}
	return nil
}
