package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/edumanage/core/class"
)

type classRepository struct {
	col *mongo.Collection
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *mongo.Database) class.Repository {
	return &classRepository{col: db.Collection(classesCollection)}
}

func (repo *classRepository) CreateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	cls.ID = primitive.NewObjectID()
	if _, err := repo.col.InsertOne(ctx, cls); err != nil {
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo *classRepository) query(ctx context.Context, filter bson.M) ([]class.Class, error) {
	cur, err := repo.col.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	var classes []class.Class
	if err = cur.All(ctx, &classes); err != nil {
		return nil, errors.Wrap(err, "decoding classes")
	}
	return classes, nil
}

func (repo *classRepository) QueryAllClasses(ctx context.Context) ([]class.Class, error) {
	return repo.query(ctx, bson.M{})
}

func (repo *classRepository) FilterClassesByStatus(ctx context.Context, status string) ([]class.Class, error) {
	return repo.query(ctx, bson.M{"status": status})
}

func (repo *classRepository) FilterClassesByTeacher(ctx context.Context, email string) ([]class.Class, error) {
	return repo.query(ctx, bson.M{"teacher_email": email})
}

func (repo *classRepository) GetClassByID(ctx context.Context, id string) (class.Class, error) {
	oid, ok := objectID(id)
	if !ok {
		return class.Class{}, class.ErrNotFound
	}
	var cls class.Class
	if err := repo.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&cls); err != nil {
		if err == mongo.ErrNoDocuments {
			return class.Class{}, class.ErrNotFound
		}
		return class.Class{}, errors.Wrap(err, "finding class by id")
	}
	return cls, nil
}

func (repo *classRepository) UpdateClassStatus(ctx context.Context, id, from, to string) error {
	oid, ok := objectID(id)
	if !ok {
		return class.ErrNotFound
	}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}}
	res, err := repo.col.UpdateOne(ctx, bson.M{"_id": oid, "status": from}, update)
	if err != nil {
		return errors.Wrap(err, "updating class status")
	}
	if res.MatchedCount == 0 {
		return class.ErrNotFound
	}
	return nil
}

func (repo *classRepository) AddClassAssignment(ctx context.Context, id string, a class.Assignment) error {
	oid, ok := objectID(id)
	if !ok {
		return class.ErrNotFound
	}
	update := bson.M{
		"$push": bson.M{"assignments": a},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := repo.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return errors.Wrap(err, "adding class assignment")
	}
	if res.MatchedCount == 0 {
		return class.ErrNotFound
	}
	return nil
}

// IncrementClassEnroll relies on the store's atomic $inc; two concurrent
// enrollments on the same class are both counted.
func (repo *classRepository) IncrementClassEnroll(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return class.ErrNotFound
	}
	update := bson.M{
		"$inc": bson.M{"enroll": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := repo.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return errors.Wrap(err, "incrementing class enroll")
	}
	if res.ModifiedCount == 0 {
		return errors.New("class enroll update lost")
	}
	return nil
}
