package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/edumanage/core/user"
)

type userRepository struct {
	col *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{col: db.Collection(usersCollection)}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	err := repo.col.FindOne(ctx, bson.M{"email": email}).Err()
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	return user.ErrEmailExists
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = primitive.NewObjectID()
	if _, err := repo.col.InsertOne(ctx, usr); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	cur, err := repo.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	var users []user.User
	if err = cur.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decoding users")
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	var usr user.User
	if err := repo.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&usr); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user by id")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	if err := repo.col.FindOne(ctx, bson.M{"email": email}).Decode(&usr); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	return usr, nil
}

func (repo *userRepository) SetUserRole(ctx context.Context, id, role string) error {
	oid, ok := objectID(id)
	if !ok {
		return user.ErrNotFound
	}
	update := bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}}
	res, err := repo.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return errors.Wrap(err, "updating user role")
	}
	if res.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) DeleteUserByID(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return user.ErrNotFound
	}
	res, err := repo.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if res.DeletedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}
