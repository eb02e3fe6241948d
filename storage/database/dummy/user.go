package dummydb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/edumanage/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.users}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.ID = primitive.NewObjectID()
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.User{}, user.ErrNotFound
	}
	if usr, ok := repo.db.table[oid]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) SetUserRole(_ context.Context, id, role string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.ErrNotFound
	}
	usr, ok := repo.db.table[oid]
	if !ok {
		return user.ErrNotFound
	}
	usr.Role = role
	usr.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *userRepository) DeleteUserByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.ErrNotFound
	}
	if _, ok := repo.db.table[oid]; !ok {
		return user.ErrNotFound
	}
	delete(repo.db.table, oid)
	return nil
}
