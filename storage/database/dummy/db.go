package dummydb

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/edumanage/core/class"
	"github.com/trezcool/edumanage/core/payment"
	"github.com/trezcool/edumanage/core/teacherreq"
	"github.com/trezcool/edumanage/core/user"
)

// DB is a mutex-guarded in-memory store used by handler tests.
type DB struct {
	users       *userTable
	classes     *classTable
	teacherReqs *teacherReqTable
	payments    *paymentTable
}

type (
	userTable struct {
		sync.RWMutex
		table map[primitive.ObjectID]*user.User
	}
	classTable struct {
		sync.RWMutex
		table map[primitive.ObjectID]*class.Class
	}
	teacherReqTable struct {
		sync.RWMutex
		table map[primitive.ObjectID]*teacherreq.Request
	}
	paymentTable struct {
		sync.RWMutex
		table map[primitive.ObjectID]*payment.Payment
	}
)

func Open() (*DB, error) {
	db := &DB{
		users:       &userTable{table: make(map[primitive.ObjectID]*user.User)},
		classes:     &classTable{table: make(map[primitive.ObjectID]*class.Class)},
		teacherReqs: &teacherReqTable{table: make(map[primitive.ObjectID]*teacherreq.Request)},
		payments:    &paymentTable{table: make(map[primitive.ObjectID]*payment.Payment)},
	}
	return db, nil
}
