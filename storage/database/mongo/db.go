package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/trezcool/edumanage/core"
)

// collections
const (
	usersCollection       = "users"
	classesCollection     = "classes"
	teacherReqsCollection = "teacher_requests"
	paymentsCollection    = "payments"
)

const connectTimeout = 10 * time.Second

// Open connects to the configured database and pings it. The returned close
// func must be called on shutdown.
func Open(conf *core.Config) (*mongo.Database, func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to mongo")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, nil, errors.Wrap(err, "pinging mongo")
	}
	return client.Database(conf.Database.Name), client.Disconnect, nil
}

// objectID parses a hex id; unparsable ids behave as absent documents so each
// repository can map them to its own not-found error.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}
