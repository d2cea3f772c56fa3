package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kirana/db"
)

// Mongo is the MongoDB-backed Store. Every successful write reports the
// touched collection to the notifier so live queries refresh.
type Mongo struct {
	notifier Notifier
}

func NewMongo(n Notifier) *Mongo {
	return &Mongo{notifier: n}
}

func (m *Mongo) coll(name string) (*mongo.Collection, error) {
	c := db.Collection(name)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return c, nil
}

func (m *Mongo) notify(collection string) {
	if m.notifier != nil {
		m.notifier.Notify(collection)
	}
}

func (m *Mongo) Add(ctx context.Context, collection string, doc interface{}) (string, error) {
	c, err := m.coll(collection)
	if err != nil {
		return "", err
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return "", err
	}

	id := uuid.New().String()
	fields["_id"] = id
	if _, err := c.InsertOne(ctx, fields); err != nil {
		return "", err
	}
	m.notify(collection)
	return id, nil
}

func (m *Mongo) Set(ctx context.Context, collection, id string, doc interface{}) error {
	c, err := m.coll(collection)
	if err != nil {
		return err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts); err != nil {
		return err
	}
	m.notify(collection)
	return nil
}

func (m *Mongo) Update(ctx context.Context, collection, id string, fields Fields) error {
	c, err := m.coll(collection)
	if err != nil {
		return err
	}

	res, err := c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	m.notify(collection)
	return nil
}

func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	c, err := m.coll(collection)
	if err != nil {
		return err
	}

	if _, err := c.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	m.notify(collection)
	return nil
}

// BatchDelete issues a single DeleteMany over the listed ids, so the
// listed documents go as one unit or not at all.
func (m *Mongo) BatchDelete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	c, err := m.coll(collection)
	if err != nil {
		return err
	}

	if _, err := c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return err
	}
	m.notify(collection)
	return nil
}

func (m *Mongo) Get(ctx context.Context, collection string, q Query, out interface{}) error {
	c, err := m.coll(collection)
	if err != nil {
		return err
	}

	filter := bson.M{}
	for k, v := range q.Filter {
		filter[k] = v
	}

	opts := options.Find()
	if q.SortField != "" {
		dir := 1
		if q.SortDesc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.SortField, Value: dir}})
	}

	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (m *Mongo) Count(ctx context.Context, collection string) (int64, error) {
	c, err := m.coll(collection)
	if err != nil {
		return 0, err
	}
	return c.CountDocuments(ctx, bson.M{})
}
