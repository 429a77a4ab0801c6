package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/celidone/customers/internal/model"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	customersDatabase   = "customers"
	customersCollection = "customers"
)

type mongoCustomerRepository struct {
	collection *mongo.Collection
}

func NewMongoCustomerRepository(client *mongo.Client) CustomerRepository {
	return &mongoCustomerRepository{collection: client.Database(customersDatabase).Collection(customersCollection)}
}

// EnsureMongoIndexes creates indexes backing uniqueness checks and statistics
func EnsureMongoIndexes(ctx context.Context, client *mongo.Client) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.D{
				{Key: "email", Value: bson.D{{Key: "$gt", Value: ""}}},
			}),
		},
		{Keys: bson.D{{Key: "organizationId", Value: 1}}},
		{Keys: bson.D{{Key: "registeredAt", Value: -1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
	}

	_, err := client.Database(customersDatabase).Collection(customersCollection).Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *mongoCustomerRepository) FindAll(ctx context.Context, spec model.PageSpec) (*model.CustomerPage, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(recentFirstSort()).
		SetSkip(int64(spec.Offset())).
		SetLimit(int64(spec.Size))

	customers, err := r.find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	return model.NewCustomerPage(customers, spec, total), nil
}

func (r *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *mongoCustomerRepository) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	saved := *c
	if saved.ID == "" {
		saved.ID = uuid.NewString()
		if _, err := r.collection.InsertOne(ctx, &saved); err != nil {
			return nil, err
		}
		return &saved, nil
	}

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": saved.ID}, &saved)
	if err != nil {
		return nil, err
	}

	if res.MatchedCount == 0 {
		return nil, nil
	}
	return &saved, nil
}

func (r *mongoCustomerRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	return nil
}

func (r *mongoCustomerRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, bson.M{"_id": id})
}

func (r *mongoCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	return r.exists(ctx, excluding(bson.M{"email": email}, excludeID))
}

func (r *mongoCustomerRepository) ExistsByOrganizationID(ctx context.Context, organizationID string, excludeID string) (bool, error) {
	return r.exists(ctx, excluding(bson.M{"organizationId": organizationID}, excludeID))
}

func (r *mongoCustomerRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

func (r *mongoCustomerRepository) CountByRegisteredAtBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"registeredAt": bson.M{"$gte": from, "$lte": to}})
}

func (r *mongoCustomerRepository) CountByPersonType(ctx context.Context, pt model.PersonType) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"personType": pt})
}

func (r *mongoCustomerRepository) TopCityByCount(ctx context.Context) (string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "city", Value: bson.D{{Key: "$nin", Value: bson.A{"", nil}}}}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$city"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: 1}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return "", err
	}
	defer cursor.Close(ctx)

	var top []struct {
		City  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &top); err != nil {
		return "", err
	}

	if len(top) == 0 {
		return "", nil
	}
	return top[0].City, nil
}

func (r *mongoCustomerRepository) CountByCity(ctx context.Context, city string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"city": city})
}

func (r *mongoCustomerRepository) Search(ctx context.Context, term string) ([]*model.Customer, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"email": pattern},
	}}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *mongoCustomerRepository) RecentFirst(ctx context.Context, n int) ([]*model.Customer, error) {
	opts := options.Find().SetSort(recentFirstSort()).SetLimit(int64(n))
	return r.find(ctx, bson.D{}, opts)
}

func (r *mongoCustomerRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *mongoCustomerRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]*model.Customer, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := make([]*model.Customer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func excluding(filter bson.M, excludeID string) bson.M {
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

func recentFirstSort() bson.D {
	return bson.D{{Key: "registeredAt", Value: -1}, {Key: "_id", Value: 1}}
}
