package transactor

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoTransactor struct {
	client *mongo.Client
}

// NewMongoTransactor builds transactor backed by mongo sessions, requires replica set deployment
func NewMongoTransactor(client *mongo.Client) Transactor {
	return &mongoTransactor{client: client}
}

func (t *mongoTransactor) WithinTransaction(ctx context.Context, txFunc func(context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return txFunc(ctx)
	}

	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session - %w", err)
	}
	defer sess.EndSession(ctx)

	txCtx, hooks := WithCommitHooks(ctx)

	_, err = sess.WithTransaction(txCtx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		hooks.reset() // transaction may be retried
		return nil, txFunc(sessCtx)
	})
	if err != nil {
		return err
	}

	hooks.Run(ctx)
	return nil
}
