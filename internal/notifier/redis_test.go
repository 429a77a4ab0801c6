//go:build integration

package notifier

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/celidone/customers/internal/model"
	"github.com/go-redis/redis/v9"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

const (
	redisContainerName = "redis-notifier-test-customers"
	redisPort          = "6380"
	testChannel        = "customers-events-test"
)

func TestRedisNotifier(t *testing.T) {
	dockerPool, err := dockertest.NewPool("")
	require.NoError(t, err, "failed to create pool")
	require.NoError(t, dockerPool.Client.Ping(), "failed to connect to docker")

	t.Log("starting redis container...")
	container, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       redisContainerName,
		Repository: "redis",
		Tag:        "latest",
		PortBindings: map[docker.Port][]docker.PortBinding{
			"6379/tcp": {{HostIP: "localhost", HostPort: fmt.Sprintf("%s/tcp", redisPort)}},
		},
	})
	require.NoError(t, err, "failed to start redis")
	t.Cleanup(func() {
		if err := dockerPool.Purge(container); err != nil {
			t.Logf("failed to purge redis container - %v", err)
		}
	})

	var client *redis.Client
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		client = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("localhost:%s", redisPort)})
		return client.Ping(ctx).Err()
	})
	require.NoError(t, err, "failed to establish connection to redis")
	defer client.Close()

	n := NewRedisNotifier(client, testChannel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := n.Subscribe(ctx)
	require.NoError(t, err, "failed to subscribe")

	t.Log("published events are received in order")
	{
		at := time.Date(2024, time.June, 10, 12, 30, 0, 0, time.UTC)
		c := &model.Customer{ID: "f1d5a0f6-0d4b-4a3e-9d1e-1bf35d0cfa11", Name: "Ana Souza", City: "Recife"}

		require.NoError(t, n.Broadcast(ctx, model.NewCustomerEvent(model.TopicCustomerCreated, c, at)))
		require.NoError(t, n.Broadcast(ctx, model.NewDeletedEvent(c.ID, at)))

		first := receive(t, events)
		require.Equal(t, model.TopicCustomerCreated, first.Topic)
		require.Equal(t, "Recife", first.Customer.City)
		require.True(t, at.Equal(first.OccurredAt), "occurrence time must survive encoding")

		second := receive(t, events)
		require.Equal(t, model.TopicCustomerDeleted, second.Topic)
		require.Nil(t, second.Customer)
	}

	t.Log("malformed message is skipped")
	{
		require.NoError(t, client.Publish(ctx, testChannel, "not msgpack").Err())
		require.NoError(t, n.Broadcast(ctx, model.NewDeletedEvent("8d0c9f7e-2f9e-4a7b-9f51-0c1d5b8c2e77", time.Now())))

		e := receive(t, events)
		require.Equal(t, "8d0c9f7e-2f9e-4a7b-9f51-0c1d5b8c2e77", e.CustomerID)
	}

	t.Log("channel is closed once subscription context is done")
	{
		cancel()
		require.Eventually(t, func() bool {
			_, ok := <-events
			return !ok
		}, 5*time.Second, 10*time.Millisecond)
	}
}

func receive(t *testing.T, events <-chan model.Event) model.Event {
	t.Helper()

	select {
	case e := <-events:
		return e
	case <-time.After(5 * time.Second):
		require.FailNow(t, "event wasn't received in time")
		return model.Event{}
	}
}
