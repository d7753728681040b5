package client

import (
	"context"
	"time"

	"calbook/pkg/logger"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/mongo"
)

const disconnectTimeout = 5 * time.Second

// Client holds the store connections opened for the configured driver. At
// most one of them is set.
type Client struct {
	Mongo *mongo.Client
	SQL   *bun.DB
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		} else {
			log.Info("Disconnected from MongoDB")
		}
	}
	if c.SQL != nil {
		if err := c.SQL.Close(); err != nil {
			log.Error("Failed to close SQL database", "error", err)
		} else {
			log.Info("Closed SQL database")
		}
	}
}
