package database

import (
	"context"
	"fmt"
	"time"

	"github.com/aknur111/blog-web-site/internal/pkg/config"
	"github.com/aknur111/blog-web-site/pkg/logger"
	"github.com/aknur111/blog-web-site/pkg/metrics"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// InitMongo 初始化 MongoDB 客户端
// Connect 不会真正建立连接，连接失败只会在 Ping 或后续请求中暴露
func InitMongo(cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetAppName("blog-web-site").
		SetPoolMonitor(NewPoolMonitor(metrics.GetGlobalCollector(), int64(cfg.MaxPoolSize)).Monitor())

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	logger.Log.Info("mongo client configured",
		zap.String("database", cfg.Database),
		zap.Uint64("max_pool_size", cfg.MaxPoolSize),
		zap.Duration("connect_timeout", cfg.ConnectTimeout),
	)
	return client, nil
}

// Ping checks the primary and records the result in the store_up gauge.
func Ping(ctx context.Context, client *mongo.Client) error {
	start := time.Now()
	err := client.Ping(ctx, readpref.Primary())
	collector := metrics.GetGlobalCollector()
	collector.RecordDBQuery("ping", "admin", time.Since(start), err == nil)
	collector.SetStoreUp(err == nil)
	return err
}

// Disconnect 关闭连接池
func Disconnect(ctx context.Context, client *mongo.Client) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		logger.Log.Warn("mongo disconnect failed", zap.Error(err))
		return
	}
	logger.Log.Info("mongo client disconnected")
}
