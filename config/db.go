package config

import (
	"context"
	"fmt"
	"time"

	"healthtracker/services"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is an opened record store together with its migration hook and
// the function releasing its connections.
type Store interface {
	services.RecordStore
	services.Migrator
}

// OpenStore connects to the configured backend. The returned close
// function must be called on shutdown.
func OpenStore(ctx context.Context, cfg *Config, log *zap.Logger) (Store, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case DriverMongo:
		return openMongo(ctx, cfg, log)
	default:
		return openPostgres(cfg, log)
	}
}

func openPostgres(cfg *Config, log *zap.Logger) (Store, func(context.Context) error, error) {
	gormCfg := &gorm.Config{}
	if !cfg.IsDevelopment() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gormCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("connected to postgres", zap.String("host", cfg.DBHost), zap.Int("port", cfg.DBPort), zap.String("db", cfg.DBName))

	closeFn := func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return services.NewGormRecordStore(db), closeFn, nil
}

func openMongo(ctx context.Context, cfg *Config, log *zap.Logger) (Store, func(context.Context) error, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	log.Info("connected to mongo", zap.String("db", cfg.MongoDB), zap.String("collection", cfg.MongoCollection))

	coll := client.Database(cfg.MongoDB).Collection(cfg.MongoCollection)
	return services.NewMongoRecordStore(coll), client.Disconnect, nil
}
