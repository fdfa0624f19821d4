package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/config"
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:          "catalogctl",
	Short:        "Catalog locator operations tool",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		if err := config.Load(viper.GetString("catalog.config_path")); err != nil {
			cmd.PrintErrf("Warning: dùng catalog config mặc định: %v\n", err)
		}
		if viper.GetBool("verbose") {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "config/catalog.yaml", "catalog config file")
	flags.String("mongo-url", "mongodb://localhost:27017", "MongoDB connection URL")
	flags.String("database", "catalog_locator", "MongoDB database name")
	flags.String("meili-url", "http://localhost:7700", "Meilisearch host")
	flags.String("meili-key", "", "Meilisearch API key")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("catalog.config_path", flags.Lookup("config"))
	_ = viper.BindPFlag("mongo.url", flags.Lookup("mongo-url"))
	_ = viper.BindPFlag("mongo.database", flags.Lookup("database"))
	_ = viper.BindPFlag("meilisearch.url", flags.Lookup("meili-url"))
	_ = viper.BindPFlag("meilisearch.master_key", flags.Lookup("meili-key"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// connectMongo kết nối và ping MongoDB theo flag/env
func connectMongo(ctx context.Context) (*mongo.Database, func(), error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(viper.GetString("mongo.url")))
	if err != nil {
		return nil, nil, fmt.Errorf("không thể kết nối MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("không thể ping MongoDB: %w", err)
	}
	closeFn := func() { _ = client.Disconnect(context.Background()) }
	return client.Database(viper.GetString("mongo.database")), closeFn, nil
}
