package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/config"
	"github.com/catalog-locator/app/controllers"
	"github.com/catalog-locator/app/services"
	"github.com/catalog-locator/internal/geocoder"
	"github.com/catalog-locator/internal/resolver"
	"github.com/catalog-locator/internal/search"
	"github.com/catalog-locator/routes"
)

func main() {
	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	loadConfig()

	// 2. Khởi tạo logger
	logger := initLogger()
	defer logger.Sync()

	if err := config.Load(viper.GetString("catalog.config_path")); err != nil {
		logger.Warn("Không đọc được catalog config, dùng mặc định", zap.Error(err))
	}
	logger.Info("Starting Catalog Locator Service",
		zap.String("catalog_source", config.C.Catalog.Source),
		zap.String("geocoder", config.C.Geocoder.Provider))

	// 3. Kết nối MongoDB khi cần
	var mongoDB *mongo.Database
	if config.C.Catalog.Source == "mongo" || config.C.Catalog.DatasetFile == "" {
		mongoDB = initMongoDB(logger)
		defer func() {
			if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
				logger.Error("Error disconnecting MongoDB", zap.Error(err))
			}
		}()
	}

	// 4. Dataset địa giới
	var locationSource services.LocationSource
	var locationStore services.LocationStore
	if path := config.C.Catalog.DatasetFile; path != "" {
		locationSource = &services.FileLocationSource{Path: path}
	} else {
		mongoSource := services.NewMongoLocationSource(mongoDB)
		locationSource = mongoSource
		locationStore = mongoSource
	}
	locationService := services.NewLocationService(locationSource, logger)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := locationService.Reload(loadCtx); err != nil {
		// /ready trả 503 cho đến khi admin reload thành công
		logger.Warn("Chưa load được location dataset", zap.Error(err))
	}
	cancelLoad()

	// 5. Geocoder + cache (memory L1, Redis L2 nếu có)
	geocodeService, gc := initGeocoder(logger)
	if geocodeService != nil {
		defer geocodeService.Close()
	}

	// 6. Catalog repository
	repo, counter := initBusinessRepository(logger, mongoDB)

	// 7. Khởi tạo services
	locationResolver := resolver.NewLocationResolver(config.ResolverOptions())
	catalogService := services.NewCatalogService(locationResolver, gc, repo, locationService, config.GeocodeTimeout(), logger)
	adminService := services.NewAdminService(locationStore, locationService, geocodeService, counter, logger)

	// 8. Khởi tạo controllers
	catalogController := controllers.NewCatalogController(catalogService, locationService, config.C.Catalog.DefaultLimit, logger)
	adminController := controllers.NewAdminController(adminService, logger)

	// 9. Khởi tạo Gin router
	if viper.GetString("app.env") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, catalogController, adminController, logger)

	// 10. Khởi động server
	port := viper.GetString("app.port")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Catalog Locator Service starting", zap.String("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

// loadConfig load configuration từ file và env vars
func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("mongo.url", "mongodb://localhost:27017/catalog_locator")
	viper.SetDefault("mongo.database", "catalog_locator")
	viper.SetDefault("redis.url", "")
	viper.SetDefault("meilisearch.url", "http://localhost:7700")
	viper.SetDefault("meilisearch.master_key", "")
	viper.SetDefault("catalog.config_path", "config/catalog.yaml")

	// MONGO_URL -> mongo.url, APP_PORT -> app.port
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}
}

// initLogger khởi tạo structured logger
func initLogger() *zap.Logger {
	var cfg zap.Config
	if viper.GetString("app.env") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	return logger
}

// initMongoDB khởi tạo kết nối MongoDB
func initMongoDB(logger *zap.Logger) *mongo.Database {
	mongoURL := viper.GetString("mongo.url")

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}

	dbName := viper.GetString("mongo.database")
	logger.Info("Connected to MongoDB", zap.String("database", dbName))
	return client.Database(dbName)
}

// initGeocoder dựng geocoder theo provider; "none" -> không geocode
func initGeocoder(logger *zap.Logger) (*services.GeocodeService, geocoder.ReverseGeocoder) {
	if config.C.Geocoder.Provider != "nominatim" {
		logger.Info("Reverse geocoding disabled", zap.String("provider", config.C.Geocoder.Provider))
		return nil, nil
	}

	provider := geocoder.NewNominatimClient(geocoder.NominatimConfig{
		BaseURL:   config.C.Geocoder.BaseURL,
		UserAgent: config.C.Geocoder.UserAgent,
		Language:  config.C.Geocoder.Language,
	}, logger)

	memory := services.NewMemoryGeocodeCache(config.C.Cache.MemorySize, config.MemoryTTL(), logger)
	var remote services.GeocodeCache
	if redisURL := viper.GetString("redis.url"); redisURL != "" {
		client, err := services.NewRedisClient(redisURL)
		if err != nil {
			logger.Warn("Redis không khả dụng, chỉ dùng memory cache", zap.Error(err))
		} else {
			remote = services.NewRedisGeocodeCache(client, config.RedisTTL(), logger)
		}
	}
	cache := services.NewHybridGeocodeCache(memory, remote, logger)

	svc := services.NewGeocodeService(provider, cache, config.C.Cache.RoundPrecision, logger)
	return svc, svc
}

// initBusinessRepository chọn nguồn catalog theo config
func initBusinessRepository(logger *zap.Logger, db *mongo.Database) (services.BusinessRepository, services.BusinessCounter) {
	if config.C.Catalog.Source == "meilisearch" {
		index, err := search.NewBusinessIndex(search.SearchConfig{
			Host:      viper.GetString("meilisearch.url"),
			APIKey:    viper.GetString("meilisearch.master_key"),
			IndexName: config.C.Catalog.MeiliIndex,
			MaxFetch:  config.C.Catalog.MaxFetch,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Meilisearch", zap.Error(err))
		}
		return index, index
	}

	if db == nil {
		logger.Fatal("MongoDB chưa được kết nối cho catalog source", zap.String("source", config.C.Catalog.Source))
	}
	repo := services.NewMongoBusinessRepository(db, config.C.Catalog.MaxFetch, logger)
	return repo, repo
}
