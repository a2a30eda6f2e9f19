package affiliate

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"affiliate-backend/internal/logging"
	"affiliate-backend/internal/notify"
)

type App struct {
	Rdb *redis.Client
	Db  *gorm.DB
	Svc *Service
}

func Init() *App {
	loadEnv()
	logging.SetLogger(os.Getenv("LOG_FILE"))
	// Monetary fields serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	redisClient := setupRedis()
	db := setupDb()

	senders := map[string]Sender{
		ChannelEmail:    notify.NewEmailSender(),
		ChannelWhatsapp: notify.NewWhatsappSender(),
	}
	svc := NewService(NewGormStore(db), senders, redisClient)

	return &App{
		Rdb: redisClient,
		Db:  db,
		Svc: svc,
	}
}

func setupRedis() *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	return redisClient
}

func setupDb() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect to the db")
	}
	err = db.AutoMigrate(
		&Member{},
		&Referral{},
		&PurchaseEvent{},
		&NotificationLog{},
		&DigitalProduct{},
	)
	if err != nil {
		panic("failed to run migrations")
	}

	return db
}

func loadEnv() {
	env := os.Getenv("APP_ENV")
	if "" == env {
		env = "development"
	}

	godotenv.Load(".env." + env + ".local")

	if "test" != env {
		godotenv.Load(".env.local")
	}
	godotenv.Load(".env." + env)
	godotenv.Load()
}
