package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zooback/internal/auth"
	"zooback/internal/config"
	"zooback/internal/database"
	"zooback/internal/domain"
	httpapi "zooback/internal/http"
	"zooback/internal/logger"
	"zooback/internal/repository"
	"zooback/internal/service"
	"zooback/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "zooback")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer database.Close(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	kv := store.NewRedisKV(redisClient)

	rolesRepo := repository.NewPostgresRolesRepository(db)
	accountsRepo := repository.NewPostgresAccountsRepository(db)
	categoriesRepo := repository.NewPostgresCategoriesRepository(db)
	enclosuresRepo := repository.NewPostgresEnclosuresRepository(db)
	animalsRepo := repository.NewPostgresAnimalsRepository(db)
	staffRepo := repository.NewPostgresStaffRepository(db)
	assignmentsRepo := repository.NewPostgresAssignmentsRepository(db)
	feedingRepo := repository.NewPostgresFeedingRepository(db)
	medicalRepo := repository.NewPostgresMedicalRepository(db)

	// Dev bootstrap: ensure a usable Admin login exists.
	if os.Getenv("SEED_ADMIN") != "false" {
		seedAdmin(db, log)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	mw := auth.NewMiddleware(tokens)

	authService := service.NewAuthService(accountsRepo, rolesRepo, tokens, kv, log)
	userService := service.NewUserService(accountsRepo, rolesRepo, staffRepo, log)
	categoryService := service.NewCategoryService(categoriesRepo, animalsRepo, log)
	enclosureService := service.NewEnclosureService(enclosuresRepo, animalsRepo, log)
	animalService := service.NewAnimalService(animalsRepo, categoriesRepo, enclosuresRepo, log)
	staffService := service.NewStaffService(staffRepo, accountsRepo, feedingRepo, medicalRepo, assignmentsRepo, log)
	assignmentService := service.NewAssignmentService(assignmentsRepo, staffRepo, animalsRepo, log)
	feedingService := service.NewFeedingService(feedingRepo, animalsRepo, staffRepo, log)
	medicalService := service.NewMedicalService(medicalRepo, animalsRepo, staffRepo, log)
	reportService := service.NewReportService(animalsRepo, categoriesRepo, enclosuresRepo, feedingRepo, log)
	uploader := service.NewImgBBClient(cfg.ImgBB.APIURL, cfg.ImgBB.APIKey, log)

	router := httpapi.NewRouter(log)
	router.RegisterRoutes(httpapi.Handlers{
		Auth:        httpapi.NewAuthHandler(authService, userService, mw, log),
		Accounts:    httpapi.NewAccountHandler(userService, mw, log),
		Categories:  httpapi.NewCategoryHandler(categoryService, mw, log),
		Enclosures:  httpapi.NewEnclosureHandler(enclosureService, mw, log),
		Animals:     httpapi.NewAnimalHandler(animalService, mw, log),
		Staff:       httpapi.NewStaffHandler(staffService, mw, log),
		Assignments: httpapi.NewAssignmentHandler(assignmentService, mw, log),
		Feeding:     httpapi.NewFeedingHandler(feedingService, mw, log),
		Medical:     httpapi.NewMedicalHandler(medicalService, mw, log),
		Images:      httpapi.NewImageHandler(uploader, mw, log),
		Reports:     httpapi.NewReportHandler(reportService, mw, log),
	})

	server := service.NewServer(cfg.HTTP.Addr, router, log)
	go func() {
		if err := server.Start(); err != nil {
			log.Warn("HTTP server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Warn("Graceful shutdown failed", zap.Error(err))
	}
}

// seedAdmin 保证 Admin 账号可登录（admin / ChangeMe123!）
// 密码只在账号不存在时写入，不会覆盖已修改的密码
func seedAdmin(db *sql.DB, log *zap.Logger) {
	hash, err := auth.HashPassword(getEnvDefault("SEED_ADMIN_PASSWORD", "ChangeMe123!"))
	if err != nil {
		log.Warn("Failed to hash seed admin password", zap.Error(err))
		return
	}

	var roleID string
	if err := db.QueryRow(`SELECT role_id::text FROM roles WHERE name = $1`, string(domain.RoleAdmin)).Scan(&roleID); err != nil {
		log.Warn("Admin role not found, skipping admin seed (run migrations first)", zap.Error(err))
		return
	}

	var accountID string
	err = db.QueryRow(
		`INSERT INTO accounts (account_id, username, email, password_hash, current_role_id)
		 VALUES (gen_random_uuid(), 'admin', 'admin@zoo.local', $1, $2)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING account_id::text`,
		hash, roleID,
	).Scan(&accountID)
	if err == sql.ErrNoRows {
		return // already seeded
	}
	if err != nil {
		log.Warn("Failed to seed admin account", zap.Error(err))
		return
	}

	_, _ = db.Exec(
		`INSERT INTO account_roles (account_id, role_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, accountID, roleID)
	_, _ = db.Exec(
		`INSERT INTO account_details (account_id) VALUES ($1)
		 ON CONFLICT DO NOTHING`, accountID)

	log.Info("Admin account seeded", zap.String("account_id", accountID), zap.String("username", "admin"))
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
