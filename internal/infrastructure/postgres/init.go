package postgres

import (
	"log"

	"github.com/fairwayops/lottery-service/internal/config"
	"github.com/fairwayops/lottery-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.LotteryConfig) *gorm.DB {
	dsn := cfg.LotteryDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.EntryModel{},
		&models.WindowModel{},
		&models.MemberModel{},
		&models.RestrictionModel{},
		&models.FairnessModel{},
		&models.SpeedModel{},
		&models.RunModel{},
		&models.EntryLogModel{},
		&models.AlgorithmConfigModel{},
	)

	return db
}
