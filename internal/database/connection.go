package database

import (
	"errors"

	"github.com/thereayou/voxus/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens Postgres and migrates the schema.
func (d *Database) Connect(dsn string) error {
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}
	return d.Open(postgres.Open(dsn))
}

// Open works with any gorm dialector. TranslateError turns unique violations into ErrDuplicate.
func (d *Database) Open(dialector gorm.Dialector) error {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return err
	}

	d.db = db
	return d.Migrate()
}

func (d *Database) Migrate() error {
	return d.db.AutoMigrate(
		&models.User{},
		&models.Channel{},
		&models.Member{},
		&models.Invite{},
		&models.KickVote{},
		&models.Blacklist{},
		&models.Message{},
		&models.File{},
	)
}
