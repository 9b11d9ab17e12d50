// persistence/gorm_postgresql.go
package persistence

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// StoryModel 已完成故事的数据库模型
type StoryModel struct {
	ID          uint         `gorm:"primaryKey"`
	RoomID      string       `gorm:"uniqueIndex;not null"`
	StoryPrompt string       `gorm:"not null"`
	FinalStory  string       `gorm:"type:text;not null"`
	Rounds      int          `gorm:"not null"`
	Entries     []StoryEntry `gorm:"type:jsonb;serializer:json"`
	PlayerNames []string     `gorm:"type:jsonb;serializer:json"`
	ShareToken  string       `gorm:"uniqueIndex;not null"`
	Public      bool         `gorm:"default:true"`
	CreatedAt   time.Time
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&StoryModel{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func (p *GormPostgreSQL) SaveStory(ctx context.Context, record *StoryRecord) error {
	model := StoryModel{
		RoomID:      record.RoomID,
		StoryPrompt: record.StoryPrompt,
		FinalStory:  record.FinalStory,
		Rounds:      record.Rounds,
		Entries:     record.Entries,
		PlayerNames: record.PlayerNames,
		ShareToken:  record.ShareToken,
		Public:      record.Public,
	}
	return p.db.WithContext(ctx).Create(&model).Error
}

func (p *GormPostgreSQL) GetStoryByShareToken(ctx context.Context, token string) (*StoryRecord, error) {
	var model StoryModel
	err := p.db.WithContext(ctx).Where("share_token = ?", token).First(&model).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return modelToRecord(&model), nil
}

func (p *GormPostgreSQL) ListPublicStories(ctx context.Context, limit int) ([]*StoryRecord, error) {
	var models []StoryModel
	err := p.db.WithContext(ctx).
		Where("public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	records := make([]*StoryRecord, 0, len(models))
	for i := range models {
		records = append(records, modelToRecord(&models[i]))
	}
	return records, nil
}

func (p *GormPostgreSQL) CountStories(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&StoryModel{}).Count(&count).Error
	return count, err
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func modelToRecord(model *StoryModel) *StoryRecord {
	return &StoryRecord{
		RoomID:      model.RoomID,
		StoryPrompt: model.StoryPrompt,
		FinalStory:  model.FinalStory,
		Rounds:      model.Rounds,
		Entries:     model.Entries,
		PlayerNames: model.PlayerNames,
		ShareToken:  model.ShareToken,
		Public:      model.Public,
	}
}
