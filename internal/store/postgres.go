package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"leagueboard/internal/board"
)

// roomKey identifies the single board row. The service runs one room; a
// multi-room deployment would key rows by room ID instead.
const roomKey = "default"

type documentRow struct {
	RoomKey   string    `gorm:"column:room_key;primaryKey"`
	Teams     []byte    `gorm:"column:teams;type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (documentRow) TableName() string { return "board_documents" }

// Postgres stores the document in a single upserted row.
type Postgres struct {
	db  *gorm.DB
	log *zap.Logger
}

// OpenPostgres connects to the database at dsn and runs the schema migration.
func OpenPostgres(dsn string, log *zap.Logger) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrate board_documents: %w", err)
	}
	log.Info("connected to postgres")
	return &Postgres{db: db, log: log}, nil
}

func (p *Postgres) Load(ctx context.Context) (board.Document, error) {
	var row documentRow
	err := p.db.WithContext(ctx).First(&row, "room_key = ?", roomKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return board.New(), nil
	}
	if err != nil {
		return board.Document{}, fmt.Errorf("load document: %w", err)
	}
	teams, err := board.ParseTeams(row.Teams)
	if err != nil {
		// Rows are only ever written through Save, which validates.
		return board.Document{}, fmt.Errorf("load document: %w", err)
	}
	return board.Document{Teams: teams, UpdatedAt: row.UpdatedAt.UTC()}, nil
}

func (p *Postgres) Save(ctx context.Context, teams json.RawMessage) (board.Document, error) {
	parsed, err := board.ParseTeams(teams)
	if err != nil {
		return board.Document{}, err
	}
	doc := board.Document{Teams: parsed, UpdatedAt: time.Now().UTC()}

	encoded, err := json.Marshal(doc.Teams)
	if err != nil {
		return board.Document{}, fmt.Errorf("encode teams: %w", err)
	}
	row := documentRow{RoomKey: roomKey, Teams: encoded, UpdatedAt: doc.UpdatedAt}

	// Single statement so teams and updated_at change together.
	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"teams", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return board.Document{}, fmt.Errorf("save document: %w", err)
	}
	return doc, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}
	return sqlDB.Close()
}
