// Package stats tracks the cross-lobby rounds-played total. A Postgres
// row backs it when DATABASE_URL is set and reachable; otherwise an
// in-memory counter keeps the game fully functional.
package stats

import (
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Counter interface {
	Increment() (int64, error)
	Read() (int64, error)
}

// New dials Postgres when dsn is non-empty, falling back to memory on any
// failure. The fallback is logged, never surfaced to players.
func New(dsn string, log *zap.Logger) Counter {
	if dsn == "" {
		return NewMemory()
	}
	c, err := OpenPostgres(dsn)
	if err != nil {
		log.Warn("stats store unreachable, using in-memory counter", zap.Error(err))
		return NewMemory()
	}
	return c
}

type Memory struct {
	mu    sync.Mutex
	total int64
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Increment() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total++
	return m.total, nil
}

func (m *Memory) Read() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total, nil
}

// RoundTotal is the single-row table holding the counter.
type RoundTotal struct {
	ID    uint `gorm:"primaryKey"`
	Total int64
}

type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&RoundTotal{}); err != nil {
		return nil, err
	}
	if err := db.FirstOrCreate(&RoundTotal{ID: 1}).Error; err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Increment() (int64, error) {
	var rt RoundTotal
	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&RoundTotal{}).
			Where("id = ?", 1).
			UpdateColumn("total", gorm.Expr("total + 1")).Error; err != nil {
			return err
		}
		return tx.First(&rt, 1).Error
	})
	return rt.Total, err
}

func (p *Postgres) Read() (int64, error) {
	var rt RoundTotal
	err := p.db.First(&rt, 1).Error
	return rt.Total, err
}
