package quest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"quest-sync/core/database"
	"quest-sync/core/models"
	"quest-sync/core/source"
)

// DBSource reads the quest catalog table. It serves as source A.
type DBSource struct {
	db     *gorm.DB
	table  string
	logger *zap.Logger
}

// NewDBSource creates a DBSource over table. A nil db is never available.
func NewDBSource(db *gorm.DB, table string, logger *zap.Logger) *DBSource {
	if table == "" {
		table = "quests"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBSource{db: db, table: table, logger: logger}
}

func (s *DBSource) Name() string { return "database" }

// IsAvailable pings the database and checks the table exposes the required columns.
func (s *DBSource) IsAvailable(ctx context.Context) bool {
	if s.db == nil {
		return false
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		s.logger.Warn("Quest database unreachable", zap.Error(err))
		return false
	}
	missing, err := database.MissingColumns(s.db.WithContext(ctx), s.table, RequiredColumns)
	if err != nil {
		s.logger.Warn("Failed to inspect quest table", zap.String("table", s.table), zap.Error(err))
		return false
	}
	if len(missing) > 0 {
		s.logger.Warn("Quest table is missing columns",
			zap.String("table", s.table), zap.Strings("missing", missing))
		return false
	}
	return true
}

// GetAll returns every row ordered by id.
func (s *DBSource) GetAll(ctx context.Context) ([]models.Quest, error) {
	if s.db == nil {
		return nil, errors.New("database not configured")
	}
	var rows []Row
	if err := s.db.WithContext(ctx).Table(s.table).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	out := make([]models.Quest, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToQuest())
	}
	return source.Tag(out, models.SourceA), nil
}

// GetByID returns one row, or source.ErrNotFound.
func (s *DBSource) GetByID(ctx context.Context, id int) (*models.Quest, error) {
	if s.db == nil {
		return nil, errors.New("database not configured")
	}
	var row Row
	err := s.db.WithContext(ctx).Table(s.table).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, source.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	q := source.Tag([]models.Quest{row.ToQuest()}, models.SourceA)[0]
	return &q, nil
}
