package checks

import (
	"testing"

	"quest-sync/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type catalogRow struct {
	ID    int    `gorm:"column:id;primaryKey"`
	Title string `gorm:"column:title"`
	Zone  string `gorm:"column:zone"`
	Notes string
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCheckTable_MySQL(t *testing.T) {
	tests := []struct {
		name         string
		columns      []string
		wantStatus   string
		wantRequired []string
		wantOptional []string
	}{
		{"All present", []string{"id", "title", "zone"}, "ok", []string{}, []string{}},
		{"Optional missing", []string{"id", "title"}, "warning", []string{}, []string{"zone"}},
		{"Required missing", []string{"id", "zone"}, "error", []string{"title"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
			for _, c := range tt.columns {
				rows.AddRow(c, "varchar(255)", "YES", "", nil, "")
			}
			mock.ExpectQuery("SHOW COLUMNS FROM `quests`").WillReturnRows(rows)

			report, err := CheckTable(db, "quests", catalogRow{}, []string{"id", "title"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantRequired, report.MissingRequired)
			assert.Equal(t, tt.wantOptional, report.MissingOptional)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCheckTable_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE quests (id INTEGER PRIMARY KEY, Title TEXT)").Error)

	report, err := CheckTable(db, "quests", &catalogRow{}, []string{"id", "title"})
	require.NoError(t, err)
	assert.Equal(t, "warning", report.Status)
	assert.Equal(t, []string{"zone"}, report.MissingOptional)
}

func TestCheckTable_Guards(t *testing.T) {
	_, err := CheckTable(nil, "quests", catalogRow{}, nil)
	assert.Error(t, err)

	db, _ := setupMockDB(t)
	_, err = CheckTable(db, "quests", struct{ A int }{}, nil)
	assert.Error(t, err)
	_, err = CheckTable(db, "quests", nil, nil)
	assert.Error(t, err)
}

func TestParseGormColumn(t *testing.T) {
	assert.Equal(t, "id", parseGormColumn("column:id;primaryKey"))
	assert.Equal(t, "title", parseGormColumn("type:varchar(255);column:title"))
	assert.Equal(t, "", parseGormColumn("primaryKey"))
}
