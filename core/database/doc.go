// Package database opens the quest catalog database and inspects its schema.
//
// Connect wraps GORM for MySQL (production) and SQLite (local catalogs and
// tests). The catalog is owned upstream; this tool only reads it, so the
// inspector is used to verify the expected columns before querying instead of
// migrating anything.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    // source A reports unavailable
//	}
//
//	missing, err := database.MissingColumns(db, "quests", []string{"id", "title"})
package database
