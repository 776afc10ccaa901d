package source

// Backend names accepted in Config.
const (
	BackendDatabase = "database"
	BackendStorage  = "storage"
	BackendFile     = "file"
)

// Config selects the backends behind source A and source B.
type Config struct {
	// AType is the backend of source A (database, file).
	AType string `mapstructure:"a_type" default:"database"`
	// ATable is the catalog table when AType is database.
	ATable string `mapstructure:"a_table" default:"quests"`
	// APath is the JSON file when AType is file.
	APath string `mapstructure:"a_path" default:"data/quests_a.json"`
	// BType is the backend of source B (storage, file, none).
	BType string `mapstructure:"b_type" default:"storage"`
	// BObject is the object key of the enrichment catalog when BType is storage.
	BObject string `mapstructure:"b_object" default:"catalog/quests_enrichment.json"`
	// BPath is the JSON file when BType is file.
	BPath string `mapstructure:"b_path" default:"data/quests_b.json"`
}
