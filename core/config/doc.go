// Package config provides configuration management for quest-sync.
//
// Values come from a .env file (if present) and environment variables through
// Viper. Defaults are declared next to each section as 'default' struct tags.
//
// # Configuration Structure
//
//   - Server: HTTP port and API key
//   - Database: catalog database (source A)
//   - Storage: S3/MinIO credentials, bucket of source B and export target
//   - Sources: backend selection for source A and source B
//   - Sync: output roots, language, variants, worker count, call delay
//   - Synthesis: speech provider credentials and voice ids
//   - Log: logging level and format
//
// Nested keys map to upper-case env names: sync.language_code -> SYNC_LANGUAGE_CODE.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.LanguageCode)
package config
