// Package config provides configuration management.
//
// It uses Viper to load configuration from environment variables and an
// optional .env file (via godotenv). Defaults come from `default` struct tags.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, upload size limit
//   - Storage: endpoint, credentials, bucket, region, delete strategy, page size
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Bucket)
package config
