package config

import (
	"os"

	"github.com/dmitrijs2005/gophdrive/internal/flagx"
	"github.com/dmitrijs2005/gophdrive/internal/timex"
	"gopkg.in/yaml.v3"
)

// YamlConfig is a DTO used only for reading the YAML file. Sections mirror
// the concerns of Config; empty values mean "not set".
type YamlConfig struct {
	Server struct {
		Listen        string `yaml:"listen"`
		PublicURL     string `yaml:"public_url"`
		MaxUploadSize int64  `yaml:"max_upload_size"`
		LogLevel      string `yaml:"log_level"`
	} `yaml:"server"`
	JWT struct {
		SecretKey string          `yaml:"secret_key"`
		Expiry    *timex.Duration `yaml:"expiry"`
	} `yaml:"jwt"`
	Repository struct {
		Type string `yaml:"type"`
		DSN  string `yaml:"dsn"`
	} `yaml:"repository"`
	Storage struct {
		Type string `yaml:"type"`
		Dir  string `yaml:"dir"`
	} `yaml:"storage"`
	S3 struct {
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"s3"`
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseYaml overlays Config with the YAML file named by -c/-config. Without
// the flag it does nothing. Read and decode errors panic.
func parseYaml(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var yc YamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		panic(err)
	}

	setIf(&cfg.ListenAddr, yc.Server.Listen)
	setIf(&cfg.PublicURL, yc.Server.PublicURL)
	if yc.Server.MaxUploadSize > 0 {
		cfg.MaxUploadSize = yc.Server.MaxUploadSize
	}
	setIf(&cfg.LogLevel, yc.Server.LogLevel)

	setIf(&cfg.SecretKey, yc.JWT.SecretKey)
	if yc.JWT.Expiry != nil {
		cfg.AccessTokenValidityDuration = yc.JWT.Expiry.Duration
	}

	setIf(&cfg.Repository, yc.Repository.Type)
	setIf(&cfg.DatabaseDSN, yc.Repository.DSN)

	setIf(&cfg.BlobBackend, yc.Storage.Type)
	setIf(&cfg.StorageDir, yc.Storage.Dir)

	setIf(&cfg.S3BaseEndpoint, yc.S3.Endpoint)
	setIf(&cfg.S3Region, yc.S3.Region)
	setIf(&cfg.S3Bucket, yc.S3.Bucket)
	setIf(&cfg.S3RootUser, yc.S3.AccessKey)
	setIf(&cfg.S3RootPassword, yc.S3.SecretKey)
}
