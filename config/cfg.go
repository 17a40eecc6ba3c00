package config

import "fmt"

type AppConfig struct {
	Input   InputConfig   `yaml:"input" json:"input"`
	Extract ExtractConfig `yaml:"extract" json:"extract"`
	Worker  WorkerConfig  `yaml:"worker" json:"worker"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Store   StoreConfig   `yaml:"store" json:"store"`
	Status  StatusConfig  `yaml:"status" json:"status"`
	Log     LogConfig     `yaml:"log" json:"log"`
	AWS     AWSConfig     `yaml:"aws" json:"aws"`
}

type InputConfig struct {
	// Path is a file, a directory or an s3://bucket/prefix location.
	Path string `yaml:"path" json:"path"`
	// Extension is a comma separated list, e.g. "json,xml".
	Extension string `yaml:"extension" json:"extension"`
	Format    string `yaml:"format" json:"format"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

type ExtractConfig struct {
	Allow             []string `yaml:"allow" json:"allow"`
	Sentences         bool     `yaml:"sentences" json:"sentences"`
	Language          string   `yaml:"language" json:"language"`
	AbbreviationsOnly bool     `yaml:"abbreviations_only" json:"abbreviations_only"`
}

type WorkerConfig struct {
	Count int `yaml:"count" json:"count"`
}

type OutputConfig struct {
	Mode           string `yaml:"mode" json:"mode"`
	Path           string `yaml:"path" json:"path"`
	PrefixFilename bool   `yaml:"prefix_filename" json:"prefix_filename"`
	PrefixSection  bool   `yaml:"prefix_section" json:"prefix_section"`
}

type StoreConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     string `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"-"`
	Database string `yaml:"database" json:"database"`
}

// DSN is the go-sql-driver/mysql data source name.
func (s StoreConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4", s.Username, s.Password, s.Host, s.Port, s.Database)
}

type StatusConfig struct {
	// Addr enables the status server when set, e.g. ":8080".
	Addr string `yaml:"addr" json:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type AWSConfig struct {
	Region string `yaml:"region" json:"region"`
}
