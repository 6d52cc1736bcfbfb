package config

import (
	"time"

	"go.trai.ch/press/internal/core/domain"
)

// Pressfile represents the structure of the optional press.yaml overlay.
// Every field is optional; unset fields keep their defaults. Paths are relative to
// the project root.
type Pressfile struct {
	Version   string        `yaml:"version"`
	Src       string        `yaml:"src"`
	Dest      string        `yaml:"dest"`
	Tmp       string        `yaml:"tmp"`
	Build     string        `yaml:"build"`
	Styles    *AssetDTO     `yaml:"styles"`
	Scripts   *AssetDTO     `yaml:"scripts"`
	Images    *AssetDTO     `yaml:"images"`
	SVG       *AssetDTO     `yaml:"svg"`
	Generator *GeneratorDTO `yaml:"generator"`
	Server    *ServerDTO    `yaml:"server"`
	Sprite    *SpriteDTO    `yaml:"sprite"`
}

// AssetDTO overrides the paths of one asset class.
type AssetDTO struct {
	Src  []string `yaml:"src"`
	Dest string   `yaml:"dest"`
	Tmp  string   `yaml:"tmp"`
}

// GeneratorDTO overrides the generator binary and arguments.
type GeneratorDTO struct {
	Binary string                `yaml:"binary"`
	Args   *domain.GeneratorArgs `yaml:"args"`
}

// ServerDTO overrides development server options.
type ServerDTO struct {
	BaseDirs       []string       `yaml:"baseDirs"`
	Compress       *bool          `yaml:"compress"`
	HTTPS          *bool          `yaml:"https"`
	CertFile       string         `yaml:"certFile"`
	KeyFile        string         `yaml:"keyFile"`
	InjectChanges  *bool          `yaml:"injectChanges"`
	Notify         *bool          `yaml:"notify"`
	Open           *bool          `yaml:"open"`
	Port           int            `yaml:"port"`
	ReloadThrottle *time.Duration `yaml:"reloadThrottle"`
	MetricsPath    string         `yaml:"metricsPath"`
}

// SpriteDTO overrides SVG sprite options.
type SpriteDTO struct {
	Filename string `yaml:"filename"`
	Prefix   string `yaml:"prefix"`
	Example  *bool  `yaml:"example"`
}

// environment is the set of variables read from the process environment.
type environment struct {
	Press string `env:"PRESS_ENV"`
	Node  string `env:"NODE_ENV"`
	Port  int    `env:"PRESS_PORT"`
}
