package domain

import "time"

// AssetClass identifies one of the asset pipelines.
type AssetClass string

const (
	// ClassStyles is the stylesheet pipeline.
	ClassStyles AssetClass = "styles"
	// ClassScripts is the script bundling pipeline.
	ClassScripts AssetClass = "scripts"
	// ClassImages is the image optimization pipeline.
	ClassImages AssetClass = "images"
	// ClassSVG is the SVG sprite pipeline.
	ClassSVG AssetClass = "svg"
)

// AssetClasses lists every asset class in a stable order.
func AssetClasses() []AssetClass {
	return []AssetClass{ClassStyles, ClassScripts, ClassImages, ClassSVG}
}

// AssetPaths describes where an asset class reads from and writes to.
type AssetPaths struct {
	// Src holds doublestar glob patterns relative to the project root.
	Src []string `yaml:"src"`
	// Dest is the production destination inside the generator input tree.
	Dest string `yaml:"dest"`
	// Tmp is the staging destination used outside production. Empty when the class has none.
	Tmp string `yaml:"tmp"`
}

// GeneratorArgs holds the argument lists passed to the site generator.
type GeneratorArgs struct {
	Default     []string `yaml:"default"`
	Development []string `yaml:"development"`
	Production  []string `yaml:"production"`
}

// GeneratorConfig describes the external generator process.
type GeneratorConfig struct {
	// Binary is the executable name or path.
	Binary string `yaml:"binary"`
	// Env is appended to the inherited process environment, in KEY=VALUE form.
	Env []string `yaml:"-"`
}

// ServerConfig configures the live-reload development server.
type ServerConfig struct {
	BaseDirs       []string      `yaml:"baseDirs"`
	Compress       bool          `yaml:"compress"`
	HTTPS          bool          `yaml:"https"`
	CertFile       string        `yaml:"certFile"`
	KeyFile        string        `yaml:"keyFile"`
	InjectChanges  bool          `yaml:"injectChanges"`
	Notify         bool          `yaml:"notify"`
	Open           bool          `yaml:"open"`
	Port           int           `yaml:"port"`
	ReloadThrottle time.Duration `yaml:"reloadThrottle"`
	MetricsPath    string        `yaml:"metricsPath"`
}

// SpriteConfig configures the SVG symbol sprite.
type SpriteConfig struct {
	Filename string `yaml:"filename"`
	// Prefix is a fmt pattern applied to each symbol id.
	Prefix string `yaml:"prefix"`
	// Example writes an HTML preview page next to the sprite.
	Example bool `yaml:"example"`
}

// BuildConfig is the resolved, immutable configuration for a single invocation.
type BuildConfig struct {
	Env   Environment
	Root  string
	Src   string
	Dest  string
	Tmp   string
	Build string

	Styles  AssetPaths
	Scripts AssetPaths
	Images  AssetPaths
	SVG     AssetPaths

	GeneratorArgs GeneratorArgs
	Generator     GeneratorConfig
	Server        ServerConfig
	Sprite        SpriteConfig
}

// Args returns the generator arguments for the configured environment:
// the default arguments followed by the environment specific ones.
func (c *BuildConfig) Args() []string {
	extra := c.GeneratorArgs.Production
	if c.Env == Development {
		extra = c.GeneratorArgs.Development
	}

	args := make([]string, 0, len(c.GeneratorArgs.Default)+len(extra))
	args = append(args, c.GeneratorArgs.Default...)
	return append(args, extra...)
}

// Paths returns the asset paths of the given class.
func (c *BuildConfig) Paths(class AssetClass) AssetPaths {
	switch class {
	case ClassStyles:
		return c.Styles
	case ClassScripts:
		return c.Scripts
	case ClassImages:
		return c.Images
	case ClassSVG:
		return c.SVG
	default:
		return AssetPaths{}
	}
}

// IsProduction reports whether the configuration targets production.
func (c *BuildConfig) IsProduction() bool {
	return c.Env.IsProduction()
}
