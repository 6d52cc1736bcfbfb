package domain

const (
	// ConfigFileName is the optional project configuration overlay.
	ConfigFileName = "press.yaml"

	// DotEnvFile and DotEnvLocalFile are loaded from the project root when present.
	DotEnvFile      = ".env"
	DotEnvLocalFile = ".env.local"

	// EnvVar is the primary environment selector.
	EnvVar = "PRESS_ENV"
	// LegacyEnvVar is consulted when EnvVar is unset.
	LegacyEnvVar = "NODE_ENV"
	// GeneratorEnvVar is forwarded to the generator process.
	GeneratorEnvVar = "HUGO_ENV"

	// DefaultGenerator is the generator executable.
	DefaultGenerator = "hugo"
	// DefaultPort is the development server port.
	DefaultPort = 3000

	// ServerPrefix is the path prefix reserved for the live-reload server.
	ServerPrefix = "/__press"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
