package config

// SetLookPath swaps the executable lookup for the duration of a test.
func SetLookPath(fn func(string) (string, error)) (restore func()) {
	prev := lookPath
	lookPath = fn
	return func() { lookPath = prev }
}
