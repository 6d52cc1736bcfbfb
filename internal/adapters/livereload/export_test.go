package livereload

// SetOpenURL replaces the browser launcher and returns a function restoring it.
func SetOpenURL(fn func(string) error) (restore func()) {
	prev := openURL
	openURL = fn
	return func() { openURL = prev }
}
