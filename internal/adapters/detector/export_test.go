package detector

// DetectFrom exposes the pure detection rule for tests.
func DetectFrom(isTTY bool, ci string) Mode {
	return detect(isTTY, ci)
}
