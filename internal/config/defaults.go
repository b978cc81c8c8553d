package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		MinConfidence: 0.5,
		ContentMatch:  false,
		MinFileSize:   "1MB",
		VideoExtensions: []string{
			".mp4", ".mkv", ".avi", ".mov", ".wmv",
			".flv", ".webm", ".m4v", ".mpg", ".mpeg", ".ts",
		},
		ExcludePatterns: []string{},
		Fingerprint:     FingerprintFull,
		QuickHashChunk:  "1MB",
		Fix: FixConfig{
			VerifyContent: false,
		},
		DryRun:  false,
		Verbose: false,
	}
}
