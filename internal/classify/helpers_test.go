package classify

import "github.com/agrostack/agridocs/internal/config"

func testConfigWithClassifier(url string) config.Config {
	return config.Config{
		ClassifierURL: url,
		TesseractBin:  "no-such-binary",
		FFmpegBin:     "no-such-binary",
		WhisperBin:    "no-such-binary",
	}
}
