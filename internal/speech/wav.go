package speech

// IsRIFFWave reports whether the bytes start with a RIFF/WAVE container
// header. Such input can be fed to the engines without transcoding.
func IsRIFFWave(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	return string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}
