package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// HashFile computes the SHA256 hash of an entire file
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// HashFileQuick computes a SHA256 hash of the first and last chunks of a
// file. Much faster than a full hash for large media files, and good
// enough as a pre-replacement sanity check. Files smaller than two
// chunks are hashed in full.
func HashFileQuick(path string, chunkSize int64) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}

	hash := sha256.New()

	if info.Size() <= chunkSize*2 {
		if _, err := io.Copy(hash, file); err != nil {
			return "", err
		}
		return hex.EncodeToString(hash.Sum(nil)), nil
	}

	chunk := make([]byte, chunkSize)
	if _, err := io.ReadFull(file, chunk); err != nil {
		return "", err
	}
	hash.Write(chunk)

	if _, err := file.Seek(-chunkSize, io.SeekEnd); err != nil {
		return "", err
	}
	if _, err := io.ReadFull(file, chunk); err != nil {
		return "", err
	}
	hash.Write(chunk)

	return hex.EncodeToString(hash.Sum(nil)), nil
}
