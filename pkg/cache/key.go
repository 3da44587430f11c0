package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
)

// HashKey derives a stable key from prefix and the JSON form of v.
func HashKey(prefix string, v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", prefix, md5.Sum(data)), nil
}
