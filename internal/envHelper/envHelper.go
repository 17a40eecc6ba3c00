package envHelper

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadEnv loads .env files into the process environment. Variables that are
// already set win. A missing file is not an error.
func LoadEnv(filenames ...string) {
	err := godotenv.Load(filenames...)
	if err != nil {
		// Not fatal, just log the error and continue
		logrus.WithError(err).Debug("Couldn't load .env file")
	}
}

// GetEnvVariable returns the value of key and whether it is set to something
// other than blank.
func GetEnvVariable(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// String returns the first of keys that is set.
func String(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := GetEnvVariable(key); ok {
			return value, true
		}
	}
	return "", false
}

// Int parses the first of keys that is set.
func Int(keys ...string) (int, bool, error) {
	for _, key := range keys {
		value, ok := GetEnvVariable(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, true, fmt.Errorf("%s: %w", key, err)
		}
		return n, true, nil
	}
	return 0, false, nil
}

// Bool parses the first of keys that is set, accepting strconv.ParseBool forms.
func Bool(keys ...string) (bool, bool, error) {
	for _, key := range keys {
		value, ok := GetEnvVariable(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return false, true, fmt.Errorf("%s: %w", key, err)
		}
		return b, true, nil
	}
	return false, false, nil
}

// List splits the first of keys that is set on commas.
func List(keys ...string) ([]string, bool) {
	value, ok := String(keys...)
	if !ok {
		return nil, false
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, true
}
