package config

import "os"

func IsDebug() bool {
	return os.Getenv("GEODROP_DEBUG") == "1"
}
