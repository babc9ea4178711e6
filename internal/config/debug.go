package config

import "os"

func IsDebug() bool {
	return os.Getenv("AIMEE_DEBUG") == "1"
}
