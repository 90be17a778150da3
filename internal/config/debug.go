package config

import "os"

func IsDebug() bool {
	return os.Getenv("LOOP_DEBUG") == "1"
}
