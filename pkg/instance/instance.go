package instance

import "os"

// GetID returns the process identifier attached to logs: the Heroku dyno
// name, the container hostname, or "local".
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
