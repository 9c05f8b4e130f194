package config

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/logging"
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	PushURL      string
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger := logging.New()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger.Desugar())

	return &Config{
		URL:          os.Getenv("DB_URI"),
		DatabaseName: os.Getenv("DB_NAME"),
		BaseURL:      os.Getenv("BASE_URL"),
		Port:         os.Getenv("PORT"),
		PushURL:      os.Getenv("PUSH_URL"),
	}

}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}
