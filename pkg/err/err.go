package errprocess

import (
	"errors"
	"fmt"

	"social_messaging_service/pkg/logger"
)

// Set log the message and hand it back as an error
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Setf format the message, then Set it
func Setf(format string, args ...interface{}) error {
	return Set(fmt.Sprintf(format, args...))
}
