package logging

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the gin context key holding the current request id.
const RequestIDKey = "request_id"

// New builds the process logger. Unknown levels fall back to info; format
// is "json" or anything else for text.
func New(level, format string) *logrus.Logger {
	log := logrus.New()

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		log.WithField("level", level).Warn("unknown log level, using info")
	}
	log.SetLevel(lvl)

	return log
}

// FromContext returns inner with the request id of c attached, when one
// was set by the RequestID middleware.
func FromContext(c *gin.Context, inner logrus.FieldLogger) logrus.FieldLogger {
	if id := c.GetString(RequestIDKey); id != "" {
		return WithReqID(id, inner)
	}
	return inner
}

func WithReqID(reqID string, inner logrus.FieldLogger) logrus.FieldLogger {
	return inner.WithField(RequestIDKey, reqID)
}
