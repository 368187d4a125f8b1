package common

import "github.com/sirupsen/logrus"

// Logger is wired to the root package's Logger at init time; standalone use
// of this package falls back to the logrus standard logger.
var Logger = logrus.StandardLogger()
