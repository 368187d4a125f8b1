package safeprime

import (
	"github.com/sirupsen/logrus"

	"github.com/dwaalwijk/safeprime/internal/common"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
	common.Logger = Logger
}
