// compileinfoprint is imported by commands for its side effects: it sets up
// the standard logger for os.Stderr and then logs the compileinfo.
package compileinfoprint

import (
	"os"

	"github.com/carbocation/biotab/compileinfo"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetOutput(os.Stderr)
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}

	compileinfo.Log()
}
