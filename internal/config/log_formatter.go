package config

import (
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// GbFormatter renders compact single-line colored key=value entries.
type GbFormatter struct{}

func (f *GbFormatter) Format(entry *log.Entry) ([]byte, error) {
	const (
		red         = 31
		yellow      = 33
		blue        = 36
		gray        = 37
		cyan        = 96
		lightYellow = 93
		lightGreen  = 92
	)
	levelColor := blue
	switch entry.Level {
	case log.TraceLevel, log.DebugLevel:
		levelColor = gray
	case log.WarnLevel:
		levelColor = yellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		levelColor = red
	}
	level := fmt.Sprintf("\x1b[%dm%s\x1b[0m", levelColor, strings.ToUpper(entry.Level.String())[:4])

	output := fmt.Sprintf("\x1b[%dmlevel\x1b[0m=%s", cyan, level)
	output += fmt.Sprintf(" \x1b[%dmts\x1b[0m=\x1b[%dm%s\x1b[0m", cyan, lightYellow, entry.Time.Format("2006-01-02 15:04:05.000"))

	for k, val := range entry.Data {
		s, err := json.Marshal(val)
		if err != nil || len(s) == 0 {
			continue
		}
		output += fmt.Sprintf(" \x1b[%dm%s\x1b[0m=\x1b[%dm%s\x1b[0m", cyan, k, lightYellow, s)
	}
	output += fmt.Sprintf(" \x1b[%dmmsg\x1b[0m=\x1b[%dm%q\x1b[0m", cyan, lightGreen, entry.Message)
	output = strings.ReplaceAll(output, "\r", "\\r")
	output = strings.ReplaceAll(output, "\n", "\\n") + "\n"
	return []byte(output), nil
}
