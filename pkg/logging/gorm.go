package logging

import (
	"fmt"
	"strings"
)

// GormLogger routes jinzhu/gorm log records into a Logger at debug level.
type GormLogger struct {
	L Logger
}

// Print implements gorm.logger.
func (g GormLogger) Print(values ...interface{}) {
	if len(values) < 2 {
		return
	}

	switch values[0] {
	case "sql":
		// sql, source, duration, query, vars, rows affected
		if len(values) < 6 {
			return
		}
		g.L.Debug("[SQL] %s | %v | %s %v (%v rows)", values[1], values[2], values[3], values[4], values[5])
	case "log":
		g.L.Warning("[gorm] %s %s", values[1], strings.TrimSpace(fmt.Sprint(values[2:]...)))
	default:
		g.L.Debug("[gorm] %s", fmt.Sprint(values...))
	}
}
