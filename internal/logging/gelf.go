package logging

import (
	"encoding/json"
	"net"
	"os"
	"time"
)

// GELFWriter sends GELF messages over UDP. It implements io.Writer so it can
// back a zap core; each Write is expected to carry one JSON-encoded entry.
type GELFWriter struct {
	conn     net.Conn
	hostname string
}

// NewGELFWriter creates a GELF UDP writer connected to addr
// (e.g. "172.17.0.1:12201").
func NewGELFWriter(addr string) (*GELFWriter, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "controlbench-server"
	}

	return &GELFWriter{conn: conn, hostname: hostname}, nil
}

// gelfLevels maps zap level names to syslog severities.
var gelfLevels = map[string]int{
	"debug":  7,
	"info":   6,
	"warn":   4,
	"error":  3,
	"dpanic": 2,
	"panic":  2,
	"fatal":  2,
}

// Write implements io.Writer. The payload is a zap JSON line; its level and
// msg fields become the GELF severity and short_message, with the raw line
// kept as full_message.
func (w *GELFWriter) Write(p []byte) (int, error) {
	var entry struct {
		Level string `json:"level"`
		Msg   string `json:"msg"`
	}
	short := string(p)
	level := 6 // Informational
	if err := json.Unmarshal(p, &entry); err == nil {
		if entry.Msg != "" {
			short = entry.Msg
		}
		if l, ok := gelfLevels[entry.Level]; ok {
			level = l
		}
	}

	gelf := map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"full_message":  string(p),
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         level,
		"_service":      "controlbench",
	}

	payload, err := json.Marshal(gelf)
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}
