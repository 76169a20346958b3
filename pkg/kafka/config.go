package kafka

import (
	"crypto/tls"
	"strings"
	"time"
)

// Config holds Kafka connection parameters.
type Config struct {
	// TLS, when non-nil, is used for broker connections.
	TLS *tls.Config

	ClientID     string
	Brokers      []string
	BatchTimeout time.Duration
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
