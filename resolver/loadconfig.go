package resolver

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dnsscience/dnsgo/codes"
)

// fileConfig mirrors Config in YAML-struct-tag form for on-disk
// resolver configuration (SPEC_FULL.md §6 supplement), the same
// struct-tag convention the teacher uses for its own YAML files.
type fileConfig struct {
	Nameservers     []string `yaml:"nameservers"`
	LocalAddr       string   `yaml:"local_addr"`
	TimeoutSeconds  float64  `yaml:"timeout_seconds"`
	Retries         int      `yaml:"retries"`
	NSRandom        bool     `yaml:"ns_random"`
	RetryServfail   bool     `yaml:"retry_servfail"`
	Use0x20         bool     `yaml:"use_0x20"`
	UseCookies      bool     `yaml:"use_cookies"`
	EDNSPayloadSize uint16   `yaml:"edns_payload_size"`
	DNSSEC          bool     `yaml:"dnssec"`
	ThrottleQPS     float64  `yaml:"throttle_qps"`

	TSIG *fileTSIGConfig `yaml:"tsig"`
}

type fileTSIGConfig struct {
	KeyName   string `yaml:"key_name"`
	Algorithm string `yaml:"algorithm"`
	Secret    string `yaml:"secret"` // base64, decoded by the caller's key material handling
}

// LoadConfig reads a YAML resolver configuration file (SPEC_FULL.md §6
// supplement) and returns the equivalent Config. TSIGSecret is left as
// the raw bytes of the file's secret string; callers supplying a
// base64 secret should decode it before constructing a Resolver, same
// as a TSIG key read from the command line.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, codes.Wrap(codes.Configuration, "read resolver config file", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return Config{}, codes.Wrap(codes.Configuration, "parse resolver config YAML", err)
	}

	if len(fc.Nameservers) == 0 {
		return Config{}, codes.New(codes.Configuration, "resolver config declares no nameservers")
	}

	cfg := Config{
		Nameservers:     fc.Nameservers,
		LocalAddr:       fc.LocalAddr,
		Timeout:         time.Duration(fc.TimeoutSeconds * float64(time.Second)),
		Retries:         fc.Retries,
		NSRandom:        fc.NSRandom,
		RetryServfail:   fc.RetryServfail,
		Use0x20:         fc.Use0x20,
		UseCookies:      fc.UseCookies,
		EDNSPayloadSize: fc.EDNSPayloadSize,
		DNSSEC:          fc.DNSSEC,
		ThrottleQPS:     fc.ThrottleQPS,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if fc.TSIG != nil {
		cfg.TSIGKeyName = fc.TSIG.KeyName
		cfg.TSIGAlgorithm = fc.TSIG.Algorithm
		cfg.TSIGSecret = []byte(fc.TSIG.Secret)
	}
	return cfg, nil
}
