package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultRegion        = "us-ashburn-1"
	DefaultDisplayName   = "ubuntu-arm-free"
	DefaultOCPUs         = 4
	DefaultMemoryGBs     = 24
	DefaultRetryInterval = 60 * time.Second
)

// DefaultAvailabilityDomains is the fixed probe order used when
// OCI_AVAILABILITY_DOMAINS is not set. The order is never shuffled.
var DefaultAvailabilityDomains = []string{
	"FpAe:US-ASHBURN-AD-1",
	"FpAe:US-ASHBURN-AD-2",
	"FpAe:US-ASHBURN-AD-3",
}

// requiredKeys are the environment keys (without the OCI_ prefix) that must
// be present before a run can attempt a launch. Keys with defaults are not
// listed; their absence is never an error.
var requiredKeys = []string{
	"tenancy_ocid",
	"user_ocid",
	"fingerprint",
	"private_key",
	"compartment_id",
	"subnet_id",
	"image_id",
	"ssh_public_key",
}

// Config is an immutable snapshot of the environment-derived settings.
// It is loaded once per run; missing required fields are reported by
// Missing, not at load time.
type Config struct {
	TenancyOCID         string
	UserOCID            string
	Fingerprint         string
	PrivateKey          string
	Region              string
	CompartmentID       string
	SubnetID            string
	ImageID             string
	SSHPublicKey        string
	DisplayName         string
	OCPUs               int
	MemoryGBs           int
	RetryInterval       time.Duration
	AvailabilityDomains []string
}

// FromEnv reads the OCI_* environment variables into a Config, applying
// defaults for the optional fields. It never fails; validation happens later
// via Missing.
func FromEnv() *Config {
	v := viper.New()
	v.SetEnvPrefix("oci")
	v.AutomaticEnv()
	v.SetDefault("region", DefaultRegion)
	v.SetDefault("vm_display_name", DefaultDisplayName)
	v.SetDefault("ocpus", DefaultOCPUs)
	v.SetDefault("memory_gbs", DefaultMemoryGBs)
	v.SetDefault("retry_interval", int(DefaultRetryInterval/time.Second))

	c := &Config{
		TenancyOCID:   v.GetString("tenancy_ocid"),
		UserOCID:      v.GetString("user_ocid"),
		Fingerprint:   v.GetString("fingerprint"),
		Region:        v.GetString("region"),
		CompartmentID: v.GetString("compartment_id"),
		SubnetID:      v.GetString("subnet_id"),
		ImageID:       v.GetString("image_id"),
		SSHPublicKey:  v.GetString("ssh_public_key"),
		DisplayName:   v.GetString("vm_display_name"),
		OCPUs:         v.GetInt("ocpus"),
		MemoryGBs:     v.GetInt("memory_gbs"),
		RetryInterval: time.Duration(v.GetInt("retry_interval")) * time.Second,
	}
	// Keys are typically exported with escaped newlines; restore them so the
	// PEM block parses.
	c.PrivateKey = strings.ReplaceAll(v.GetString("private_key"), "\\n", "\n")

	if ads := v.GetString("availability_domains"); ads != "" {
		for _, ad := range strings.Split(ads, ",") {
			if ad = strings.TrimSpace(ad); ad != "" {
				c.AvailabilityDomains = append(c.AvailabilityDomains, ad)
			}
		}
	}
	if len(c.AvailabilityDomains) == 0 {
		c.AvailabilityDomains = append([]string(nil), DefaultAvailabilityDomains...)
	}
	return c
}

// Missing returns the required keys that have no value, in declaration order.
func (c *Config) Missing() []string {
	vals := map[string]string{
		"tenancy_ocid":   c.TenancyOCID,
		"user_ocid":      c.UserOCID,
		"fingerprint":    c.Fingerprint,
		"private_key":    c.PrivateKey,
		"compartment_id": c.CompartmentID,
		"subnet_id":      c.SubnetID,
		"image_id":       c.ImageID,
		"ssh_public_key": c.SSHPublicKey,
	}
	var missing []string
	for _, k := range requiredKeys {
		if vals[k] == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// Configured reports, per key, whether a value is present. Values themselves
// are never included; this feeds the diagnostic endpoint.
func (c *Config) Configured() map[string]bool {
	return map[string]bool{
		"tenancy_ocid":   c.TenancyOCID != "",
		"user_ocid":      c.UserOCID != "",
		"fingerprint":    c.Fingerprint != "",
		"private_key":    c.PrivateKey != "",
		"region":         c.Region != "",
		"compartment_id": c.CompartmentID != "",
		"subnet_id":      c.SubnetID != "",
		"image_id":       c.ImageID != "",
		"ssh_public_key": c.SSHPublicKey != "",
		"display_name":   c.DisplayName != "",
		"ocpus":          c.OCPUs > 0,
		"memory_gbs":     c.MemoryGBs > 0,
		"retry_interval": c.RetryInterval > 0,
	}
}

// LoadEnvFile parses a simple .env file with KEY=VALUE lines (no export, no
// quotes) and exports each pair into the process environment. Lines starting
// with # are ignored. Existing variables are not overwritten.
func LoadEnvFile(path string) error {
	clean := filepath.Clean(path)
	b, err := os.ReadFile(clean)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.IndexByte(line, '=')
		if i < 0 {
			continue
		}
		k := strings.TrimSpace(line[:i])
		val := strings.TrimSpace(line[i+1:])
		if k == "" {
			continue
		}
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}
