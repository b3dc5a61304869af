package storage

import (
	"fmt"
	"sort"
)

// Config selects and configures the disks. The local disk is always
// available; the s3 disk only when S3Bucket is set.
type Config struct {
	Default   string
	LocalRoot string
	LocalURL  string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
	S3URL      string
}

// Manager holds the configured disks.
type Manager struct {
	disks       map[string]Disk
	defaultDisk string
}

// New boots the local disk and, when a bucket is configured, the s3 disk.
// It fails when the default disk cannot be booted.
func New(cfg Config) (*Manager, error) {
	if cfg.Default == "" {
		cfg.Default = "local"
	}

	local, err := NewLocalDisk(cfg.LocalRoot, cfg.LocalURL)
	if err != nil {
		return nil, err
	}
	m := &Manager{disks: map[string]Disk{"local": local}, defaultDisk: cfg.Default}

	if cfg.S3Bucket != "" {
		d, err := NewS3Disk(S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		})
		if err != nil {
			return nil, err
		}
		m.disks["s3"] = d
	}

	if _, ok := m.disks[cfg.Default]; !ok {
		return nil, fmt.Errorf("storage: default disk %q is not configured", cfg.Default)
	}
	return m, nil
}

// Register adds or replaces a named disk.
func (m *Manager) Register(name string, d Disk) {
	m.disks[name] = d
}

// Disk returns the named disk.
func (m *Manager) Disk(name string) (Disk, error) {
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk named by Config.Default.
func (m *Manager) Default() Disk { return m.disks[m.defaultDisk] }

// DefaultName is the name of the default disk.
func (m *Manager) DefaultName() string { return m.defaultDisk }

// Names lists the configured disks.
func (m *Manager) Names() []string {
	out := make([]string, 0, len(m.disks))
	for name := range m.disks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
