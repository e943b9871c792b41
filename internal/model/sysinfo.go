package model

const bytesPerGiB = 1024 * 1024 * 1024

// SystemInfo describes the machine a run executed on. It is collected once
// per run by the sysinfo package and treated as opaque input everywhere else.
type SystemInfo struct {
	Hostname string        `json:"hostname"`
	CPU      CPUInfo       `json:"cpu"`
	Memory   MemoryInfo    `json:"memory"`
	Storage  []StorageInfo `json:"storage"`
	GPU      *GPUInfo      `json:"gpu,omitempty"`
	OS       OSInfo        `json:"os"`
}

// CPUInfo describes the processor.
type CPUInfo struct {
	Name             string `json:"name"`
	Vendor           string `json:"vendor"`
	Cores            int    `json:"cores"`
	Threads          int    `json:"threads"`
	BaseFrequencyMHz int    `json:"base_frequency_mhz"`
}

// MemoryInfo describes installed memory.
type MemoryInfo struct {
	TotalBytes uint64 `json:"total_bytes"`
}

// TotalGB returns installed memory in GiB.
func (m MemoryInfo) TotalGB() float64 {
	return float64(m.TotalBytes) / bytesPerGiB
}

// StorageType tags a storage device by technology.
type StorageType string

const (
	StorageNVMe    StorageType = "nvme"
	StorageSSD     StorageType = "ssd"
	StorageHDD     StorageType = "hdd"
	StorageUnknown StorageType = "unknown"
)

// Solid reports whether the device has no moving parts.
func (t StorageType) Solid() bool {
	return t == StorageNVMe || t == StorageSSD
}

// StorageInfo describes one storage device.
type StorageInfo struct {
	Name          string      `json:"name"`
	DeviceType    StorageType `json:"device_type"`
	CapacityBytes uint64      `json:"capacity_bytes"`
}

// CapacityGB returns the device capacity in GiB.
func (s StorageInfo) CapacityGB() float64 {
	return float64(s.CapacityBytes) / bytesPerGiB
}

// GPUInfo describes a graphics adapter, when one was detected.
type GPUInfo struct {
	Name      string `json:"name"`
	Vendor    string `json:"vendor"`
	Dedicated bool   `json:"dedicated"`
}

// OSInfo describes the operating system.
type OSInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Kernel  string `json:"kernel,omitempty"`
}
