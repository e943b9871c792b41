package sysinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/johanmcad/workbench/internal/model"
)

// Collect gathers the live system description. It returns a partially
// filled SystemInfo together with the first collection error, so callers
// can log the error and keep the fields that were available.
func Collect() (model.SystemInfo, error) {
	var info model.SystemInfo
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	hi, err := host.Info()
	if err == nil {
		info.Hostname = hi.Hostname
		info.OS = model.OSInfo{
			Name:    hi.Platform,
			Version: hi.PlatformVersion,
			Kernel:  hi.KernelVersion,
		}
	} else {
		keep(fmt.Errorf("host info: %w", err))
		info.Hostname, _ = os.Hostname()
		info.OS.Name = runtime.GOOS
	}

	info.CPU, err = collectCPU()
	keep(err)

	if vm, err := mem.VirtualMemory(); err == nil {
		info.Memory.TotalBytes = vm.Total
	} else {
		keep(fmt.Errorf("memory info: %w", err))
	}

	info.Storage, err = collectStorage()
	keep(err)

	return info, firstErr
}

func collectCPU() (model.CPUInfo, error) {
	var out model.CPUInfo

	infos, err := cpu.Info()
	if err != nil {
		return out, fmt.Errorf("cpu info: %w", err)
	}
	if len(infos) > 0 {
		out.Name = strings.TrimSpace(infos[0].ModelName)
		out.Vendor = infos[0].VendorID
		out.BaseFrequencyMHz = int(infos[0].Mhz)
	}

	if cores, err := cpu.Counts(false); err == nil {
		out.Cores = cores
	}
	if threads, err := cpu.Counts(true); err == nil {
		out.Threads = threads
	}
	return out, nil
}

func collectStorage() ([]model.StorageInfo, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, fmt.Errorf("disk partitions: %w", err)
	}

	seen := make(map[string]bool)
	var devices []model.StorageInfo
	for _, p := range parts {
		dev := baseDevice(p.Device)
		if dev == "" || seen[dev] {
			continue
		}
		seen[dev] = true

		var capacity uint64
		if usage, err := disk.Usage(p.Mountpoint); err == nil {
			capacity = usage.Total
		}
		devices = append(devices, model.StorageInfo{
			Name:          dev,
			DeviceType:    deviceType(dev),
			CapacityBytes: capacity,
		})
	}
	return devices, nil
}

// baseDevice strips the /dev/ prefix and the partition suffix, so sda1 and
// nvme0n1p2 collapse onto their parent devices.
func baseDevice(device string) string {
	name := strings.TrimPrefix(device, "/dev/")
	if strings.Contains(name, "/") {
		// Network mounts and mapper paths are not physical devices.
		return ""
	}
	if strings.HasPrefix(name, "nvme") {
		if i := strings.LastIndex(name, "p"); i > 0 {
			return name[:i]
		}
		return name
	}
	return strings.TrimRight(name, "0123456789")
}

// deviceType classifies a block device. On Linux the rotational flag in
// sysfs separates spinning disks from flash; elsewhere the type stays
// unknown unless the name itself says NVMe.
func deviceType(dev string) model.StorageType {
	if strings.HasPrefix(dev, "nvme") {
		return model.StorageNVMe
	}
	if runtime.GOOS != "linux" {
		return model.StorageUnknown
	}
	data, err := os.ReadFile(filepath.Join("/sys/block", dev, "queue", "rotational"))
	if err != nil {
		return model.StorageUnknown
	}
	switch strings.TrimSpace(string(data)) {
	case "0":
		return model.StorageSSD
	case "1":
		return model.StorageHDD
	default:
		return model.StorageUnknown
	}
}
