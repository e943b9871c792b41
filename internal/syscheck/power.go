package syscheck

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const powerSupplyRoot = "/sys/class/power_supply"

// readPowerSource inspects the power-supply tree. On platforms without
// one (or desktops without a battery) the machine reads as mains-powered.
func readPowerSource() (bool, *float64) {
	entries, err := os.ReadDir(powerSupplyRoot)
	if err != nil {
		return false, nil
	}

	onBattery := false
	var percent *float64
	for _, e := range entries {
		dir := filepath.Join(powerSupplyRoot, e.Name())
		switch {
		case strings.HasPrefix(e.Name(), "AC"), strings.HasPrefix(e.Name(), "ADP"):
			if data, err := os.ReadFile(filepath.Join(dir, "online")); err == nil {
				if strings.TrimSpace(string(data)) == "0" {
					onBattery = true
				}
			}
		case strings.HasPrefix(e.Name(), "BAT"):
			if data, err := os.ReadFile(filepath.Join(dir, "status")); err == nil {
				if strings.TrimSpace(string(data)) == "Discharging" {
					onBattery = true
				}
			}
			if data, err := os.ReadFile(filepath.Join(dir, "capacity")); err == nil {
				if v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64); err == nil {
					percent = &v
				}
			}
		}
	}
	if !onBattery {
		return false, nil
	}
	return true, percent
}

// readPowerProfile reports the active CPU frequency governor, normalized
// to the names the warning rules understand. Empty when unavailable.
func readPowerProfile() string {
	data, err := os.ReadFile("/sys/devices/system/cpu/cpu0/cpufreq/scaling_governor")
	if err != nil {
		return ""
	}
	governor := strings.TrimSpace(string(data))
	switch governor {
	case "schedutil", "ondemand", "conservative":
		return "balanced"
	default:
		return governor
	}
}
