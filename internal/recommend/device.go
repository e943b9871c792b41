package recommend

import (
	"regexp"
	"strings"

	"github.com/johanmcad/workbench/internal/model"
)

var vdiHostnameHints = []string{"vdi", "virtual", "citrix", "vmware"}

// Intel/AMD mobile model suffixes: 8650U, 11370H, 1165G7, 7840HS.
var mobileCPUPattern = regexp.MustCompile(`\b\w*\d{3,5}(u|p|h[sxq]?|g[147])\b`)

// Unlocked desktop parts: 9900K, 13700KF, 5950X, 7800X3D.
var desktopCPUPattern = regexp.MustCompile(`\b\w*\d{3,5}(k[fs]?|x(3d)?|xt)\b`)

// DetectDeviceType classifies the machine from its hostname and CPU name.
// Hostname hints win because VDI guests report their host's CPU.
func DetectDeviceType(info model.SystemInfo) DeviceType {
	host := strings.ToLower(info.Hostname)
	for _, hint := range vdiHostnameHints {
		if strings.Contains(host, hint) {
			return DeviceVDI
		}
	}

	cpu := strings.ToLower(info.CPU.Name)
	if cpu == "" {
		return DeviceUnknown
	}
	if strings.Contains(cpu, "mobile") || mobileCPUPattern.MatchString(cpu) {
		return DeviceLaptop
	}
	if info.CPU.Cores >= 6 &&
		(desktopCPUPattern.MatchString(cpu) ||
			strings.Contains(cpu, "ryzen 7") || strings.Contains(cpu, "ryzen 9")) {
		return DeviceDesktop
	}
	return DeviceUnknown
}
