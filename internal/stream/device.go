package stream

import (
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sys/cpu"

	"github.com/samcharles93/blasq/pkg/blas"
)

// Device describes an execution target. Queues run on the host, so there
// is exactly one device.
type Device struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	GoOS     string          `json:"go_os"`
	GoArch   string          `json:"go_arch"`
	CPUs     int             `json:"cpus"`
	Features map[string]bool `json:"features"`
}

// DeviceCount returns the number of devices a Queue may select.
func DeviceCount() int { return 1 }

// Devices lists every device.
func Devices() []Device {
	return []Device{host()}
}

// DeviceByID returns the device with the given id.
func DeviceByID(id int) (Device, error) {
	if id < 0 || id >= DeviceCount() {
		return Device{}, blas.NewInvalidArgument("device", "id", 1, "device %d not in [0, %d)", id, DeviceCount())
	}
	return Devices()[id], nil
}

// FeatureList returns the names of the supported features, sorted.
func (d Device) FeatureList() []string {
	var out []string
	for name, ok := range d.Features {
		if ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

func (d Device) String() string {
	return fmt.Sprintf("%d: %s (%s/%s, %d cpus)", d.ID, d.Name, d.GoOS, d.GoArch, d.CPUs)
}

func host() Device {
	features := map[string]bool{}
	switch runtime.GOARCH {
	case "amd64", "386":
		features["SSE41"] = cpu.X86.HasSSE41
		features["SSE42"] = cpu.X86.HasSSE42
		features["AVX"] = cpu.X86.HasAVX
		features["AVX2"] = cpu.X86.HasAVX2
		features["FMA"] = cpu.X86.HasFMA
		features["AVX512F"] = cpu.X86.HasAVX512F
		features["AVX512VNNI"] = cpu.X86.HasAVX512VNNI
		features["AVX512BF16"] = cpu.X86.HasAVX512BF16
	case "arm64":
		features["ASIMD"] = cpu.ARM64.HasASIMD
		features["ASIMDHP"] = cpu.ARM64.HasASIMDHP
		features["ASIMDDP"] = cpu.ARM64.HasASIMDDP
		features["FPHP"] = cpu.ARM64.HasFPHP
		features["SVE"] = cpu.ARM64.HasSVE
		features["SVE2"] = cpu.ARM64.HasSVE2
	}
	return Device{
		ID:       0,
		Name:     "cpu",
		GoOS:     runtime.GOOS,
		GoArch:   runtime.GOARCH,
		CPUs:     runtime.NumCPU(),
		Features: features,
	}
}
