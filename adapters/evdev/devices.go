package evdev

import (
	"fmt"
	"strings"

	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/exp/slices"
)

// findFirstDevice scans available evdev devices and returns the path
// of the first one that supports every type in want and whose reported
// name contains nameSubstr (case-insensitive).
func findFirstDevice(want []evdev.EvType, nameSubstr string) (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("listing devices: %w", err)
	}
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		if !hasAllTypes(dev, want) {
			dev.Close()
			continue
		}
		name, err := dev.Name()
		if err != nil || !strings.Contains(strings.ToLower(name), nameSubstr) {
			dev.Close()
			continue
		}
		dev.Close()
		return p.Path, nil
	}
	return "", fmt.Errorf("no device found with types %v matching %q", want, nameSubstr)
}

func hasAllTypes(dev *evdev.InputDevice, want []evdev.EvType) bool {
	types := dev.CapableTypes()
	for _, t := range want {
		if !slices.Contains(types, t) {
			return false
		}
	}
	return true
}
