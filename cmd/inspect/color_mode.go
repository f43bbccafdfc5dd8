package main

import (
	"fmt"
	"os"
	"strings"
)

type colorMode string

const (
	colorModeAuto colorMode = "auto"
	colorModeOn   colorMode = "on"
	colorModeOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorModeAuto, nil
	case "on":
		return colorModeOn, nil
	case "off":
		return colorModeOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func shouldColor(mode colorMode) bool {
	switch mode {
	case colorModeOn:
		return true
	case colorModeOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}
