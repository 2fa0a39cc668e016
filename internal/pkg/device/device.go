// Package device classifies clients from their User-Agent header. The
// result is recorded on login and shown on the connected-devices screen.
package device

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	TypeMobile  = "Móvil"
	TypeTablet  = "Tablet"
	TypeDesktop = "Computadora"
	TypeTV      = "TV"
	TypeUnknown = "Desconocido"
)

// Info describes the device behind a request.
type Info struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
}

var mobileRe = regexp.MustCompile(`(?i)android|webos|iphone|ipad|ipod|blackberry|iemobile|opera mini`)

var tabletRe = regexp.MustCompile(`(?i)ipad|tablet`)

var desktopRe = regexp.MustCompile(`(?i)windows|mac|linux`)

// Detect builds the device info for a User-Agent string.
func Detect(userAgent string) Info {
	t := detectType(userAgent)
	browser := detectBrowser(userAgent)
	os := detectOS(userAgent)
	return Info{
		Name:    deviceName(t, os, browser),
		Type:    t,
		Browser: browser,
		OS:      os,
	}
}

func detectType(userAgent string) string {
	ua := strings.ToLower(userAgent)

	if strings.Contains(ua, "smart-tv") || strings.Contains(ua, "smarttv") ||
		strings.Contains(ua, "roku") || strings.Contains(ua, "appletv") {
		return TypeTV
	}

	if mobileRe.MatchString(ua) {
		if tabletRe.MatchString(ua) || (strings.Contains(ua, "android") && !strings.Contains(ua, "mobile")) {
			return TypeTablet
		}
		return TypeMobile
	}

	if desktopRe.MatchString(ua) {
		return TypeDesktop
	}
	return TypeUnknown
}

func detectBrowser(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Edg"):
		return "Edge"
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	case strings.Contains(userAgent, "Opera"):
		return "Opera"
	}
	return "Navegador desconocido"
}

func detectOS(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Windows"):
		return "Windows"
	case strings.Contains(userAgent, "Android"):
		return "Android"
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"):
		return "iOS"
	case strings.Contains(userAgent, "Mac"):
		return "macOS"
	case strings.Contains(userAgent, "Linux"):
		return "Linux"
	}
	return "Sistema desconocido"
}

var baseNames = map[string]map[string]string{
	TypeMobile:  {"iOS": "iPhone", "Android": "Android Phone"},
	TypeTablet:  {"iOS": "iPad", "Android": "Android Tablet"},
	TypeDesktop: {"Windows": "PC Windows", "macOS": "Mac", "Linux": "Linux PC"},
}

func deviceName(deviceType, os, browser string) string {
	base := baseNames[deviceType][os]
	if base == "" {
		base = deviceType + " " + os
	}
	return fmt.Sprintf("%s (%s)", base, browser)
}
