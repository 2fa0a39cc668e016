package device

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		userAgent   string
		wantType    string
		wantBrowser string
		wantOS      string
	}{
		{
			name:        "windows chrome",
			userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			wantType:    TypeDesktop,
			wantBrowser: "Chrome",
			wantOS:      "Windows",
		},
		{
			name:        "iphone safari",
			userAgent:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/604.1",
			wantType:    TypeMobile,
			wantBrowser: "Safari",
			wantOS:      "iOS",
		},
		{
			name:        "ipad",
			userAgent:   "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Safari/604.1",
			wantType:    TypeTablet,
			wantBrowser: "Safari",
			wantOS:      "iOS",
		},
		{
			name:        "android tablet",
			userAgent:   "Mozilla/5.0 (Linux; Android 13; SM-X700) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0 Safari/537.36",
			wantType:    TypeTablet,
			wantBrowser: "Chrome",
			wantOS:      "Android",
		},
		{
			name:        "android phone",
			userAgent:   "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0 Mobile Safari/537.36",
			wantType:    TypeMobile,
			wantBrowser: "Chrome",
			wantOS:      "Android",
		},
		{
			name:        "smart tv",
			userAgent:   "Mozilla/5.0 (SMART-TV; Linux; Tizen 6.0) AppleWebKit/537.36",
			wantType:    TypeTV,
			wantBrowser: "Navegador desconocido",
			wantOS:      "Linux",
		},
		{
			name:        "edge on windows",
			userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 Edg/120.0",
			wantType:    TypeDesktop,
			wantBrowser: "Edge",
			wantOS:      "Windows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.userAgent)
			if got.Type != tt.wantType {
				t.Fatalf("type = %q, want %q", got.Type, tt.wantType)
			}
			if got.Browser != tt.wantBrowser {
				t.Fatalf("browser = %q, want %q", got.Browser, tt.wantBrowser)
			}
			if got.OS != tt.wantOS {
				t.Fatalf("os = %q, want %q", got.OS, tt.wantOS)
			}
		})
	}
}

func TestDetectUnknown(t *testing.T) {
	got := Detect("curl/8.0.1")
	if got.Type != TypeUnknown {
		t.Fatalf("type = %q, want %q", got.Type, TypeUnknown)
	}
}

func TestDeviceName(t *testing.T) {
	got := Detect("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Safari/604.1")
	if got.Name != "iPhone (Safari)" {
		t.Fatalf("name = %q, want %q", got.Name, "iPhone (Safari)")
	}
}
