package platform

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		osName string
		want   Kind
	}{
		{"linux", Linux},
		{"Linux", Linux},
		{"darwin", MacOS},
		{"Mac OS X", MacOS},
		{"windows", Windows},
		{"Windows 10", Windows},
		{"freebsd", Other},
		{"plan9", Other},
		{"", Other},
	}

	for _, tt := range tests {
		t.Run(tt.osName, func(t *testing.T) {
			if got := Detect(tt.osName); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.osName, got, tt.want)
			}
		})
	}
}

func TestOptPrefix(t *testing.T) {
	if got := Windows.OptPrefix(); got != "/" {
		t.Errorf("Windows.OptPrefix() = %q, want %q", got, "/")
	}
	for _, k := range []Kind{Linux, MacOS, Other} {
		if got := k.OptPrefix(); got != "-" {
			t.Errorf("%v.OptPrefix() = %q, want %q", k, got, "-")
		}
	}
}

func TestListSeparator(t *testing.T) {
	if got := Windows.ListSeparator(); got != ";" {
		t.Errorf("Windows.ListSeparator() = %q, want %q", got, ";")
	}
	if got := Linux.ListSeparator(); got != ":" {
		t.Errorf("Linux.ListSeparator() = %q, want %q", got, ":")
	}
}

func TestCurrent(t *testing.T) {
	// Whatever the host is, Current must never fail to classify.
	if got := Current(); got < Other || got > Windows {
		t.Errorf("Current() = %v, out of range", got)
	}
}
