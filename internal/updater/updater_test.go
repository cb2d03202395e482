package updater

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
)

func TestNormalizeVersion(t *testing.T) {
	cases := map[string]string{
		"v1.2.3": "1.2.3",
		"1.2.3":  "1.2.3",
		"dev":    "dev",
		"":       "",
	}
	for in, want := range cases {
		if got := normalizeVersion(in); got != want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsNewer(t *testing.T) {
	cases := []struct {
		current, latest string
		want            bool
	}{
		{"1.0.0", "1.0.1", true},
		{"1.0.0", "2.0.0", true},
		{"1.9.0", "1.10.0", true},
		{"1.0.1", "1.0.0", false},
		{"1.0.0", "1.0.0", false},
		{"dev", "1.0.0", false},
		{"", "1.0.0", false},
		{"1.0.0", "", false},
		{"not-a-version", "1.0.0", false},
	}
	for _, tc := range cases {
		if got := isNewer(tc.current, tc.latest); got != tc.want {
			t.Errorf("isNewer(%q, %q) = %v, want %v", tc.current, tc.latest, got, tc.want)
		}
	}
}

func TestAssetName(t *testing.T) {
	got := assetName("1.2.3")
	if !strings.HasPrefix(got, "lodestar_1.2.3_") {
		t.Errorf("assetName prefix wrong: %q", got)
	}
	if !strings.Contains(got, runtime.GOOS) || !strings.Contains(got, runtime.GOARCH) {
		t.Errorf("assetName missing OS/arch: %q", got)
	}
	if !strings.HasSuffix(got, ".tar.gz") {
		t.Errorf("assetName suffix wrong: %q", got)
	}
}

func TestExtractBinary(t *testing.T) {
	archive := buildTarGz(t, map[string][]byte{
		"README.md":     []byte("docs"),
		"dist/lodestar": []byte("fake-binary-contents"),
	})

	data, err := extractBinary(bytes.NewReader(archive))
	if err != nil {
		t.Fatalf("extractBinary failed: %v", err)
	}
	if string(data) != "fake-binary-contents" {
		t.Errorf("extracted wrong contents: %q", data)
	}
}

func TestExtractBinary_Missing(t *testing.T) {
	archive := buildTarGz(t, map[string][]byte{
		"README.md": []byte("docs"),
	})

	if _, err := extractBinary(bytes.NewReader(archive)); err == nil {
		t.Fatal("expected error for archive without binary")
	}
}

func TestCheckVersion_UpdateAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/release"}`))
	}))
	defer srv.Close()

	oldEndpoint := releaseEndpoint
	releaseEndpoint = srv.URL
	defer func() { releaseEndpoint = oldEndpoint }()

	result := CheckVersion("1.0.0")
	if !result.UpdateAvailable {
		t.Fatal("expected update to be available")
	}
	if result.LatestVersion != "2.0.0" {
		t.Errorf("LatestVersion = %q, want %q", result.LatestVersion, "2.0.0")
	}
	if result.ReleaseURL != "https://example.com/release" {
		t.Errorf("ReleaseURL = %q", result.ReleaseURL)
	}
}

func TestCheckVersion_NetworkFailureIsQuiet(t *testing.T) {
	oldEndpoint := releaseEndpoint
	releaseEndpoint = "http://127.0.0.1:1/nope"
	defer func() { releaseEndpoint = oldEndpoint }()

	result := CheckVersion("1.0.0")
	if result.UpdateAvailable {
		t.Error("unreachable endpoint must not report an update")
	}
	if result.CurrentVersion != "1.0.0" {
		t.Errorf("CurrentVersion = %q", result.CurrentVersion)
	}
}

func buildTarGz(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, data := range files {
		if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o755, Size: int64(len(data))}); err != nil {
			t.Fatalf("writing tar header: %v", err)
		}
		if _, err := tw.Write(data); err != nil {
			t.Fatalf("writing tar data: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip: %v", err)
	}
	return buf.Bytes()
}
