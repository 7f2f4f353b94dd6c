// Package updater checks GitHub releases for newer launcher builds and can
// replace the running binary in place.
package updater

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"VSLauncher/internal/network"

	"github.com/Masterminds/semver/v3"
)

// GitHubRelease represents a GitHub release
type GitHubRelease struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
	Prerelease  bool      `json:"prerelease"`
}

// Asset represents a release asset
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Updater handles application updates
type Updater struct {
	Owner       string
	Repo        string
	CurrentVer  string
	CacheDir    string
	APIEndpoint string
}

// UpdateInfo contains information about available updates
type UpdateInfo struct {
	Available   bool
	LatestVer   string
	ReleaseURL  string
	Changelog   string
	DownloadURL string
	Size        int64
}

// New creates a new updater instance
func New(owner, repo, currentVer, cacheDir string) *Updater {
	return &Updater{
		Owner:       owner,
		Repo:        repo,
		CurrentVer:  currentVer,
		CacheDir:    cacheDir,
		APIEndpoint: "https://api.github.com",
	}
}

// CheckForUpdates checks if there's a newer version available
func (u *Updater) CheckForUpdates() (*UpdateInfo, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", u.APIEndpoint, u.Owner, u.Repo)

	// Update checks must see new releases immediately; the cached copy is
	// only a fallback for offline use.
	cache := network.Cache[GitHubRelease]{
		Path:        filepath.Join(u.CacheDir, "updater", "latest_release.json"),
		URL:         url,
		AlwaysFetch: true,
	}

	var release GitHubRelease
	if err := cache.Get(&release); err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}

	// Skip prereleases unless the running build is one
	if release.Prerelease && !strings.Contains(u.CurrentVer, "-") {
		return &UpdateInfo{Available: false}, nil
	}

	latest, err := semver.NewVersion(strings.TrimPrefix(release.TagName, "v"))
	if err != nil {
		return nil, fmt.Errorf("parse release tag %q: %w", release.TagName, err)
	}
	current, err := semver.NewVersion(strings.TrimPrefix(u.CurrentVer, "v"))
	if err != nil {
		return nil, fmt.Errorf("parse current version %q: %w", u.CurrentVer, err)
	}

	if !latest.GreaterThan(current) {
		return &UpdateInfo{Available: false}, nil
	}

	asset := u.findAssetForPlatform(release.Assets)
	if asset == nil {
		return nil, fmt.Errorf("no suitable download found for platform %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	return &UpdateInfo{
		Available:   true,
		LatestVer:   latest.String(),
		ReleaseURL:  fmt.Sprintf("https://github.com/%s/%s/releases/tag/%s", u.Owner, u.Repo, release.TagName),
		Changelog:   release.Body,
		DownloadURL: asset.BrowserDownloadURL,
		Size:        asset.Size,
	}, nil
}

// findAssetForPlatform finds the appropriate asset for current platform
func (u *Updater) findAssetForPlatform(assets []Asset) *Asset {
	// Release naming convention:
	// - Linux:   vslauncher-linux-amd64
	// - macOS:   vslauncher-macos-amd64
	// - Windows: vslauncher-windows-amd64.exe
	osName := runtime.GOOS
	if osName == "darwin" {
		osName = "macos"
	}

	for i, asset := range assets {
		name := strings.ToLower(asset.Name)
		if !strings.Contains(name, osName) || !strings.Contains(name, runtime.GOARCH) {
			continue
		}
		if runtime.GOOS == "windows" != strings.HasSuffix(name, ".exe") {
			continue
		}
		return &assets[i]
	}
	return nil
}

// DownloadUpdate downloads and installs the update
func (u *Updater) DownloadUpdate(updateInfo *UpdateInfo, progressCallback func(float64)) error {
	if updateInfo == nil || !updateInfo.Available {
		return fmt.Errorf("no update available")
	}

	tempDir := filepath.Join(u.CacheDir, "updater", "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, "update.zip")
	if err := u.downloadFile(updateInfo.DownloadURL, tempFile, progressCallback); err != nil {
		return fmt.Errorf("download update: %w", err)
	}

	if err := u.extractUpdate(tempFile, tempDir); err != nil {
		return fmt.Errorf("extract update: %w", err)
	}

	newBinary, err := u.findNewBinary(tempDir)
	if err != nil {
		return fmt.Errorf("find new binary: %w", err)
	}

	if err := u.replaceBinary(newBinary); err != nil {
		return fmt.Errorf("replace binary: %w", err)
	}
	return nil
}

// downloadFile downloads a file with progress callback
func (u *Updater) downloadFile(url, destPath string, progressCallback func(float64)) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	counter := &ProgressReader{
		Reader:   resp.Body,
		Total:    resp.ContentLength,
		Callback: progressCallback,
	}

	_, err = io.Copy(out, counter)
	return err
}

// ProgressReader tracks download progress
type ProgressReader struct {
	Reader   io.Reader
	Total    int64
	Current  int64
	Callback func(float64)
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	pr.Current += int64(n)

	if pr.Callback != nil && pr.Total > 0 {
		pr.Callback(float64(pr.Current) / float64(pr.Total) * 100)
	}
	return n, err
}

// extractUpdate extracts the ZIP archive
func (u *Updater) extractUpdate(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		path := filepath.Join(destDir, file.Name)

		if file.FileInfo().IsDir() {
			os.MkdirAll(path, file.Mode())
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}

		outFile, err := os.Create(path)
		if err != nil {
			return err
		}
		rc, err := file.Open()
		if err != nil {
			outFile.Close()
			return err
		}
		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()
		if err != nil {
			return err
		}

		if u.isBinaryFile(file.Name) {
			os.Chmod(path, 0755)
		}
	}
	return nil
}

// isBinaryFile checks if a file is likely the launcher executable
func (u *Updater) isBinaryFile(filename string) bool {
	name := strings.ToLower(filename)

	if strings.HasSuffix(name, ".zip") || strings.HasSuffix(name, ".tar.gz") {
		return false
	}
	if runtime.GOOS == "windows" {
		return strings.HasSuffix(name, ".exe")
	}
	return !strings.Contains(name, ".") || strings.Contains(name, "vslauncher")
}

// findNewBinary finds the new binary in the extracted files
func (u *Updater) findNewBinary(extractDir string) (string, error) {
	var candidates []string

	err := filepath.Walk(extractDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && u.isBinaryFile(info.Name()) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no binary found in update package")
	}
	return candidates[0], nil
}

// replaceBinary replaces the current binary with the new one
func (u *Updater) replaceBinary(newBinary string) error {
	currentBinary, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate current executable: %w", err)
	}

	backupPath := currentBinary + ".backup"
	if err := copyFile(currentBinary, backupPath); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}

	if err := copyFile(newBinary, currentBinary); err != nil {
		// Restore backup on failure
		copyFile(backupPath, currentBinary)
		os.Remove(backupPath)
		return fmt.Errorf("install new binary: %w", err)
	}

	if err := os.Chmod(currentBinary, 0755); err != nil {
		return fmt.Errorf("set executable permissions: %w", err)
	}
	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}

// GetVersionInfo returns current version information
func (u *Updater) GetVersionInfo() map[string]string {
	return map[string]string{
		"current":  u.CurrentVer,
		"os":       runtime.GOOS,
		"arch":     runtime.GOARCH,
		"platform": fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
