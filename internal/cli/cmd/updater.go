package cmd

import (
	"fmt"
	"os"

	"VSLauncher/internal/cli/output"
	"VSLauncher/internal/version"
	env "VSLauncher/pkg"
	"VSLauncher/pkg/updater"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

// UpdateCheckCmd checks for available updates
type UpdateCheckCmd struct{}

// UpdateDownloadCmd downloads and installs available updates
type UpdateDownloadCmd struct {
	Force bool `help:"Skip confirmation prompt" short:"f"`
}

// UpdateInfoCmd shows current version information
type UpdateInfoCmd struct{}

// UpdateCmd manages application updates
type UpdateCmd struct {
	Check    UpdateCheckCmd    `cmd:"" help:"${update_check}"`
	Download UpdateDownloadCmd `cmd:"" help:"${update_download}"`
	Info     UpdateInfoCmd     `cmd:"" help:"${update_info}"`
}

func (c *UpdateCheckCmd) Run(ctx *kong.Context) error {
	up := createUpdater()

	output.Info("Checking for updates...")

	updateInfo, err := up.CheckForUpdates()
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}

	if !updateInfo.Available {
		output.Success("You are running the latest version!")
		return nil
	}

	fmt.Printf("\n%s %s is available!\n", color.New(color.FgGreen, color.Bold).Sprint("Update available:"), updateInfo.LatestVer)
	fmt.Printf("%s %s\n", color.New(color.FgCyan).Sprint("Current version:"), up.CurrentVer)
	fmt.Printf("%s %s\n", color.New(color.FgCyan).Sprint("Download size:"), formatFileSize(updateInfo.Size))
	fmt.Printf("%s %s\n", color.New(color.FgCyan).Sprint("Release URL:"), updateInfo.ReleaseURL)

	if updateInfo.Changelog != "" {
		fmt.Printf("\n%s\n", color.New(color.FgYellow, color.Bold).Sprint("Changelog:"))
		fmt.Println(updateInfo.Changelog)
	}

	fmt.Printf("\n%s Run '%s' to install the update.\n",
		color.New(color.FgGreen).Sprint("→"),
		color.New(color.Bold).Sprint("vslauncher update download"))

	return nil
}

func (c *UpdateDownloadCmd) Run(ctx *kong.Context) error {
	up := createUpdater()

	output.Info("Checking for updates...")

	updateInfo, err := up.CheckForUpdates()
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}

	if !updateInfo.Available {
		output.Success("You are already running the latest version!")
		return nil
	}

	fmt.Printf("Update available: %s → %s\n",
		color.New(color.Bold).Sprint(up.CurrentVer),
		color.New(color.FgGreen, color.Bold).Sprint(updateInfo.LatestVer))

	if !c.Force {
		fmt.Printf("Download size: %s\n", formatFileSize(updateInfo.Size))

		var confirm string
		fmt.Print("Do you want to download and install this update? [y/N]: ")
		fmt.Scanln(&confirm)

		if confirm != "y" && confirm != "Y" {
			output.Info("Update cancelled.")
			return nil
		}
	}

	fmt.Println()
	output.Info("Downloading update...")

	var lastProgress float64
	err = up.DownloadUpdate(updateInfo, func(progress float64) {
		// Only print progress updates to avoid spam
		if progress-lastProgress >= 10 || progress >= 100 {
			fmt.Printf("\rDownload progress: %.1f%%", progress)
			lastProgress = progress
		}
	})
	if err != nil {
		fmt.Println()
		return fmt.Errorf("download update: %w", err)
	}

	fmt.Println()
	output.Success("Update downloaded and installed successfully!")
	output.Status("Restart the launcher to use the new version")
	return nil
}

func (c *UpdateInfoCmd) Run(ctx *kong.Context) error {
	up := createUpdater()

	info := up.GetVersionInfo()
	fmt.Printf("Current version: %s\n", info["current"])
	fmt.Printf("Platform:        %s\n", info["platform"])

	updateInfo, err := up.CheckForUpdates()
	if err != nil {
		// Version info is still useful offline
		return nil
	}
	if updateInfo.Available {
		fmt.Printf("\n%s %s is available! Run '%s' to update.\n",
			color.New(color.FgGreen).Sprint("Update available:"),
			updateInfo.LatestVer,
			color.New(color.Bold).Sprint("vslauncher update download"))
	}
	return nil
}

// createUpdater creates a new updater instance with appropriate configuration
func createUpdater() *updater.Updater {
	cacheDir := os.Getenv("VSLAUNCHER_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = env.CacheDir
	}
	return updater.New("miaoxu", "VSLauncher", version.Current, cacheDir)
}

// formatFileSize formats a byte count for humans
func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMG"[exp])
}
