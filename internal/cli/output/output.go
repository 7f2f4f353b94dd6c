package output

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Info prints an general informational message.
func Info(format string, a ...any) {
	color.New(color.Bold, color.FgBlue).Print("| ")
	fmt.Printf(format+"\n", a...)
}

// Success prints a success information message.
//
// Indicates a command or task has successfully completed.
func Success(format string, a ...any) {
	color.New(color.Bold, color.FgGreen).Print("| ")
	fmt.Printf(format+"\n", a...)
}

// Warning prints a cautionary message.
//
// Indicates that there may be an issue.
func Warning(format string, a ...any) {
	color.New(color.Bold, color.FgYellow).Printf("| %s: ", Translate("launcher.warning"))
	fmt.Printf(format+"\n", a...)
}

// Debug prints a debug message.
//
// Used to print information messages useful for debugging the launcher.
func Debug(format string, a ...any) {
	color.New(color.Bold, color.FgMagenta).Printf("| %s: ", Translate("launcher.debug"))
	fmt.Printf(format+"\n", a...)
}

// Error prints an error message.
//
// Indicates a fatal error.
func Error(format string, a ...any) {
	color.New(color.Bold, color.FgRed).Printf("| %s: ", Translate("launcher.error"))
	fmt.Printf(format+"\n", a...)
}

// Tip prints a tip message.
//
// Indicates an action that should be performed.
func Tip(format string, a ...any) {
	color.New(color.Bold, color.FgYellow).Printf("| %s: ", Translate("launcher.tip"))
	fmt.Printf(format+"\n", a...)
}

// Header prints a header message.
//
// Used for section headers and titles.
func Header(format string, a ...any) {
	color.New(color.Bold, color.Underline, color.FgWhite).Printf(format+"\n", a...)
}

// Status prints a status message.
//
// Used to show current state or status information.
func Status(format string, a ...any) {
	color.New(color.Faint, color.FgWhite).Printf(format+"\n", a...)
}

// CreateProgressBar creates a progress bar for operations with a known total.
func CreateProgressBar(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][%s][reset] ", description)),
		progressbar.OptionSetWriter(color.Output),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Print("\n")
		}),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
