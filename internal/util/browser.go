package util

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommand returns the command opening url on goos.
func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		// rundll32 works from Windows 7 on, unlike "cmd /c start" with quoted URLs.
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Start()
}

// OpenBrowserWithFallback tries OpenBrowser and then common alternatives.
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		return exec.Command("explorer", url).Start()
	case "linux":
		browsers := []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"}
		for _, browser := range browsers {
			if err := exec.Command(browser, url).Start(); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("open browser: %w", err)
}

// LocalURL is the address the service is reachable at on this machine.
func LocalURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}
