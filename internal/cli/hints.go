package cli

// troubleshootingHints returns advisory text for a failed run on goos.
func troubleshootingHints(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			"Run the terminal as Administrator",
			"Check that antivirus software is not blocking file operations",
			"Make sure the project path contains no special characters",
			"Make sure git and your package manager are installed and on PATH",
		}
	default:
		return []string{
			"Check write permissions for the current directory",
			"If permissions are denied, fix ownership of the directory or retry with sudo",
			"Make sure git and your package manager are installed and on PATH",
			"Run with --verbose for detailed logs",
		}
	}
}
