package version

import (
	"fmt"
	"strconv"
	"time"
)

// Version is the application version. Can be overridden at build time via:
//
//	go build -ldflags "-X github.com/bintangmas1/app-point/internal/version.Version=1.2.3"
var Version = "1.0"

// RepoURL is the project repository URL.
var RepoURL = "https://github.com/bintangmas1/app-point"

// Banner prints identifying information about the server.
func Banner() string {
	y := strconv.Itoa(time.Now().Year())
	return fmt.Sprintf("%s\nPoint Admin (v%s)\n(c) 2024-%s %s\n", product(), Version, y, RepoURL)
}

func product() string {
	// figlet -f standard "Point Admin"
	const s = `
  ____       _       _        _       _           _
 |  _ \ ___ (_)_ __ | |_     / \   __| |_ __ ___ (_)_ __
 | |_) / _ \| | '_ \| __|   / _ \ / _` + "`" + ` | '_ ` + "`" + ` _ \| | '_ \
 |  __/ (_) | | | | | |_   / ___ \ (_| | | | | | | | | | |
 |_|   \___/|_|_| |_|\__| /_/   \_\__,_|_| |_| |_|_|_| |_|
`
	return s
}
