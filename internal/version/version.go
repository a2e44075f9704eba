package version

// Version is the scout-cli release version.
const Version = "0.2.0"
