// Package provebench holds module-wide metadata.
package provebench

// Version is the provebench release version.
const Version = "0.2.0"
