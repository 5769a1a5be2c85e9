/*
Package version holds the build version, overridden with -ldflags at release time.
*/
package version

// Version is the current version of cvelookup.
var Version = "0.1.0"
